// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"depex-cli/pkg/rustsyn"
	"depex-cli/pkg/selector"
)

// Filter restricts expanded source text to the items reachable via sel,
// returning text that is syntactically valid on its own.
//
// The file-level shebang and attributes are always discarded: once
// content is restricted to a sub-path they no longer make sense outside
// full-file context. Filtering is purely structural; no semantic
// validation is performed.
func Filter(content string, sel selector.Selector) (string, error) {
	file, err := rustsyn.Parse(content)
	if err != nil {
		return "", err
	}
	file.Shebang = ""
	file.Attrs = nil
	file.Items = sel.Apply(file.Items)
	return file.Format(), nil
}
