// SPDX-License-Identifier: MPL-2.0

// Package expand produces the fully macro-expanded source of a named
// cargo dependency, optionally narrowed to an item path.
//
// It is a build-time introspection façade: a dependency name is resolved
// to its manifest through a project-wide metadata query, an expansion
// build is driven against that manifest, and the resulting source text is
// returned verbatim or filtered through a selector.
//
//	expander := expand.New(expand.Options{}.WithAllFeatures())
//	src, err := expander.Expand(ctx, "anyhow")
package expand
