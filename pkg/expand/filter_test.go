// SPDX-License-Identifier: MPL-2.0

package expand

import (
	"context"
	"errors"
	"strings"
	"testing"

	"depex-cli/pkg/rustsyn"
	"depex-cli/pkg/selector"
)

const expandedFixture = `#!/usr/bin/env run-cargo-script
#![feature(prelude_import)]
#![no_std]
pub struct A;
pub fn B() -> u32 {
    1
}
pub mod C {
    pub fn inner() -> bool {
        true
    }
    pub struct Hidden;
}
`

func mustSelector(t *testing.T, expr string) selector.Selector {
	t.Helper()
	sel, err := selector.Parse(expr)
	if err != nil {
		t.Fatalf("selector.Parse(%q) error = %v", expr, err)
	}
	return sel
}

func TestFilter_KeepsOnlySelectedItem(t *testing.T) {
	t.Parallel()

	got, err := Filter(expandedFixture, mustSelector(t, "B"))
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	if !strings.Contains(got, "pub fn B()") {
		t.Errorf("Filter() dropped the selected item:\n%s", got)
	}
	for _, absent := range []string{"struct A", "mod C", "#!", "no_std"} {
		if strings.Contains(got, absent) {
			t.Errorf("Filter() kept %q:\n%s", absent, got)
		}
	}

	// The filtered output must be syntactically valid on its own.
	file, err := rustsyn.Parse(got)
	if err != nil {
		t.Fatalf("filtered output does not reparse: %v", err)
	}
	if len(file.Items) != 1 || file.Items[0].Name != "B" {
		t.Errorf("filtered output items = %+v, want exactly B", file.Items)
	}
	if file.Shebang != "" || len(file.Attrs) != 0 {
		t.Error("filtered output still carries file-level shebang or attributes")
	}
}

func TestFilter_DescendsIntoModules(t *testing.T) {
	t.Parallel()

	got, err := Filter(expandedFixture, mustSelector(t, "C::inner"))
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	if !strings.Contains(got, "pub mod C") || !strings.Contains(got, "fn inner()") {
		t.Errorf("Filter() lost the module shell or target:\n%s", got)
	}
	if strings.Contains(got, "Hidden") {
		t.Errorf("Filter() kept unselected sibling:\n%s", got)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	t.Parallel()

	sel := mustSelector(t, "C::inner")
	once, err := Filter(expandedFixture, sel)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	twice, err := Filter(once, sel)
	if err != nil {
		t.Fatalf("Filter() second pass error = %v", err)
	}
	if once != twice {
		t.Errorf("Filter() is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestFilter_NoMatchYieldsEmptyValidFile(t *testing.T) {
	t.Parallel()

	got, err := Filter(expandedFixture, mustSelector(t, "Nope"))
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if strings.TrimSpace(got) != "" {
		t.Errorf("Filter() with no matches = %q, want empty file", got)
	}
	if _, err := rustsyn.Parse(got); err != nil {
		t.Errorf("empty filtered output does not reparse: %v", err)
	}
}

func TestFilter_ParseErrorIsHard(t *testing.T) {
	t.Parallel()

	// Truncated compiler output is a hard error, never best-effort.
	_, err := Filter("pub fn broken() {", mustSelector(t, "broken"))
	var parseErr *rustsyn.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Filter() error = %v, want ParseError", err)
	}
}

func TestExpandPath_EqualsExpandThenFilter(t *testing.T) {
	t.Parallel()

	pkg := packageDir(t, "demo", "[package]\nname = \"demo\"\nversion = \"1.0.0\"\n")
	sel := mustSelector(t, "B")

	mk := func() *Expander {
		return NewWithDependencies(Options{}, Dependencies{
			Metadata: &fakeMetadata{pkg: pkg},
			Invoker:  &fakeInvoker{responses: []invokeResponse{{text: expandedFixture}}},
		})
	}

	viaPath, err := mk().ExpandPath(context.Background(), "demo", sel)
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}

	full, err := mk().Expand(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	viaFilter, err := Filter(full, sel)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	if viaPath != viaFilter {
		t.Errorf("ExpandPath != Filter(Expand):\n%s\nvs\n%s", viaPath, viaFilter)
	}
}
