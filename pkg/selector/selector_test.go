// SPDX-License-Identifier: MPL-2.0

package selector_test

import (
	"errors"
	"testing"

	"depex-cli/pkg/rustsyn"
	"depex-cli/pkg/selector"
)

func items(t *testing.T, src string) []rustsyn.Item {
	t.Helper()
	f, err := rustsyn.Parse(src)
	if err != nil {
		t.Fatalf("rustsyn.Parse() error = %v", err)
	}
	return f.Items
}

func names(list []rustsyn.Item) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.Name)
	}
	return out
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "single segment", expr: "Error", want: "Error"},
		{name: "double colon path", expr: "hash::sip::SipHasher", want: "hash::sip::SipHasher"},
		{name: "dotted path", expr: "hash.sip.SipHasher", want: "hash::sip::SipHasher"},
		{name: "wildcard", expr: "hash::*", want: "hash::*"},
		{name: "underscore", expr: "_private", want: "_private"},
		{name: "empty", expr: "", wantErr: true},
		{name: "empty segment", expr: "hash::", wantErr: true},
		{name: "bad characters", expr: "hash::sip hasher", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel, err := selector.Parse(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, selector.ErrInvalidSelector) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidSelector", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if sel.String() != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.expr, sel.String(), tt.want)
			}
		})
	}
}

func TestApply_TopLevel(t *testing.T) {
	t.Parallel()

	list := items(t, "pub struct A;\npub fn B() {}\npub struct C;\n")
	sel, err := selector.Parse("B")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := sel.Apply(list)
	if len(got) != 1 || got[0].Name != "B" {
		t.Errorf("Apply() = %v, want [B]", names(got))
	}
}

func TestApply_ModuleDescent(t *testing.T) {
	t.Parallel()

	list := items(t, `pub mod hash {
    pub mod sip {
        pub struct SipHasher;
        pub struct Other;
    }
    pub fn stray() {}
}
pub fn top() {}
`)
	sel, err := selector.Parse("hash::sip::SipHasher")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := sel.Apply(list)
	if len(got) != 1 || got[0].Name != "hash" {
		t.Fatalf("Apply() top = %v, want [hash]", names(got))
	}
	sip := got[0].Items
	if len(sip) != 1 || sip[0].Name != "sip" {
		t.Fatalf("Apply() hash children = %v, want [sip]", names(sip))
	}
	leaf := sip[0].Items
	if len(leaf) != 1 || leaf[0].Name != "SipHasher" {
		t.Errorf("Apply() sip children = %v, want [SipHasher]", names(leaf))
	}
}

func TestApply_Wildcard(t *testing.T) {
	t.Parallel()

	list := items(t, "pub mod a { pub fn x() {} }\npub mod b { pub fn x() {} pub fn y() {} }\n")
	sel, err := selector.Parse("*::x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := sel.Apply(list)
	if len(got) != 2 {
		t.Fatalf("Apply() = %v, want both modules", names(got))
	}
	for _, mod := range got {
		if len(mod.Items) != 1 || mod.Items[0].Name != "x" {
			t.Errorf("Apply() %s children = %v, want [x]", mod.Name, names(mod.Items))
		}
	}
}

func TestApply_NonModulePathPrefixDropped(t *testing.T) {
	t.Parallel()

	// A struct on the path prefix cannot be descended into.
	list := items(t, "pub struct hash;\n")
	sel, err := selector.Parse("hash::inner")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := sel.Apply(list); len(got) != 0 {
		t.Errorf("Apply() = %v, want empty", names(got))
	}
}

func TestApply_UnnamedItemsNeverMatch(t *testing.T) {
	t.Parallel()

	list := items(t, "use std::fmt;\n")
	sel, err := selector.Parse("*")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := sel.Apply(list); len(got) != 0 {
		t.Errorf("Apply() = %v, want empty (use decls are unnamed)", names(got))
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	list := items(t, "pub mod m { pub fn f() {} pub fn g() {} }\n")
	sel, err := selector.Parse("m::f")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	once := sel.Apply(list)
	twice := sel.Apply(once)
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("Apply() lengths = %d, %d", len(once), len(twice))
	}
	if names(once[0].Items)[0] != names(twice[0].Items)[0] {
		t.Errorf("Apply() not idempotent")
	}
}
