// SPDX-License-Identifier: MPL-2.0

package vlnv

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  ComponentID
	}{
		{"name only", "unversioned", ComponentID{Name: "unversioned"}},
		{"legacy versioned", "versioned-1.0", ComponentID{Name: "versioned", Version: "1.0"}},
		{"legacy dashed name", "my-core-2.1.3", ComponentID{Name: "my-core", Version: "2.1.3"}},
		{"legacy name with dash letter", "my-core", ComponentID{Name: "my-core"}},
		{"colon name", "::n", ComponentID{Name: "n"}},
		{"colon name version", "::nv:1.0", ComponentID{Name: "nv", Version: "1.0"}},
		{"library", ":l:nv:1.0", ComponentID{Library: "l", Name: "nv", Version: "1.0"}},
		{"full", "v:l:nv:1.0", ComponentID{Vendor: "v", Library: "l", Name: "nv", Version: "1.0"}},
		{"name colon version", "nv:2.0", ComponentID{Name: "nv", Version: "2.0"}},
		{"vln without version", "v:l:n", ComponentID{Vendor: "v", Library: "l", Name: "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "::", "a:b:c:d:e", "has space", "v:l::1.0"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", input)
			}
			if !errors.Is(err, ErrInvalidVLNV) {
				t.Errorf("Parse(%q) error should wrap ErrInvalidVLNV, got: %v", input, err)
			}
		})
	}
}

func TestComponentID_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   ComponentID
		want string
	}{
		{MustParse("unversioned"), "::unversioned"},
		{MustParse("versioned-1.0"), "::versioned:1.0"},
		{MustParse("v:l:n:1.2"), "v:l:n:1.2"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestComponentID_Sanitized(t *testing.T) {
	t.Parallel()

	if got := MustParse("acme:ip:uart:1.0").Sanitized(); got != "acme_ip_uart_1.0" {
		t.Errorf("Sanitized() = %q", got)
	}
	if got := MustParse("::uart:1.0").Sanitized(); got != "uart_1.0" {
		t.Errorf("Sanitized() = %q", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"::a:1.0", "::a:1.0", 0},
		{"::a:1.0", "::a:1.1", -1},
		{"::a:1.10", "::a:1.9", 1},
		{"::a:1.01", "::a:1.1", 0},
		{"::a:1.0", "::a:1.0.1", -1},
		{"::a:1.0", "::b:0.1", -1},
		{"x::a:9", "y::a:1", -1},
		{"::a:1.rc1", "::a:1.0", 1},
		{"::a:1.alpha", "::a:1.beta", -1},
		{"::a", "::a:1.0", -1},
		{"::a", "::a:0", -1},
		{"::a:1.2", "::a:1.2.0", 0},
		{"::a:1.2.1", "::a:1.2", 1},
		{"::a:1", "::a:1.0.rc1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			t.Parallel()
			got := Compare(MustParse(tt.a), MustParse(tt.b))
			if got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if back := Compare(MustParse(tt.b), MustParse(tt.a)); back != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, back, -tt.want)
			}
		})
	}
}

func TestKey_TotalOrder(t *testing.T) {
	t.Parallel()

	// Mixed numeric and lexical segments must stay transitive.
	versions := []Version{"2", "10", "10a", "9", "9a", "a", "0", "1.0", "1", "1.0.0", "1.a", ""}
	for _, a := range versions {
		for _, b := range versions {
			for _, c := range versions {
				ab := CompareVersions(a, b)
				bc := CompareVersions(b, c)
				if ab <= 0 && bc <= 0 && CompareVersions(a, c) > 0 {
					t.Errorf("ordering not transitive: %s <= %s <= %s but %s > %s", a, b, c, a, c)
				}
			}
		}
	}
}
