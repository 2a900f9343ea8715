// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/coresolve/coresolve/pkg/vlnv"
)

func TestParse_EmptyCore(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"empty.core", "comments_only.core"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(filepath.Join("testdata", name))
			if err == nil {
				t.Fatal("expected parse error for empty core")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			if !strings.Contains(err.Error(), "error while trying to parse the core file") {
				t.Errorf("unexpected message: %v", err)
			}
		})
	}
}

func TestParseBytes_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "not a mapping",
			data:    "- a\n- b\n",
			wantMsg: "top level must be a mapping",
		},
		{
			name:    "malformed yaml",
			data:    "name: [unterminated\n",
			wantMsg: "parse the core file",
		},
		{
			name:    "missing name",
			data:    "CAPI=2:\ndescription: no name\n",
			wantMsg: "name",
		},
		{
			name:    "invalid name",
			data:    "name: a:b:c:d:e\n",
			wantMsg: "invalid vlnv",
		},
		{
			name:    "invalid dependency",
			data:    "name: ::x:1\nfilesets:\n  fs:\n    depend: ['>=']\n",
			wantMsg: "filesets.fs.depend",
		},
		{
			name:    "invalid position",
			data:    "name: ::x:1\ngenerate:\n  g:\n    generator: gen\n    position: middle\n",
			wantMsg: "generate.g.position",
		},
		{
			name:    "undeclared vpi",
			data:    "name: ::x:1\ntargets:\n  default:\n    vpi: [nope]\n",
			wantMsg: `undeclared vpi module "nope"`,
		},
		{
			name:    "non scalar default",
			data:    "name: ::x:1\nparameters:\n  p:\n    datatype: str\n    paramtype: plusarg\n    default: {a: b}\n",
			wantMsg: "parameters.p",
		},
		{
			name:    "unbalanced script quote",
			data:    "name: ::x:1\nscripts:\n  s:\n    cmd: echo 'oops\n",
			wantMsg: "scripts.s.cmd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseBytes([]byte(tt.data), "test.core")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_StructuralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		wantMsg string
	}{
		{"undeclared_fileset.core", `undeclared fileset "tb"`},
		{"unknown_key.core", "targets.default.toplevl"},
		{"bad_expr.core", "missing ')'"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(filepath.Join("testdata", tt.file))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Parse(filepath.Join(t.TempDir(), "nope.core"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrParse) {
		t.Error("a read failure is not a parse error")
	}
}

func TestParse_Identity(t *testing.T) {
	t.Parallel()

	d := mustParseCore(t, "virtual.core")

	if want := vlnv.MustParse("::impl1:0"); d.ID != want {
		t.Errorf("ID = %v, want %v", d.ID, want)
	}
	if got := d.Virtuals(); !slices.Equal(got, []vlnv.ComponentID{vlnv.MustParse("::someinterface:0")}) {
		t.Errorf("Virtuals() = %v", got)
	}
	if d.Provider == nil || d.Provider.Name != "github" {
		t.Fatalf("Provider = %+v", d.Provider)
	}
	if d.Provider.Attrs["repo"] != "impl1" {
		t.Errorf("Provider.Attrs = %v", d.Provider.Attrs)
	}
	if d.FilesRoot != "testdata" {
		t.Errorf("FilesRoot = %q, want testdata", d.FilesRoot)
	}
}

func TestParse_KeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	d := mustParseCore(t, "parameters.core")

	want := []string{"param1", "param2", "intparam", "boolfalse", "booltrue", "int0", "emptystr", "realpi", "condparamtype", "badbool"}
	if got := d.ParameterNames(); !slices.Equal(got, want) {
		t.Errorf("ParameterNames() = %v, want %v", got, want)
	}

	targets := []string{"default", "noparameters", "nonexistant", "multiparameters", "use_flags", "types", "empty", "override", "later_override", "badvalue"}
	if got := d.TargetNames(); !slices.Equal(got, targets) {
		t.Errorf("TargetNames() = %v, want %v", got, targets)
	}
}

func TestParse_ScriptCommandString(t *testing.T) {
	t.Parallel()

	d := mustParseCore(t, "hooks.core")
	s, ok := d.Script("shell_cmd")
	if !ok {
		t.Fatal("shell_cmd not found")
	}
	want := []string{"make", "-C", "$FILES_ROOT/sw", "all tests"}
	if !slices.Equal(s.Cmd, want) {
		t.Errorf("Cmd = %q, want %q", s.Cmd, want)
	}
}

func TestParse_ScriptCommandSubstitution(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`CAPI=2:
name: ::subst:0
scripts:
  rev:
    cmd: echo $(git rev-parse HEAD)
`), "subst.core")
	if !errors.Is(err, ErrParse) || !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("error = %v, want ErrParse wrapping ErrUnsupportedCommand", err)
	}
	if !strings.Contains(err.Error(), "scripts.rev.cmd") {
		t.Errorf("error %q should name scripts.rev.cmd", err.Error())
	}
}

func TestParse_DescriptorIsReusable(t *testing.T) {
	t.Parallel()

	d := mustParseCore(t, "parameters.core")

	if _, err := d.Parameters(Flags{Target: "nonexistant"}); err == nil {
		t.Fatal("expected reference error")
	}
	got, err := d.Parameters(Flags{Target: "multiparameters"})
	if err != nil {
		t.Fatalf("Parameters() after failed call error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Parameters() = %v, want 2 entries", got)
	}
}
