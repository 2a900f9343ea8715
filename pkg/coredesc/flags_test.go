// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"reflect"
	"slices"
	"testing"
)

func TestFlags_Active(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags Flags
		want  []string
	}{
		{"defaults", Flags{}, []string{"target_default"}},
		{"all", Flags{Target: "sim", Tool: "icarus", IsToplevel: true, Custom: map[string]bool{"a": true, "b": false}},
			[]string{"a", "is_toplevel", "target_sim", "tool_icarus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.flags.Active().Names(); !slices.Equal(got, tt.want) {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlags_WithTargetDefaults(t *testing.T) {
	t.Parallel()

	tf := TargetFlags{Tool: "verilator", Flags: map[string]bool{"fast": true, "trace": false}}

	t.Run("runtime values win", func(t *testing.T) {
		t.Parallel()

		in := Flags{Tool: "icarus", Custom: map[string]bool{"trace": true}}
		got := in.WithTargetDefaults(tf)
		want := Flags{Tool: "icarus", Custom: map[string]bool{"fast": true, "trace": true}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("WithTargetDefaults() = %+v, want %+v", got, want)
		}
		if len(in.Custom) != 1 {
			t.Error("WithTargetDefaults() mutated its receiver")
		}
	})

	t.Run("fills tool", func(t *testing.T) {
		t.Parallel()

		got := Flags{Target: "sim"}.WithTargetDefaults(tf)
		if got.Tool != "verilator" || got.Target != "sim" || !got.Custom["fast"] {
			t.Errorf("WithTargetDefaults() = %+v", got)
		}
	})

	t.Run("empty defaults", func(t *testing.T) {
		t.Parallel()

		got := Flags{Tool: "x"}.WithTargetDefaults(TargetFlags{})
		if got.Tool != "x" || len(got.Custom) != 0 {
			t.Errorf("WithTargetDefaults() = %+v", got)
		}
	})
}

func TestFlags_TargetName(t *testing.T) {
	t.Parallel()

	if got := (Flags{}).TargetName(); got != DefaultTarget {
		t.Errorf("TargetName() = %q, want %q", got, DefaultTarget)
	}
	if got := (Flags{Target: "lint"}).TargetName(); got != "lint" {
		t.Errorf("TargetName() = %q, want lint", got)
	}
}
