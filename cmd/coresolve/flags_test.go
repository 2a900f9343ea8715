// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"maps"
	"testing"

	"github.com/coresolve/coresolve/pkg/coredesc"
)

func TestParseCustomFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		want    map[string]bool
		wantErr bool
	}{
		{"empty", nil, map[string]bool{}, false},
		{"bare name", []string{"fast"}, map[string]bool{"fast": true}, false},
		{"explicit values", []string{"fast=false", "debug=1"}, map[string]bool{"fast": false, "debug": true}, false},
		{"non boolean word", []string{"fast", "fast=no"}, nil, true},
		{"last of valid", []string{"fast", "fast=false"}, map[string]bool{"fast": false}, false},
		{"missing name", []string{"=true"}, nil, true},
		{"bad value", []string{"fast=maybe"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseCustomFlags(tt.entries)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseCustomFlags(%v) = %v, want error", tt.entries, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCustomFlags(%v) error = %v", tt.entries, err)
			}
			if !maps.Equal(got, tt.want) {
				t.Errorf("parseCustomFlags(%v) = %v, want %v", tt.entries, got, tt.want)
			}
		})
	}
}

func TestSelectionFlags_TargetDefaults(t *testing.T) {
	t.Parallel()

	core, err := coredesc.ParseBytes([]byte(`CAPI=2:
name: acme:ip:uart:1.0
targets:
  sim:
    default_tool: icarus
    flags:
      fast: true
      trace: false
`), "uart.core")
	if err != nil {
		t.Fatal(err)
	}

	sel := selectionFlags{target: "sim", custom: []string{"trace"}, toplevel: true}
	f, err := sel.flags(core)
	if err != nil {
		t.Fatalf("flags() error = %v", err)
	}
	if f.Tool != "icarus" {
		t.Errorf("Tool = %q, want icarus from default_tool", f.Tool)
	}
	if !f.Custom["fast"] || !f.Custom["trace"] {
		t.Errorf("Custom = %v, want fast and trace set", f.Custom)
	}
	if !f.IsToplevel {
		t.Error("IsToplevel = false")
	}

	sel.tool = "verilator"
	if f, _ = sel.flags(core); f.Tool != "verilator" {
		t.Errorf("Tool = %q, want explicit verilator", f.Tool)
	}
}
