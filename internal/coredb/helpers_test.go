// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/coresolve/coresolve/pkg/coredesc"
)

// core builds a descriptor named name whose default target depends on deps.
func core(t *testing.T, name string, deps ...string) *coredesc.Descriptor {
	t.Helper()
	return coreWith(t, name, "", deps...)
}

// coreWith is core with extra top-level YAML inserted after the name.
func coreWith(t *testing.T, name, extra string, deps ...string) *coredesc.Descriptor {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "CAPI=2:\nname: %s\n%s", name, extra)
	if len(deps) > 0 {
		b.WriteString("filesets:\n  rtl:\n    depend:\n")
		for _, d := range deps {
			fmt.Fprintf(&b, "      - %q\n", d)
		}
		b.WriteString("targets:\n  default:\n    filesets: [rtl]\n")
	}

	d, err := coredesc.ParseBytes([]byte(b.String()), strings.ReplaceAll(name, ":", "_")+".core")
	if err != nil {
		t.Fatalf("ParseBytes(%s) error = %v\n%s", name, err, b.String())
	}
	return d
}

func newDB(cores ...*coredesc.Descriptor) *DB {
	db := New()
	for _, c := range cores {
		db.Add(c)
	}
	return db
}

func ids(cores []*coredesc.Descriptor) []string {
	out := make([]string, len(cores))
	for i, c := range cores {
		out[i] = c.ID.String()
	}
	return out
}
