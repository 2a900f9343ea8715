// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"path/filepath"
	"testing"
)

func mustParseCore(t *testing.T, name string) *Descriptor {
	t.Helper()

	d, err := Parse(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", name, err)
	}
	return d
}

func fileNames(entries []FileEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
