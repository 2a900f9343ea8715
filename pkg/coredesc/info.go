// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"fmt"
	"strings"
)

const noDescription = "<No description>"

// Info renders a human-readable summary of the core. The output never
// contains filesystem paths so it can be compared against golden files.
func (d *Descriptor) Info() string {
	var b strings.Builder

	b.WriteString("CORE INFO\n")
	fmt.Fprintf(&b, "%-13s%s\n", "Name:", d.ID)
	fmt.Fprintf(&b, "%-13s%s\n", "Description:", orNoDescription(d.Description))
	if d.Provider != nil {
		fmt.Fprintf(&b, "%-13s%s\n", "Provider:", d.Provider.Name)
	}
	if len(d.virtuals) > 0 {
		names := make([]string, 0, len(d.virtuals))
		for _, v := range d.virtuals {
			names = append(names, v.String())
		}
		fmt.Fprintf(&b, "%-13s%s\n", "Virtuals:", strings.Join(names, ", "))
	}

	writeSection(&b, "Filesets", d.filesets.Keys(), func(name string) string {
		fs, _ := d.filesets.Get(name)
		n := len(fs.Files)
		suffix := "s"
		if n == 1 {
			suffix = ""
		}
		s := fmt.Sprintf("%d file%s", n, suffix)
		if fs.FileType != "" {
			s += " [" + fs.FileType + "]"
		}
		return s
	})
	writeSection(&b, "Parameters", d.parameters.Keys(), func(name string) string {
		p, _ := d.parameters.Get(name)
		return orNoDescription(p.Description)
	})
	writeSection(&b, "Generators", d.generators.Keys(), func(name string) string {
		g, _ := d.generators.Get(name)
		return orNoDescription(g.Description)
	})
	writeSection(&b, "Targets", d.targets.Keys(), func(name string) string {
		t, _ := d.targets.Get(name)
		return orNoDescription(t.Description)
	})

	return b.String()
}

func writeSection(b *strings.Builder, title string, names []string, describe func(string) string) {
	if len(names) == 0 {
		return
	}
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, n := range names {
		fmt.Fprintf(b, "%-*s : %s\n", width, n, describe(n))
	}
}

func orNoDescription(s string) string {
	if s == "" {
		return noDescription
	}
	return s
}
