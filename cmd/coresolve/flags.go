// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coresolve/coresolve/pkg/coredesc"
)

// selectionFlags are the flags shared by commands that evaluate a core for
// a target and tool.
type selectionFlags struct {
	target   string
	tool     string
	custom   []string
	toplevel bool
	json     bool
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&s.target, "target", "t", "", "target to evaluate (default \"default\")")
	f.StringVar(&s.tool, "tool", "", "active tool, e.g. icarus or verilator")
	f.StringArrayVar(&s.custom, "flag", nil, "custom flag as name or name=bool (repeatable)")
	f.BoolVar(&s.toplevel, "toplevel", true, "evaluate the core as the top-level core")
	f.BoolVar(&s.json, "json", false, "print the result as JSON")
}

// flags builds the runtime flags for core, completed with the selected
// target's declared flags and default tool.
func (s *selectionFlags) flags(core *coredesc.Descriptor) (coredesc.Flags, error) {
	custom, err := parseCustomFlags(s.custom)
	if err != nil {
		return coredesc.Flags{}, err
	}
	f := coredesc.Flags{
		Target:     s.target,
		Tool:       s.tool,
		IsToplevel: s.toplevel,
		Custom:     custom,
	}
	return f.WithTargetDefaults(core.TargetFlags(f.TargetName())), nil
}

// parseCustomFlags parses "name" and "name=bool" entries. A later entry for
// the same name wins.
func parseCustomFlags(entries []string) (map[string]bool, error) {
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		name, raw, hasValue := strings.Cut(e, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --flag %q: missing name", e)
		}
		value := true
		if hasValue {
			v, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("invalid --flag %q: value must be a boolean", e)
			}
			value = v
		}
		out[name] = value
	}
	return out, nil
}
