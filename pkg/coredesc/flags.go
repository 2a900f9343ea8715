// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"maps"
	"slices"
)

// DefaultTarget is the target used when Flags.Target is empty.
const DefaultTarget = "default"

type (
	// Flags is the runtime selection context for a resolution call.
	Flags struct {
		// Target selects a target; empty means DefaultTarget.
		Target string
		// Tool is the active toolchain. Empty means no tool was selected.
		Tool string
		// IsToplevel is set when the core is the top-level build target.
		IsToplevel bool
		// Custom holds user-defined boolean flags.
		Custom map[string]bool
	}

	// FlagSet is the set of flag names that are active for evaluation of
	// flag expressions.
	FlagSet map[string]struct{}

	// TargetFlags are the flags a target declares for itself together with
	// its default tool.
	TargetFlags struct {
		Tool  string          `json:"tool,omitempty" yaml:"tool,omitempty"`
		Flags map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`
	}
)

// TargetName returns the selected target, falling back to DefaultTarget.
func (f Flags) TargetName() string {
	if f.Target == "" {
		return DefaultTarget
	}
	return f.Target
}

// Active returns the flag names that expressions may test: tool_<tool>,
// target_<target>, is_toplevel and every custom flag set to true.
func (f Flags) Active() FlagSet {
	set := FlagSet{}
	if f.Tool != "" {
		set["tool_"+f.Tool] = struct{}{}
	}
	set["target_"+f.TargetName()] = struct{}{}
	if f.IsToplevel {
		set["is_toplevel"] = struct{}{}
	}
	for name, on := range f.Custom {
		if on {
			set[name] = struct{}{}
		}
	}
	return set
}

// WithTargetDefaults returns a copy of f completed with a target's declared
// flags and default tool. Values already set in f win.
func (f Flags) WithTargetDefaults(tf TargetFlags) Flags {
	out := f
	if out.Tool == "" {
		out.Tool = tf.Tool
	}
	if len(tf.Flags) == 0 {
		out.Custom = maps.Clone(f.Custom)
		return out
	}
	out.Custom = make(map[string]bool, len(f.Custom)+len(tf.Flags))
	maps.Copy(out.Custom, tf.Flags)
	maps.Copy(out.Custom, f.Custom)
	return out
}

// Has reports whether name is active.
func (s FlagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the active flag names sorted.
func (s FlagSet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}
