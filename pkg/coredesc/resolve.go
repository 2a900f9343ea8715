// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/coresolve/coresolve/pkg/vlnv"
)

type (
	// Script is a script bound to a hook phase, ready for an external runner.
	Script struct {
		Name string            `json:"name" yaml:"name"`
		Cmd  []string          `json:"cmd" yaml:"cmd"`
		Env  map[string]string `json:"env" yaml:"env"`
	}

	// GeneratorInstance is a resolved generator invocation.
	GeneratorInstance struct {
		Name      string         `json:"name" yaml:"name"`
		Generator string         `json:"generator" yaml:"generator"`
		Position  Position       `json:"pos" yaml:"pos"`
		Config    map[string]any `json:"config" yaml:"config"`
	}

	// VpiModule is a resolved VPI module.
	VpiModule struct {
		Name        string   `json:"name" yaml:"name"`
		SrcFiles    []string `json:"src_files" yaml:"src_files"`
		IncludeDirs []string `json:"include_dirs" yaml:"include_dirs"`
		Libs        []string `json:"libs" yaml:"libs"`
	}
)

// Files returns the files of the selected target: primary filesets first,
// then append filesets, each in declaration order. Fileset defaults fill
// unset file attributes. Entries are not deduplicated.
func (d *Descriptor) Files(flags Flags) []FileEntry {
	t, _ := d.lookupTarget(OpFiles, flags)
	if t == nil {
		return []FileEntry{}
	}
	active := flags.Active()
	out := []FileEntry{}
	for _, fs := range d.targetFilesets(t, active) {
		out = append(out, fs.files(active)...)
	}
	return out
}

func (fs *FileSet) files(active FlagSet) []FileEntry {
	entries := fs.Files.Active(active)
	out := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.FileType == "" {
			e.FileType = fs.FileType
		}
		if e.LogicalName == "" {
			e.LogicalName = fs.LogicalName
		}
		out = append(out, e)
	}
	return out
}

func (d *Descriptor) targetFilesets(t *Target, active FlagSet) []*FileSet {
	names := append(t.Filesets.Active(active), t.FilesetsAppend.Active(active)...)
	out := make([]*FileSet, 0, len(names))
	for _, name := range names {
		if fs, ok := d.filesets.Get(name); ok {
			out = append(out, fs)
		}
	}
	return out
}

// Depends returns the dependencies declared by the filesets of the selected
// target, in declaration order.
func (d *Descriptor) Depends(flags Flags) []vlnv.DependencyRef {
	t, _ := d.lookupTarget(OpDepends, flags)
	if t == nil {
		return []vlnv.DependencyRef{}
	}
	active := flags.Active()
	out := []vlnv.DependencyRef{}
	for _, fs := range d.targetFilesets(t, active) {
		out = append(out, fs.Depend.Active(active)...)
	}
	return out
}

// TargetFlags returns the flags and default tool a target declares. An
// undeclared target yields the zero value.
func (d *Descriptor) TargetFlags(target string) TargetFlags {
	t, _ := d.lookupTarget(OpTargetFlags, Flags{Target: target})
	if t == nil {
		return TargetFlags{}
	}
	tf := TargetFlags{Flags: maps.Clone(t.Flags)}
	if len(tf.Flags) == 0 {
		tf.Flags = nil
	}
	tf.Tool = strings.Join(t.DefaultTool.Active(Flags{Target: target}.Active()), " ")
	return tf
}

// Generators returns the generators declared by the core.
func (d *Descriptor) Generators() map[string]GeneratorDef {
	out := make(map[string]GeneratorDef, d.generators.Len())
	for _, name := range d.generators.Keys() {
		g, _ := d.generators.Get(name)
		cp := *g
		cp.Parameters = maps.Clone(g.Parameters)
		out[name] = cp
	}
	return out
}

// Scripts returns the scripts bound to each hook phase of the selected
// target. Phases without scripts are omitted. Every environment carries
// FILES_ROOT set to filesRoot.
func (d *Descriptor) Scripts(filesRoot string, flags Flags) (map[Phase][]Script, error) {
	out := map[Phase][]Script{}
	t, _ := d.lookupTarget(OpScripts, flags)
	if t == nil {
		return out, nil
	}
	active := flags.Active()
	for _, phase := range Phases {
		names := t.Hooks[phase].Active(active)
		for _, name := range names {
			def, ok := d.scripts.Get(name)
			if !ok {
				return nil, &ReferenceError{Kind: RefScript, Name: name, Target: t.Name}
			}
			env := make(map[string]string, len(def.Env)+1)
			maps.Copy(env, def.Env)
			env["FILES_ROOT"] = filesRoot
			out[phase] = append(out[phase], Script{
				Name: name,
				Cmd:  slices.Clone(def.Cmd),
				Env:  env,
			})
		}
	}
	return out, nil
}

// ToolOptions returns the options of the selected target for flags.Tool.
// flags.Tool is mandatory.
func (d *Descriptor) ToolOptions(flags Flags) (map[string]any, error) {
	if flags.Tool == "" {
		return nil, &RequiredFlagError{Key: "tool"}
	}
	t, _ := d.lookupTarget(OpToolOptions, flags)
	if t == nil {
		return map[string]any{}, nil
	}
	opts, ok := t.Tools[flags.Tool]
	if !ok || opts == nil {
		return map[string]any{}, nil
	}
	return deepCopyMap(opts), nil
}

// Toplevel returns the top-level module of the selected target. A list of
// module names is joined by single spaces.
func (d *Descriptor) Toplevel(flags Flags) (string, error) {
	t, err := d.lookupTarget(OpToplevel, flags)
	if err != nil {
		return "", err
	}
	if !t.HasToplevel {
		return "", &MissingFieldError{Field: "toplevel", Target: t.Name}
	}
	return strings.Join(t.Toplevel.Active(flags.Active()), " "), nil
}

// GenerateInstances returns the generator instances of the selected target
// in declaration order.
//
// The configuration of an instance starts from the declared parameters of its
// generator when that generator is part of this core, then the instance
// parameters are merged on top (or replace it when the instance sets
// override), then the configuration given in the target entry is merged.
func (d *Descriptor) GenerateInstances(flags Flags) ([]GeneratorInstance, error) {
	out := []GeneratorInstance{}
	t, _ := d.lookupTarget(OpGenerateInstances, flags)
	if t == nil {
		return out, nil
	}
	for _, ref := range t.Generate.Active(flags.Active()) {
		def, ok := d.generate.Get(ref.Name)
		if !ok {
			return nil, &ReferenceError{Kind: RefGeneratorInstance, Name: ref.Name, Target: t.Name}
		}
		config := map[string]any{}
		if gen, ok := d.generators.Get(def.Generator); ok && !def.Override {
			maps.Copy(config, deepCopyMap(gen.Parameters))
		}
		maps.Copy(config, deepCopyMap(def.Parameters))
		maps.Copy(config, deepCopyMap(ref.Config))

		out = append(out, GeneratorInstance{
			Name:      def.Name,
			Generator: def.Generator,
			Position:  def.Position,
			Config:    config,
		})
	}
	return out, nil
}

// Vpi returns the VPI modules of the selected target. Source files are the
// non-include files of the module filesets; include directories are the
// distinct directories of the include files, "" for the files root.
func (d *Descriptor) Vpi(flags Flags) []VpiModule {
	out := []VpiModule{}
	t, _ := d.lookupTarget(OpVpi, flags)
	if t == nil {
		return out
	}
	active := flags.Active()
	for _, name := range t.Vpi.Active(active) {
		def, _ := d.vpi.Get(name)
		mod := VpiModule{
			Name:        name,
			SrcFiles:    []string{},
			IncludeDirs: []string{},
			Libs:        slices.Clone(def.Libs),
		}
		if mod.Libs == nil {
			mod.Libs = []string{}
		}
		for _, fsName := range def.Filesets.Active(active) {
			fs, _ := d.filesets.Get(fsName)
			for _, f := range fs.files(active) {
				if !f.IsIncludeFile {
					mod.SrcFiles = append(mod.SrcFiles, f.Name)
					continue
				}
				dir := path.Dir(f.Name)
				if dir == "." {
					dir = ""
				}
				if !slices.Contains(mod.IncludeDirs, dir) {
					mod.IncludeDirs = append(mod.IncludeDirs, dir)
				}
			}
		}
		out = append(out, mod)
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
