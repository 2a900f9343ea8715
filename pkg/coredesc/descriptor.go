// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"slices"

	"github.com/coresolve/coresolve/pkg/vlnv"
)

type (
	// Descriptor is a parsed core file. It is immutable after Parse.
	Descriptor struct {
		// Path is the core file the descriptor was read from.
		Path string
		// FilesRoot is the directory file names are relative to.
		FilesRoot string

		ID          vlnv.ComponentID
		Description string
		// Provider is recorded as declared; coresolve never fetches from it.
		Provider *Provider

		virtuals   []vlnv.ComponentID
		filesets   ordered[*FileSet]
		parameters ordered[*ParameterDef]
		scripts    ordered[*ScriptDef]
		generators ordered[*GeneratorDef]
		generate   ordered[*GenerateDef]
		vpi        ordered[*VpiDef]
		targets    ordered[*Target]
	}

	// Provider describes where the sources of a core can be fetched from.
	Provider struct {
		Name  string
		Attrs map[string]string
	}

	// FileEntry is one file of a fileset. Name is relative to the files root.
	FileEntry struct {
		Name          string `json:"name" yaml:"name"`
		FileType      string `json:"file_type,omitempty" yaml:"file_type,omitempty"`
		LogicalName   string `json:"logical_name,omitempty" yaml:"logical_name,omitempty"`
		CopyTo        string `json:"copyto,omitempty" yaml:"copyto,omitempty"`
		IsIncludeFile bool   `json:"is_include_file,omitempty" yaml:"is_include_file,omitempty"`
	}

	// FileSet is a named group of files sharing default attributes and
	// dependencies.
	FileSet struct {
		Name        string
		FileType    string
		LogicalName string
		Depend      Rules[vlnv.DependencyRef]
		Files       Rules[FileEntry]
	}

	// ParameterDef declares a parameter. Datatype and Paramtype may vary
	// with the active flags. Default keeps the literal text from the
	// descriptor and is coerced at resolution time.
	ParameterDef struct {
		Name        string
		Datatype    Rules[string]
		Paramtype   Rules[string]
		Default     string
		HasDefault  bool
		Description string
	}

	// ScriptDef declares a command that targets bind to hook phases.
	ScriptDef struct {
		Name string
		Cmd  []string
		Env  map[string]string
	}

	// GeneratorDef declares a generator program.
	GeneratorDef struct {
		Name        string         `json:"name" yaml:"name"`
		Command     string         `json:"command" yaml:"command"`
		Interpreter string         `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
		Description string         `json:"description,omitempty" yaml:"description,omitempty"`
		Usage       string         `json:"usage,omitempty" yaml:"usage,omitempty"`
		Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	}

	// GenerateDef declares a generator instance.
	GenerateDef struct {
		Name       string
		Generator  string
		Parameters map[string]any
		Position   Position
		// Override makes Parameters replace the generator's default
		// parameters instead of being merged into them.
		Override bool
	}

	// VpiDef declares a VPI module built from filesets.
	VpiDef struct {
		Name     string
		Filesets Rules[string]
		Libs     []string
	}

	// Target is a named build configuration.
	Target struct {
		Name           string
		Description    string
		Filesets       Rules[string]
		FilesetsAppend Rules[string]
		Parameters     Rules[ParamRef]
		Hooks          map[Phase]Rules[string]
		Generate       Rules[GenerateRef]
		Toplevel       Rules[string]
		HasToplevel    bool
		DefaultTool    Rules[string]
		Flags          map[string]bool
		Tools          map[string]map[string]any
		Vpi            Rules[string]
	}

	// ParamRef is a parameter named by a target, optionally with a new
	// default ("name=value").
	ParamRef struct {
		Name        string
		Override    string
		HasOverride bool
	}

	// GenerateRef is a generator instance named by a target, optionally with
	// extra configuration merged over the instance parameters.
	GenerateRef struct {
		Name   string
		Config map[string]any
	}
)

// Virtuals returns the virtual identifiers the core provides.
func (d *Descriptor) Virtuals() []vlnv.ComponentID { return slices.Clone(d.virtuals) }

// FilesetNames returns fileset names in declaration order.
func (d *Descriptor) FilesetNames() []string { return d.filesets.Keys() }

// Fileset returns the named fileset.
func (d *Descriptor) Fileset(name string) (*FileSet, bool) { return d.filesets.Get(name) }

// ParameterNames returns parameter names in declaration order.
func (d *Descriptor) ParameterNames() []string { return d.parameters.Keys() }

// Parameter returns the named parameter definition.
func (d *Descriptor) Parameter(name string) (*ParameterDef, bool) { return d.parameters.Get(name) }

// ScriptNames returns script names in declaration order.
func (d *Descriptor) ScriptNames() []string { return d.scripts.Keys() }

// Script returns the named script definition.
func (d *Descriptor) Script(name string) (*ScriptDef, bool) { return d.scripts.Get(name) }

// GeneratorNames returns generator names in declaration order.
func (d *Descriptor) GeneratorNames() []string { return d.generators.Keys() }

// GenerateNames returns generator instance names in declaration order.
func (d *Descriptor) GenerateNames() []string { return d.generate.Keys() }

// VpiNames returns VPI module names in declaration order.
func (d *Descriptor) VpiNames() []string { return d.vpi.Keys() }

// TargetNames returns target names in declaration order.
func (d *Descriptor) TargetNames() []string { return d.targets.Keys() }

// Target returns the named target.
func (d *Descriptor) Target(name string) (*Target, bool) { return d.targets.Get(name) }

// ordered is a string-keyed map that remembers insertion order.
type ordered[V any] struct {
	keys []string
	m    map[string]V
}

func (o *ordered[V]) Set(key string, v V) {
	if o.m == nil {
		o.m = make(map[string]V)
	}
	if _, ok := o.m[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.m[key] = v
}

func (o *ordered[V]) Get(key string) (V, bool) {
	v, ok := o.m[key]
	return v, ok
}

func (o *ordered[V]) Has(key string) bool {
	_, ok := o.m[key]
	return ok
}

func (o *ordered[V]) Keys() []string { return slices.Clone(o.keys) }

func (o *ordered[V]) Len() int { return len(o.keys) }
