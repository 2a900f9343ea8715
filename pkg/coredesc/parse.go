// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coresolve/coresolve/pkg/cueutil"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

const capiKey = "CAPI=2"

//go:embed core_schema.cue
var coreSchemaSrc []byte

var coreSchema = cueutil.NewSchema(coreSchemaSrc, "#Core")

var errEmptyDescriptor = errors.New("descriptor has no content")

// Parse reads and parses a core file.
func Parse(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read core file at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses descriptor text. path is used for error messages and to
// derive the files root (the directory containing the core file).
func ParseBytes(data []byte, path string) (*Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, &ParseError{Path: path, Err: errEmptyDescriptor}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Err: errors.New("top level must be a mapping")}
	}
	if !hasContent(root) {
		return nil, &ParseError{Path: path, Err: errEmptyDescriptor}
	}

	var generic any
	if err := root.Decode(&generic); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := coreSchema.Validate(generic, cueutil.WithFilename(path)); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	b := &builder{d: &Descriptor{Path: path, FilesRoot: filepath.Dir(path)}}
	if err := b.build(root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return b.d, nil
}

func hasContent(root *yaml.Node) bool {
	for _, kv := range pairs(root) {
		if kv.key != capiKey {
			return true
		}
	}
	return false
}

// builder turns a schema-checked YAML tree into a Descriptor.
type builder struct {
	d *Descriptor
}

func (b *builder) build(root *yaml.Node) error {
	sections := map[string]*yaml.Node{}
	for _, kv := range pairs(root) {
		sections[kv.key] = kv.value
	}

	id, err := vlnv.Parse(scalar(sections["name"]))
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	b.d.ID = id
	b.d.Description = scalar(sections["description"])

	if n := sections["provider"]; !isNull(n) {
		b.d.Provider = buildProvider(n)
	}
	for i, v := range scalars(sections["virtual"]) {
		vid, err := vlnv.Parse(v)
		if err != nil {
			return fmt.Errorf("virtual[%d]: %w", i, err)
		}
		b.d.virtuals = append(b.d.virtuals, vid)
	}

	// Sections are built in dependency order: filesets before anything that
	// references them.
	steps := []struct {
		key string
		fn  func(*yaml.Node) error
	}{
		{"filesets", b.buildFilesets},
		{"parameters", b.buildParameters},
		{"scripts", b.buildScripts},
		{"generators", b.buildGenerators},
		{"generate", b.buildGenerate},
		{"vpi", b.buildVpi},
		{"targets", b.buildTargets},
	}
	for _, step := range steps {
		if err := step.fn(sections[step.key]); err != nil {
			return err
		}
	}
	return nil
}

func buildProvider(n *yaml.Node) *Provider {
	p := &Provider{Attrs: map[string]string{}}
	for _, kv := range pairs(n) {
		if kv.key == "name" {
			p.Name = scalar(kv.value)
			continue
		}
		p.Attrs[kv.key] = scalar(kv.value)
	}
	return p
}

func (b *builder) buildFilesets(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		fs := &FileSet{Name: kv.key}
		for _, f := range pairs(kv.value) {
			switch f.key {
			case "file_type":
				fs.FileType = scalar(f.value)
			case "logical_name":
				fs.LogicalName = scalar(f.value)
			case "depend":
				deps, err := dependRules(f.value)
				if err != nil {
					return fmt.Errorf("filesets.%s.depend: %w", kv.key, err)
				}
				fs.Depend = deps
			case "files":
				files, err := fileRules(f.value)
				if err != nil {
					return fmt.Errorf("filesets.%s.files: %w", kv.key, err)
				}
				fs.Files = files
			}
		}
		b.d.filesets.Set(kv.key, fs)
	}
	return nil
}

func dependRules(n *yaml.Node) (Rules[vlnv.DependencyRef], error) {
	words, err := exprList(n)
	if err != nil {
		return nil, err
	}
	out := make(Rules[vlnv.DependencyRef], 0, len(words))
	for _, w := range words {
		ref, err := vlnv.ParseDependency(w.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Rule[vlnv.DependencyRef]{When: w.When, Value: ref})
	}
	return out, nil
}

func fileRules(n *yaml.Node) (Rules[FileEntry], error) {
	var out Rules[FileEntry]
	if isNull(n) {
		return out, nil
	}
	for i, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			words, err := ParseExpr(item.Value)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			for _, w := range words {
				out = append(out, Rule[FileEntry]{When: w.When, Value: FileEntry{Name: w.Value}})
			}
		case yaml.MappingNode:
			entries := pairs(item)
			if len(entries) != 1 {
				return nil, fmt.Errorf("[%d]: file entry must have exactly one name", i)
			}
			attrs, err := fileAttrs(entries[0].value)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			words, err := ParseExpr(entries[0].key)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			for _, w := range words {
				entry := attrs
				entry.Name = w.Value
				out = append(out, Rule[FileEntry]{When: w.When, Value: entry})
			}
		default:
			return nil, fmt.Errorf("[%d]: unexpected file entry", i)
		}
	}
	return out, nil
}

func fileAttrs(n *yaml.Node) (FileEntry, error) {
	var entry FileEntry
	for _, kv := range pairs(n) {
		switch kv.key {
		case "file_type":
			entry.FileType = scalar(kv.value)
		case "logical_name":
			entry.LogicalName = scalar(kv.value)
		case "copyto":
			entry.CopyTo = scalar(kv.value)
		case "is_include_file":
			var on bool
			if err := kv.value.Decode(&on); err != nil {
				return FileEntry{}, fmt.Errorf("is_include_file: %w", err)
			}
			entry.IsIncludeFile = on
		}
	}
	return entry, nil
}

func (b *builder) buildParameters(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		p := &ParameterDef{Name: kv.key}
		for _, f := range pairs(kv.value) {
			var err error
			switch f.key {
			case "datatype":
				p.Datatype, err = ParseExpr(scalar(f.value))
			case "paramtype":
				p.Paramtype, err = ParseExpr(scalar(f.value))
			case "description":
				p.Description = scalar(f.value)
			case "default":
				if isNull(f.value) {
					continue
				}
				if f.value.Kind != yaml.ScalarNode {
					err = errors.New("default must be a scalar")
					break
				}
				p.Default, p.HasDefault = f.value.Value, true
			}
			if err != nil {
				return fmt.Errorf("parameters.%s.%s: %w", kv.key, f.key, err)
			}
		}
		b.d.parameters.Set(kv.key, p)
	}
	return nil
}

func (b *builder) buildScripts(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		s := &ScriptDef{Name: kv.key}
		for _, f := range pairs(kv.value) {
			switch f.key {
			case "cmd":
				cmd, err := scriptCmd(f.value)
				if err != nil {
					return fmt.Errorf("scripts.%s.cmd: %w", kv.key, err)
				}
				s.Cmd = cmd
			case "env":
				s.Env = map[string]string{}
				for _, e := range pairs(f.value) {
					s.Env[e.key] = scalar(e.value)
				}
			}
		}
		b.d.scripts.Set(kv.key, s)
	}
	return nil
}

// scriptCmd accepts an argument list or a single shell-quoted string.
func scriptCmd(n *yaml.Node) ([]string, error) {
	if n.Kind == yaml.SequenceNode {
		return scalars(n), nil
	}
	return splitCommand(n.Value)
}

func (b *builder) buildGenerators(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		g := &GeneratorDef{Name: kv.key}
		for _, f := range pairs(kv.value) {
			switch f.key {
			case "command":
				g.Command = scalar(f.value)
			case "interpreter":
				g.Interpreter = scalar(f.value)
			case "description":
				g.Description = scalar(f.value)
			case "usage":
				g.Usage = scalar(f.value)
			case "parameters":
				params, err := decodeMap(f.value)
				if err != nil {
					return fmt.Errorf("generators.%s.parameters: %w", kv.key, err)
				}
				g.Parameters = params
			}
		}
		b.d.generators.Set(kv.key, g)
	}
	return nil
}

func (b *builder) buildGenerate(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		g := &GenerateDef{Name: kv.key, Position: PositionAppend}
		for _, f := range pairs(kv.value) {
			switch f.key {
			case "generator":
				g.Generator = scalar(f.value)
			case "position":
				g.Position = Position(scalar(f.value))
			case "override":
				if err := f.value.Decode(&g.Override); err != nil {
					return fmt.Errorf("generate.%s.override: %w", kv.key, err)
				}
			case "parameters":
				params, err := decodeMap(f.value)
				if err != nil {
					return fmt.Errorf("generate.%s.parameters: %w", kv.key, err)
				}
				g.Parameters = params
			}
		}
		b.d.generate.Set(kv.key, g)
	}
	return nil
}

func (b *builder) buildVpi(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		v := &VpiDef{Name: kv.key}
		for _, f := range pairs(kv.value) {
			switch f.key {
			case "filesets":
				rules, err := b.filesetRefs(f.value)
				if err != nil {
					return fmt.Errorf("vpi.%s.filesets: %w", kv.key, err)
				}
				v.Filesets = rules
			case "libs":
				v.Libs = scalars(f.value)
			}
		}
		b.d.vpi.Set(kv.key, v)
	}
	return nil
}

func (b *builder) buildTargets(n *yaml.Node) error {
	for _, kv := range pairs(n) {
		t, err := b.buildTarget(kv.key, kv.value)
		if err != nil {
			return err
		}
		b.d.targets.Set(kv.key, t)
	}
	return nil
}

func (b *builder) buildTarget(name string, n *yaml.Node) (*Target, error) {
	t := &Target{Name: name}
	prefix := "targets." + name + "."
	for _, f := range pairs(n) {
		var err error
		switch f.key {
		case "description":
			t.Description = scalar(f.value)
		case "filesets":
			t.Filesets, err = b.filesetRefs(f.value)
		case "filesets_append":
			t.FilesetsAppend, err = b.filesetRefs(f.value)
		case "parameters":
			t.Parameters, err = paramRefs(f.value)
		case "hooks":
			t.Hooks = map[Phase]Rules[string]{}
			for _, h := range pairs(f.value) {
				rules, herr := exprList(h.value)
				if herr != nil {
					err = fmt.Errorf("%s: %w", h.key, herr)
					break
				}
				t.Hooks[Phase(h.key)] = rules
			}
		case "generate":
			t.Generate, err = generateRefs(f.value)
		case "toplevel":
			t.HasToplevel = true
			t.Toplevel, err = exprList(f.value)
		case "default_tool":
			t.DefaultTool, err = ParseExpr(scalar(f.value))
		case "flags":
			t.Flags = map[string]bool{}
			for _, fl := range pairs(f.value) {
				var on bool
				if derr := fl.value.Decode(&on); derr != nil {
					err = fmt.Errorf("%s: %w", fl.key, derr)
					break
				}
				t.Flags[fl.key] = on
			}
		case "tools":
			t.Tools = map[string]map[string]any{}
			for _, tool := range pairs(f.value) {
				opts, derr := decodeMap(tool.value)
				if derr != nil {
					err = fmt.Errorf("%s: %w", tool.key, derr)
					break
				}
				t.Tools[tool.key] = opts
			}
		case "vpi":
			t.Vpi, err = exprList(f.value)
			if err == nil {
				err = checkDeclared(t.Vpi, b.d.vpi.Has, "vpi module")
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", prefix, f.key, err)
		}
	}
	return t, nil
}

// filesetRefs compiles a list of fileset names and checks every branch
// against the declared filesets.
func (b *builder) filesetRefs(n *yaml.Node) (Rules[string], error) {
	rules, err := exprList(n)
	if err != nil {
		return nil, err
	}
	if err := checkDeclared(rules, b.d.filesets.Has, "fileset"); err != nil {
		return nil, err
	}
	return rules, nil
}

func checkDeclared(rules Rules[string], has func(string) bool, kind string) error {
	for _, name := range rules.All() {
		if !has(name) {
			return fmt.Errorf("undeclared %s %q", kind, name)
		}
	}
	return nil
}

func paramRefs(n *yaml.Node) (Rules[ParamRef], error) {
	words, err := exprList(n)
	if err != nil {
		return nil, err
	}
	out := make(Rules[ParamRef], 0, len(words))
	for _, w := range words {
		ref := ParamRef{Name: w.Value}
		if name, value, ok := strings.Cut(w.Value, "="); ok {
			ref = ParamRef{Name: name, Override: value, HasOverride: true}
		}
		out = append(out, Rule[ParamRef]{When: w.When, Value: ref})
	}
	return out, nil
}

func generateRefs(n *yaml.Node) (Rules[GenerateRef], error) {
	var out Rules[GenerateRef]
	if isNull(n) {
		return out, nil
	}
	for i, item := range n.Content {
		if item.Kind == yaml.MappingNode {
			for _, kv := range pairs(item) {
				cfg, err := decodeMap(kv.value)
				if err != nil {
					return nil, fmt.Errorf("[%d].%s: %w", i, kv.key, err)
				}
				out = append(out, Rule[GenerateRef]{Value: GenerateRef{Name: kv.key, Config: cfg}})
			}
			continue
		}
		words, err := ParseExpr(item.Value)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		for _, w := range words {
			out = append(out, Rule[GenerateRef]{When: w.When, Value: GenerateRef{Name: w.Value}})
		}
	}
	return out, nil
}

// exprList compiles a scalar or a list of scalars into word rules.
func exprList(n *yaml.Node) (Rules[string], error) {
	var out Rules[string]
	for i, s := range scalars(n) {
		words, err := ParseExpr(s)
		if err != nil {
			if n.Kind == yaml.SequenceNode {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

type keyValue struct {
	key   string
	value *yaml.Node
}

// pairs returns the entries of a mapping node in document order. Null and
// non-mapping nodes have no entries.
func pairs(n *yaml.Node) []keyValue {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]keyValue, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, keyValue{key: n.Content[i].Value, value: n.Content[i+1]})
	}
	return out
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func scalar(n *yaml.Node) string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// scalars returns a scalar as a one-element list, or the scalar items of a
// sequence.
func scalars(n *yaml.Node) []string {
	switch {
	case isNull(n):
		return nil
	case n.Kind == yaml.ScalarNode:
		return []string{n.Value}
	case n.Kind == yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				out = append(out, item.Value)
			}
		}
		return out
	default:
		return nil
	}
}

func decodeMap(n *yaml.Node) (map[string]any, error) {
	out := map[string]any{}
	if isNull(n) {
		return out, nil
	}
	if err := n.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
