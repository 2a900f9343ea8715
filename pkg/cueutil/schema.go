// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is CUE schema source together with the definition data is checked
// against. Every call compiles in its own cue.Context, so a Schema is safe
// for concurrent use.
type Schema struct {
	src        []byte
	definition string
}

// NewSchema returns a Schema for the definition (e.g. "#Core") in src.
func NewSchema(src []byte, definition string) *Schema {
	return &Schema{src: src, definition: definition}
}

// Validate encodes a decoded Go value (typically the generic tree produced
// by a YAML decoder) into CUE and checks it against the definition.
func (s *Schema) Validate(v any, opts ...Option) error {
	o := newOptions(opts)
	ctx := cuecontext.New()

	def, err := s.lookup(ctx)
	if err != nil {
		return err
	}
	value := ctx.Encode(v)
	if value.Err() != nil {
		return validationError(value.Err(), o.filename)
	}
	return s.check(def.Unify(value), o)
}

// Decode compiles CUE source, checks it against the definition and decodes
// the unified value into dst.
func (s *Schema) Decode(data []byte, dst any, opts ...Option) error {
	o := newOptions(opts)
	if size := int64(len(data)); size > o.maxFileSize {
		return fmt.Errorf("%s: %d bytes exceeds the %d byte limit: %w", o.filename, size, o.maxFileSize, ErrFileTooLarge)
	}

	ctx := cuecontext.New()
	def, err := s.lookup(ctx)
	if err != nil {
		return err
	}
	value := ctx.CompileBytes(data, cue.Filename(o.filename))
	if value.Err() != nil {
		return validationError(value.Err(), o.filename)
	}

	unified := def.Unify(value)
	if err := s.check(unified, o); err != nil {
		return err
	}
	if err := unified.Decode(dst); err != nil {
		return validationError(err, o.filename)
	}
	return nil
}

func (s *Schema) lookup(ctx *cue.Context) (cue.Value, error) {
	root := ctx.CompileBytes(s.src)
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", root.Err())
	}
	def := root.LookupPath(cue.ParsePath(s.definition))
	if !def.Exists() || def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema has no %s definition", s.definition)
	}
	return def, nil
}

func (s *Schema) check(v cue.Value, o options) error {
	if err := v.Validate(cue.Concrete(!o.partial)); err != nil {
		return validationError(err, o.filename)
	}
	return nil
}

// Fields lists the regular and optional field names declared by the
// definition, sorted. Hidden fields and nested definitions are skipped.
func (s *Schema) Fields() ([]string, error) {
	def, err := s.lookup(cuecontext.New())
	if err != nil {
		return nil, err
	}
	iter, err := def.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		return nil, fmt.Errorf("list %s fields: %w", s.definition, err)
	}
	var names []string
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		names = append(names, strings.TrimRight(sel.String(), "?!"))
	}
	slices.Sort(names)
	return names, nil
}
