// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type (
	// Closure is a resolved dependency closure.
	Closure struct {
		// Cores lists every core once, dependencies before their dependents.
		Cores []*coredesc.Descriptor
		// Deps maps a core identifier to its direct dependencies in
		// declaration order.
		Deps map[string][]*coredesc.Descriptor
	}

	// resolver holds the state of one Resolve call.
	resolver struct {
		db       *DB
		flags    coredesc.Flags
		state    map[string]visitState
		selected []*coredesc.Descriptor
		stack    []vlnv.ComponentID
		out      *Closure
	}
)

// Top returns the requested core, which is always last.
func (c *Closure) Top() *coredesc.Descriptor {
	if len(c.Cores) == 0 {
		return nil
	}
	return c.Cores[len(c.Cores)-1]
}

// DepsOf returns the direct dependencies of core.
func (c *Closure) DepsOf(core *coredesc.Descriptor) []*coredesc.Descriptor {
	return c.Deps[core.ID.String()]
}

// Resolve returns the dependency closure of top, dependencies first and top
// last. top's dependencies are evaluated with flags; transitive dependencies
// are evaluated with the same tool and custom flags, their default target and
// is_toplevel unset. Each core name is selected once per closure; a later
// reference that the selected version does not satisfy is a ConflictError.
func (db *DB) Resolve(ctx context.Context, top *coredesc.Descriptor, flags coredesc.Flags) ([]*coredesc.Descriptor, error) {
	c, err := db.ResolveClosure(ctx, top, flags)
	if err != nil {
		return nil, err
	}
	return c.Cores, nil
}

// ResolveClosure is Resolve keeping the dependency edges.
func (db *DB) ResolveClosure(ctx context.Context, top *coredesc.Descriptor, flags coredesc.Flags) (*Closure, error) {
	r := &resolver{
		db:       db,
		flags:    flags,
		state:    make(map[string]visitState),
		selected: []*coredesc.Descriptor{top},
		out:      &Closure{Deps: make(map[string][]*coredesc.Descriptor)},
	}
	if err := r.visit(ctx, top, flags); err != nil {
		return nil, err
	}
	return r.out, nil
}

// ResolveRef finds the core satisfying ref and resolves its closure.
func (db *DB) ResolveRef(ctx context.Context, ref vlnv.DependencyRef, flags coredesc.Flags) ([]*coredesc.Descriptor, error) {
	top, err := db.Find(ref)
	if err != nil {
		return nil, err
	}
	return db.Resolve(ctx, top, flags)
}

func (r *resolver) visit(ctx context.Context, core *coredesc.Descriptor, flags coredesc.Flags) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := core.ID.String()
	switch r.state[key] {
	case visited:
		return nil
	case visiting:
		start := slices.IndexFunc(r.stack, func(id vlnv.ComponentID) bool { return vlnv.Equal(id, core.ID) })
		path := append(slices.Clone(r.stack[start:]), core.ID)
		return &CycleError{Path: path}
	}

	r.state[key] = visiting
	r.stack = append(r.stack, core.ID)

	depFlags := coredesc.Flags{Tool: r.flags.Tool, Custom: r.flags.Custom}
	for _, ref := range core.Depends(flags) {
		dep, err := r.choose(core, ref)
		if err != nil {
			return err
		}
		if err := r.visit(ctx, dep, depFlags); err != nil {
			return err
		}
		if !slices.Contains(r.out.Deps[key], dep) {
			r.out.Deps[key] = append(r.out.Deps[key], dep)
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.state[key] = visited
	r.out.Cores = append(r.out.Cores, core)
	slog.Debug("resolved core", "core", key, "position", len(r.out.Cores))
	return nil
}

// choose returns the core to use for ref, reusing an earlier selection of
// the same name.
func (r *resolver) choose(parent *coredesc.Descriptor, ref vlnv.DependencyRef) (*coredesc.Descriptor, error) {
	for _, sel := range r.selected {
		if !sameName(ref.ID, sel.ID) {
			continue
		}
		if vlnv.Satisfies(ref, sel.ID) {
			return sel, nil
		}
		return nil, &ConflictError{Ref: ref, RequestedBy: parent.ID, Selected: sel.ID}
	}

	dep, err := r.db.Find(ref)
	if err != nil {
		if errors.Is(err, ErrCoreNotFound) {
			return nil, &UnsatisfiedError{Ref: ref, RequestedBy: parent.ID}
		}
		return nil, err
	}
	r.selected = append(r.selected, dep)
	return dep, nil
}

// sameName reports whether ref names the same core as id, treating an empty
// vendor or library in ref as a wildcard.
func sameName(ref, id vlnv.ComponentID) bool {
	return ref.Name == id.Name &&
		(ref.Vendor == "" || ref.Vendor == id.Vendor) &&
		(ref.Library == "" || ref.Library == id.Library)
}
