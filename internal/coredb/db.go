// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"log/slog"
	"slices"

	"github.com/coresolve/coresolve/internal/discovery"
	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

type (
	// DB is an index of parsed cores. The zero value is not usable; create
	// one with New or FromDiscovery.
	DB struct {
		cores []*coredesc.Descriptor
		byID  map[string]*coredesc.Descriptor
		lock  *LockFile
	}

	// Option configures a DB.
	Option func(*DB)
)

// WithLockFile makes Find prefer the versions pinned by lock.
func WithLockFile(lock *LockFile) Option {
	return func(db *DB) {
		db.lock = lock
	}
}

// New creates an empty DB.
func New(opts ...Option) *DB {
	db := &DB{byID: make(map[string]*coredesc.Descriptor)}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// FromDiscovery indexes every parsed file of res in discovery order.
func FromDiscovery(res *discovery.Result, opts ...Option) *DB {
	db := New(opts...)
	for _, f := range res.Files {
		db.Add(f.Core)
	}
	return db
}

// Add indexes core and reports whether it was added. A core whose full
// identifier is already indexed is ignored: the first one added wins, so
// cores from higher priority roots shadow later copies.
func (db *DB) Add(core *coredesc.Descriptor) bool {
	key := core.ID.String()
	if existing, ok := db.byID[key]; ok {
		slog.Warn("ignoring duplicate core",
			"name", key,
			"kept", existing.Path,
			"ignored", core.Path)
		return false
	}
	db.byID[key] = core
	db.cores = append(db.cores, core)
	return true
}

// Len returns the number of indexed cores.
func (db *DB) Len() int { return len(db.cores) }

// Cores returns every indexed core sorted by identifier.
func (db *DB) Cores() []*coredesc.Descriptor {
	out := slices.Clone(db.cores)
	slices.SortStableFunc(out, func(a, b *coredesc.Descriptor) int {
		return vlnv.Compare(a.ID, b.ID)
	})
	return out
}

// Get returns the core with exactly the given identifier.
func (db *DB) Get(id vlnv.ComponentID) (*coredesc.Descriptor, bool) {
	core, ok := db.byID[id.String()]
	return core, ok
}

// Find returns the core that best satisfies ref. Cores whose own identifier
// satisfies ref are preferred over cores that only provide it as a virtual
// interface. Among candidates, a version pinned by the lock file wins, then
// the highest version.
func (db *DB) Find(ref vlnv.DependencyRef) (*coredesc.Descriptor, error) {
	var concrete, virtual []*coredesc.Descriptor
	for _, core := range db.cores {
		if vlnv.Satisfies(ref, core.ID) {
			concrete = append(concrete, core)
			continue
		}
		if slices.ContainsFunc(core.Virtuals(), func(id vlnv.ComponentID) bool {
			return vlnv.Satisfies(ref, id)
		}) {
			virtual = append(virtual, core)
		}
	}

	if best := db.pick(concrete); best != nil {
		return best, nil
	}
	if best := db.pick(virtual); best != nil {
		slog.Debug("resolved through virtual provider", "ref", ref.String(), "provider", best.ID.String())
		return best, nil
	}
	return nil, &NotFoundError{Ref: ref}
}

func (db *DB) pick(candidates []*coredesc.Descriptor) *coredesc.Descriptor {
	if len(candidates) == 0 {
		return nil
	}
	if db.lock != nil {
		for _, core := range candidates {
			if db.lock.Pins(core.ID) {
				return core
			}
		}
	}
	return slices.MaxFunc(candidates, func(a, b *coredesc.Descriptor) int {
		return vlnv.CompareVersions(a.ID.Version, b.ID.Version)
	})
}
