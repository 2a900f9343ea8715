// SPDX-License-Identifier: MPL-2.0

package coredb

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/coresolve/coresolve/pkg/coredesc"
	"github.com/coresolve/coresolve/pkg/vlnv"
)

func TestResolve_DependenciesFirst(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:uart", "acme:ip:gpio")
	db := newDB(
		top,
		core(t, "acme:ip:uart:1.0", "acme:lib:fifo"),
		core(t, "acme:ip:gpio:1.0", "acme:lib:fifo"),
		core(t, "acme:lib:fifo:1.0"),
	)

	got, err := db.Resolve(t.Context(), top, coredesc.Flags{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"acme:lib:fifo:1.0", "acme:ip:uart:1.0", "acme:ip:gpio:1.0", "acme:soc:top:1.0"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("Resolve() = %v, want %v", ids(got), want)
	}
}

func TestResolve_ReusesSelection(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:uart", ">=acme:lib:fifo:1.0")
	db := newDB(
		top,
		core(t, "acme:ip:uart:1.0", "acme:lib:fifo"),
		core(t, "acme:lib:fifo:1.0"),
		core(t, "acme:lib:fifo:2.0"),
	)

	got, err := db.Resolve(t.Context(), top, coredesc.Flags{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"acme:lib:fifo:2.0", "acme:ip:uart:1.0", "acme:soc:top:1.0"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("Resolve() = %v, want %v", ids(got), want)
	}
}

func TestResolve_Conflict(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:uart", "<acme:lib:fifo:2.0")
	db := newDB(
		top,
		core(t, "acme:ip:uart:1.0", ">=acme:lib:fifo:2.0"),
		core(t, "acme:lib:fifo:1.0"),
		core(t, "acme:lib:fifo:2.0"),
	)

	_, err := db.Resolve(t.Context(), top, coredesc.Flags{})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Resolve() error = %v, want ConflictError", err)
	}
	if conflict.Selected.String() != "acme:lib:fifo:2.0" {
		t.Errorf("Selected = %s, want acme:lib:fifo:2.0", conflict.Selected)
	}
	if conflict.RequestedBy.String() != "acme:soc:top:1.0" {
		t.Errorf("RequestedBy = %s, want acme:soc:top:1.0", conflict.RequestedBy)
	}
}

func TestResolve_Unsatisfied(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:uart")
	db := newDB(top, core(t, "acme:ip:uart:1.0", "acme:lib:missing"))

	_, err := db.Resolve(t.Context(), top, coredesc.Flags{})
	if !errors.Is(err, ErrDependencyNotSatisfied) {
		t.Fatalf("Resolve() error = %v, want ErrDependencyNotSatisfied", err)
	}
	var unsat *UnsatisfiedError
	if errors.As(err, &unsat) && unsat.RequestedBy.String() != "acme:ip:uart:1.0" {
		t.Errorf("RequestedBy = %s, want acme:ip:uart:1.0", unsat.RequestedBy)
	}
}

func TestResolve_Cycle(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:a")
	db := newDB(
		top,
		core(t, "acme:ip:a:1.0", "acme:ip:b"),
		core(t, "acme:ip:b:1.0", "acme:ip:a"),
	)

	_, err := db.Resolve(t.Context(), top, coredesc.Flags{})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Resolve() error = %v, want CycleError", err)
	}
	want := []string{"acme:ip:a:1.0", "acme:ip:b:1.0", "acme:ip:a:1.0"}
	got := make([]string, len(cycle.Path))
	for i, id := range cycle.Path {
		got[i] = id.String()
	}
	if !slices.Equal(got, want) {
		t.Errorf("cycle = %v, want %v", got, want)
	}
	if !errors.Is(err, ErrDependencyCycle) {
		t.Error("errors.Is(err, ErrDependencyCycle) = false")
	}
}

func TestResolve_TransitiveFlags(t *testing.T) {
	t.Parallel()

	top := coreWith(t, "acme:soc:top:1.0", `filesets:
  rtl:
    depend:
      - acme:ip:uart
  sim:
    depend:
      - acme:ip:bfm
targets:
  default:
    filesets: [rtl]
  sim:
    filesets: [rtl, sim]
`)
	uart := coreWith(t, "acme:ip:uart:1.0", `filesets:
  rtl:
    depend:
      - "tool_verilator ? (acme:lib:vl_helpers)"
      - "is_toplevel ? (acme:lib:standalone)"
targets:
  default:
    filesets: [rtl]
`)
	db := newDB(top, uart,
		core(t, "acme:ip:bfm:1.0"),
		core(t, "acme:lib:vl_helpers:1.0"),
		core(t, "acme:lib:standalone:1.0"),
	)

	got, err := db.Resolve(t.Context(), top, coredesc.Flags{Target: "sim", Tool: "verilator", IsToplevel: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"acme:lib:vl_helpers:1.0", "acme:ip:uart:1.0", "acme:ip:bfm:1.0", "acme:soc:top:1.0"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("Resolve() = %v, want %v", ids(got), want)
	}
}

func TestResolveRef(t *testing.T) {
	t.Parallel()

	db := newDB(core(t, "acme:ip:uart:1.0", "acme:lib:fifo"), core(t, "acme:lib:fifo:1.0"))

	got, err := db.ResolveRef(t.Context(), vlnv.MustParseDependency("acme:ip:uart"), coredesc.Flags{})
	if err != nil {
		t.Fatalf("ResolveRef() error = %v", err)
	}
	if want := []string{"acme:lib:fifo:1.0", "acme:ip:uart:1.0"}; !slices.Equal(ids(got), want) {
		t.Errorf("ResolveRef() = %v, want %v", ids(got), want)
	}

	if _, err := db.ResolveRef(t.Context(), vlnv.MustParseDependency("acme:ip:spi"), coredesc.Flags{}); !errors.Is(err, ErrCoreNotFound) {
		t.Errorf("ResolveRef(missing) error = %v, want ErrCoreNotFound", err)
	}
}

func TestResolve_Canceled(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := newDB(top).Resolve(ctx, top, coredesc.Flags{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolveClosure_Edges(t *testing.T) {
	t.Parallel()

	top := core(t, "acme:soc:top:1.0", "acme:ip:uart", "acme:ip:gpio")
	uart := core(t, "acme:ip:uart:1.0", "acme:lib:fifo")
	gpio := core(t, "acme:ip:gpio:1.0")
	fifo := core(t, "acme:lib:fifo:1.0")
	db := newDB(top, uart, gpio, fifo)

	c, err := db.ResolveClosure(t.Context(), top, coredesc.Flags{})
	if err != nil {
		t.Fatalf("ResolveClosure() error = %v", err)
	}
	if c.Top() != top {
		t.Errorf("Top() = %v, want top", c.Top().ID)
	}
	if got, want := ids(c.DepsOf(top)), []string{"acme:ip:uart:1.0", "acme:ip:gpio:1.0"}; !slices.Equal(got, want) {
		t.Errorf("DepsOf(top) = %v, want %v", got, want)
	}
	if got := ids(c.DepsOf(uart)); !slices.Equal(got, []string{"acme:lib:fifo:1.0"}) {
		t.Errorf("DepsOf(uart) = %v", got)
	}
	if got := c.DepsOf(fifo); len(got) != 0 {
		t.Errorf("DepsOf(fifo) = %v, want none", ids(got))
	}
}
