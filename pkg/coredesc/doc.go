// SPDX-License-Identifier: MPL-2.0

// Package coredesc parses core descriptors and resolves them against a set of
// runtime flags.
//
// A core descriptor is a YAML document in the CAPI2 dialect. Parsing is purely
// structural: the document is validated against an embedded CUE schema, every
// mapping keeps its declaration order, and each flag expression such as
//
//	tool_icarus ? (sim_models) !tool_icarus ? (synth_models)
//
// is compiled into an ordered list of (predicate, value) rules. Nothing is
// evaluated until a resolver method runs.
//
// Resolver methods (Files, Depends, Parameters, Scripts, ToolOptions,
// Toplevel, GenerateInstances, Vpi) are pure functions of the Descriptor and
// the Flags passed in. A Descriptor is immutable after Parse and may be shared
// between goroutines.
package coredesc
