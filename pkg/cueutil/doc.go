// SPDX-License-Identifier: MPL-2.0

// Package cueutil checks data against embedded CUE definitions.
//
// A Schema pairs schema source with the definition to check against. Core
// descriptors are read with a YAML decoder and passed to Schema.Validate;
// config.cue is CUE source and goes through Schema.Decode. Violations come
// back as a *ValidationError whose issues carry JSON-style paths such as
// "targets.sim.toplevel".
//
//	//go:embed core_schema.cue
//	var coreSchemaSrc []byte
//
//	var coreSchema = cueutil.NewSchema(coreSchemaSrc, "#Core")
//
//	if err := coreSchema.Validate(doc, cueutil.WithFilename(path)); err != nil {
//	    return err
//	}
package cueutil
