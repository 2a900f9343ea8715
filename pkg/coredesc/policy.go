// SPDX-License-Identifier: MPL-2.0

package coredesc

// Operation names a resolver method for policy lookups.
type Operation string

const (
	OpFiles             Operation = "files"
	OpDepends           Operation = "depends"
	OpTargetFlags       Operation = "flags"
	OpParameters        Operation = "parameters"
	OpScripts           Operation = "scripts"
	OpToolOptions       Operation = "tool-options"
	OpToplevel          Operation = "toplevel"
	OpGenerateInstances Operation = "generate"
	OpVpi               Operation = "vpi"
)

// UnknownTargetPolicy decides what an operation returns when the requested
// target is not declared.
type UnknownTargetPolicy int

const (
	// PolicyEmpty returns an empty result without error.
	PolicyEmpty UnknownTargetPolicy = iota
	// PolicyMissingField fails with a MissingFieldError.
	PolicyMissingField
)

var unknownTargetPolicies = map[Operation]UnknownTargetPolicy{
	OpFiles:             PolicyEmpty,
	OpDepends:           PolicyEmpty,
	OpTargetFlags:       PolicyEmpty,
	OpParameters:        PolicyEmpty,
	OpScripts:           PolicyEmpty,
	OpToolOptions:       PolicyEmpty,
	OpToplevel:          PolicyMissingField,
	OpGenerateInstances: PolicyEmpty,
	OpVpi:               PolicyEmpty,
}

// PolicyFor returns the unknown-target policy of an operation.
func PolicyFor(op Operation) UnknownTargetPolicy {
	return unknownTargetPolicies[op]
}

// String returns the policy name.
func (p UnknownTargetPolicy) String() string {
	switch p {
	case PolicyEmpty:
		return "empty"
	case PolicyMissingField:
		return "missing-field"
	default:
		return "unknown"
	}
}

// lookupTarget returns the selected target. A nil target with a nil error
// means the caller must return its empty result.
func (d *Descriptor) lookupTarget(op Operation, flags Flags) (*Target, error) {
	name := flags.TargetName()
	if t, ok := d.targets.Get(name); ok {
		return t, nil
	}
	if PolicyFor(op) == PolicyMissingField {
		return nil, &MissingFieldError{Field: string(op), Target: name}
	}
	return nil, nil
}
