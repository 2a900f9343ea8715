// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"strconv"
	"strings"
)

// Parameter is a parameter resolved for a target. Default holds a native Go
// value matching Datatype (string, int64, bool or float64) or nil when the
// parameter has no default. Integers above math.MaxInt64 are held as uint64.
type Parameter struct {
	Name        string   `json:"-" yaml:"-"`
	Datatype    Datatype `json:"datatype" yaml:"datatype"`
	Paramtype   string   `json:"paramtype" yaml:"paramtype"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// AsMap returns the parameter as a plain value map with the keys datatype,
// paramtype and, when set, default and description.
func (p Parameter) AsMap() map[string]any {
	m := map[string]any{
		"datatype":  string(p.Datatype),
		"paramtype": p.Paramtype,
	}
	if p.Default != nil {
		m["default"] = p.Default
	}
	if p.Description != "" {
		m["description"] = p.Description
	}
	return m
}

// Parameters returns the parameters exposed by the selected target.
//
// A target entry "name=value" replaces the default of the parameter and
// nothing else; a later entry for the same name wins. Datatype and paramtype
// are evaluated against the active flags.
func (d *Descriptor) Parameters(flags Flags) (map[string]Parameter, error) {
	out := map[string]Parameter{}
	t, _ := d.lookupTarget(OpParameters, flags)
	if t == nil {
		return out, nil
	}
	active := flags.Active()

	type pending struct {
		def        *ParameterDef
		raw        string
		hasDefault bool
	}
	var order []string
	selected := map[string]*pending{}

	for _, ref := range t.Parameters.Active(active) {
		def, ok := d.parameters.Get(ref.Name)
		if !ok {
			return nil, &ReferenceError{Kind: RefParameter, Name: ref.Name, Target: t.Name}
		}
		p, seen := selected[ref.Name]
		if !seen {
			p = &pending{def: def, raw: def.Default, hasDefault: def.HasDefault}
			selected[ref.Name] = p
			order = append(order, ref.Name)
		}
		if ref.HasOverride {
			p.raw, p.hasDefault = ref.Override, true
		}
	}

	for _, name := range order {
		p := selected[name]
		param := Parameter{
			Name:        name,
			Datatype:    Datatype(strings.Join(p.def.Datatype.Active(active), " ")),
			Paramtype:   strings.Join(p.def.Paramtype.Active(active), " "),
			Description: p.def.Description,
		}
		if ok, errs := param.Datatype.IsValid(); !ok {
			return nil, &ParameterValueError{Name: name, Target: t.Name, Datatype: param.Datatype, Value: p.raw, Err: errs[0]}
		}
		if p.hasDefault && p.raw != "" {
			v, err := coerce(param.Datatype, p.raw)
			if err != nil {
				return nil, &ParameterValueError{Name: name, Target: t.Name, Datatype: param.Datatype, Value: p.raw, Err: err}
			}
			param.Default = v
		}
		out[name] = param
	}
	return out, nil
}

// coerce converts a literal to the native type of dt. Integers accept
// decimal and 0x/0o/0b prefixed literals.
func coerce(dt Datatype, raw string) (any, error) {
	switch dt {
	case DatatypeInt:
		return parseInt(strings.TrimSpace(raw))
	case DatatypeBool:
		return strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	case DatatypeReal:
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	default:
		return raw, nil
	}
}

// parseInt parses a decimal or 0x/0o/0b prefixed integer. A decimal literal
// with a leading zero is rejected rather than read as octal. Values that
// overflow int64 but fit 64 bits unsigned come back as uint64.
func parseInt(s string) (any, error) {
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && !strings.ContainsRune("xXoObB", rune(body[1])) &&
		strings.Trim(body, "0_") != "" {
		return nil, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, strconv.ErrRange) || strings.HasPrefix(s, "-") {
		return nil, err
	}
	u, uerr := strconv.ParseUint(strings.TrimPrefix(s, "+"), 0, 64)
	if uerr != nil {
		return nil, err
	}
	return u, nil
}
