package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Target selects which facet of a structured property value is extracted.
type Target string

// Projection selectors.
const (
	TargetAll     Target = "All"
	TargetContent Target = "Content"
	TargetID      Target = "Id"
)

// ListPolicy governs how a multi-valued extraction is collapsed into the
// output field.
type ListPolicy string

// List policies.
const (
	ListRaw        ListPolicy = "Raw"
	ListEmap       ListPolicy = "Emap"
	ListPickFirst  ListPolicy = "PickFirst"
	ListPickRandom ListPolicy = "PickRandom"
	ListJoin       ListPolicy = "Join"
)

// TypeHint describes the output field type to downstream consumers. It never
// changes extraction behavior.
type TypeHint string

// Output type hints.
const (
	TypeString  TypeHint = "String"
	TypeBoolean TypeHint = "Boolean"
	TypeInt     TypeHint = "Int"
	TypeURI     TypeHint = "Uri"
	TypeColor   TypeHint = "Color"
	TypeUnknown TypeHint = "Unknown"
)

// ErrMalformedInput marks caller-supplied input that cannot be parsed.
var ErrMalformedInput = eris.New("malformed input")

// ParseTarget parses a projection selector. Empty text yields Content.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case "":
		return TargetContent, nil
	case TargetAll, TargetContent, TargetID:
		return Target(s), nil
	}
	return "", eris.Wrapf(ErrMalformedInput, "unknown target %q", s)
}

// ParseListPolicy parses a list policy. Empty text yields def.
func ParseListPolicy(s string, def ListPolicy) (ListPolicy, error) {
	switch ListPolicy(s) {
	case "":
		return def, nil
	case ListRaw, ListEmap, ListPickFirst, ListPickRandom, ListJoin:
		return ListPolicy(s), nil
	}
	return "", eris.Wrapf(ErrMalformedInput, "unknown list policy %q", s)
}

// ParseTypeHint parses an output type hint. Empty text yields Unknown.
func ParseTypeHint(s string) (TypeHint, error) {
	switch TypeHint(s) {
	case "":
		return TypeUnknown, nil
	case TypeString, TypeBoolean, TypeInt, TypeURI, TypeColor, TypeUnknown:
		return TypeHint(s), nil
	}
	return "", eris.Wrapf(ErrMalformedInput, "unknown type hint %q", s)
}

// ConversionRule describes how one named source property becomes one output
// field.
type ConversionRule struct {
	SourceName     string     `json:"sourceName" yaml:"sourceName"`
	OutputName     string     `json:"outputName,omitempty" yaml:"outputName,omitempty"`
	OutputTypeHint TypeHint   `json:"outputTypeHint,omitempty" yaml:"outputTypeHint,omitempty"`
	ListPolicy     ListPolicy `json:"listPolicy,omitempty" yaml:"listPolicy,omitempty"`
	Target         Target     `json:"target,omitempty" yaml:"target,omitempty"`
	Fallback       any        `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// OutputKey returns the output field name, defaulting to SourceName.
func (r ConversionRule) OutputKey() string {
	if r.OutputName != "" {
		return r.OutputName
	}
	return r.SourceName
}

// Normalize validates the rule and fills defaults. Missing list policies take
// defPolicy, which differs per call site.
func (r ConversionRule) Normalize(defPolicy ListPolicy) (ConversionRule, error) {
	if r.SourceName == "" {
		return r, eris.Wrap(ErrMalformedInput, "conversion rule: sourceName is required")
	}
	var err error
	if r.Target, err = ParseTarget(string(r.Target)); err != nil {
		return r, eris.Wrapf(err, "conversion rule %q", r.SourceName)
	}
	if r.ListPolicy, err = ParseListPolicy(string(r.ListPolicy), defPolicy); err != nil {
		return r, eris.Wrapf(err, "conversion rule %q", r.SourceName)
	}
	if r.OutputTypeHint, err = ParseTypeHint(string(r.OutputTypeHint)); err != nil {
		return r, eris.Wrapf(err, "conversion rule %q", r.SourceName)
	}
	if r.OutputName == "" {
		r.OutputName = r.SourceName
	}
	return r, nil
}

// OptionInfo is the per-field schema description returned alongside data in
// schema mode.
type OptionInfo struct {
	Name   string   `json:"name" yaml:"name"`
	Type   TypeHint `json:"type" yaml:"type"`
	IsList bool     `json:"isList" yaml:"isList"`
}

// Describe returns the OptionInfo for each rule, in rule order.
func Describe(rules []ConversionRule) []OptionInfo {
	out := make([]OptionInfo, 0, len(rules))
	for _, r := range rules {
		hint := r.OutputTypeHint
		if hint == "" {
			hint = TypeUnknown
		}
		out = append(out, OptionInfo{
			Name:   r.OutputKey(),
			Type:   hint,
			IsList: r.ListPolicy == ListRaw,
		})
	}
	return out
}

// MarshalRules encodes rules as a transportable JSON string.
func MarshalRules(rules []ConversionRule) (string, error) {
	if rules == nil {
		rules = []ConversionRule{}
	}
	b, err := json.Marshal(rules)
	if err != nil {
		return "", eris.Wrap(err, "model: marshal conversion rules")
	}
	return string(b), nil
}
