package model

import "encoding/json"

// RowKind distinguishes static record rows from column rows in a schema
// database.
type RowKind string

// Schema row kinds.
const (
	RowRecord RowKind = "Record"
	RowColumn RowKind = "Column"
)

// RuleSet is a named collection of static records and conversion rules,
// reconstituted from a schema database.
type RuleSet struct {
	Code              string              `json:"code" yaml:"code"`
	Records           *OrderedMap[string] `json:"records" yaml:"records"`
	ConversionOptions []ConversionRule    `json:"conversionOptions" yaml:"conversionOptions"`
}

// NewRuleSet returns an empty rule-set for code.
func NewRuleSet(code string) *RuleSet {
	return &RuleSet{
		Code:              code,
		Records:           NewOrderedMap[string](),
		ConversionOptions: []ConversionRule{},
	}
}

// RecordKeys returns the static record names in first-seen order.
func (rs RuleSet) RecordKeys() []string {
	if rs.Records == nil {
		return []string{}
	}
	return rs.Records.Keys()
}

// ruleSetWire is the encoded form of a RuleSet, with recordKeys spelled out
// for consumers that cannot rely on object key order.
type ruleSetWire struct {
	Code              string              `json:"code" yaml:"code"`
	RecordKeys        []string            `json:"recordKeys" yaml:"recordKeys"`
	Records           *OrderedMap[string] `json:"records" yaml:"records"`
	ConversionOptions []ConversionRule    `json:"conversionOptions" yaml:"conversionOptions"`
}

func (rs RuleSet) wire() ruleSetWire {
	w := ruleSetWire{
		Code:              rs.Code,
		RecordKeys:        rs.RecordKeys(),
		Records:           rs.Records,
		ConversionOptions: rs.ConversionOptions,
	}
	if w.Records == nil {
		w.Records = NewOrderedMap[string]()
	}
	if w.ConversionOptions == nil {
		w.ConversionOptions = []ConversionRule{}
	}
	return w
}

// MarshalJSON encodes the rule-set with its recordKeys.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.wire())
}

// MarshalYAML encodes the rule-set with its recordKeys.
func (rs RuleSet) MarshalYAML() (any, error) {
	return rs.wire(), nil
}
