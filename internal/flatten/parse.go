package flatten

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/notion-mapper/internal/model"
)

// Mode selects the response shape of a flattened fetch.
type Mode int

const (
	// ModeSimple returns the records only. Selected when every rule is a bare
	// property name.
	ModeSimple Mode = iota
	// ModeSchema returns {option, data}. Selected when any rule is an object.
	ModeSchema
)

func (m Mode) String() string {
	if m == ModeSchema {
		return "schema"
	}
	return "simple"
}

// Default list policies per rule form.
const (
	SimpleListPolicy = model.ListJoin
	SchemaListPolicy = model.ListRaw
)

// ParseRules parses a JSON array whose items are either bare property names or
// conversion rule objects.
func ParseRules(raw string) ([]model.ConversionRule, Mode, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, ModeSimple, eris.Wrapf(model.ErrMalformedInput, "keys is not a JSON array: %v", err)
	}

	mode := ModeSimple
	rules := make([]model.ConversionRule, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)

		var (
			r   model.ConversionRule
			def model.ListPolicy
		)
		switch {
		case len(item) > 0 && item[0] == '"':
			var name string
			if err := json.Unmarshal(item, &name); err != nil {
				return nil, ModeSimple, eris.Wrapf(model.ErrMalformedInput, "keys[%d]: %v", i, err)
			}
			r = model.ConversionRule{SourceName: name}
			def = SimpleListPolicy
		case len(item) > 0 && item[0] == '{':
			if err := json.Unmarshal(item, &r); err != nil {
				return nil, ModeSimple, eris.Wrapf(model.ErrMalformedInput, "keys[%d]: %v", i, err)
			}
			def = SchemaListPolicy
			mode = ModeSchema
		default:
			return nil, ModeSimple, eris.Wrapf(model.ErrMalformedInput, "keys[%d] must be a string or an object", i)
		}

		r, err := r.Normalize(def)
		if err != nil {
			return nil, ModeSimple, eris.Wrapf(err, "keys[%d]", i)
		}
		rules = append(rules, r)
	}
	return rules, mode, nil
}

// ParseSorts parses a JSON array of Notion sort objects. Empty input means no
// sorting.
func ParseSorts(raw string) ([]notionapi.SortObject, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var sorts []notionapi.SortObject
	if err := json.Unmarshal([]byte(raw), &sorts); err != nil {
		return nil, eris.Wrapf(model.ErrMalformedInput, "sorts: %v", err)
	}
	for i, s := range sorts {
		if s.Property == "" && s.Timestamp == "" {
			return nil, eris.Wrapf(model.ErrMalformedInput, "sorts[%d]: property or timestamp is required", i)
		}
		switch s.Direction {
		case "", notionapi.SortOrderASC, notionapi.SortOrderDESC:
		default:
			return nil, eris.Wrapf(model.ErrMalformedInput, "sorts[%d]: unknown direction %q", i, s.Direction)
		}
	}
	return sorts, nil
}

// ParseFilter parses a Notion filter object. Empty input, `null` and `{}` all
// mean no filter and yield nil, so the filter is left out of the query.
func ParseFilter(raw string) (notionapi.Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, eris.Wrapf(model.ErrMalformedInput, "filter: %v", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	_, hasAnd := fields[string(notionapi.FilterOperatorAND)]
	_, hasOr := fields[string(notionapi.FilterOperatorOR)]
	if hasAnd || hasOr {
		var cf notionapi.CompoundFilter
		if err := json.Unmarshal([]byte(raw), &cf); err != nil {
			return nil, eris.Wrapf(model.ErrMalformedInput, "filter: %v", err)
		}
		return cf, nil
	}

	var pf notionapi.PropertyFilter
	if err := json.Unmarshal([]byte(raw), &pf); err != nil {
		return nil, eris.Wrapf(model.ErrMalformedInput, "filter: %v", err)
	}
	if pf.Property == "" {
		return nil, eris.Wrap(model.ErrMalformedInput, "filter: property is required")
	}
	return pf, nil
}
