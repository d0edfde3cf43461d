// Package mapper applies conversion rules to Notion pages, producing flat
// output records.
package mapper

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/property"
	"github.com/sells-group/notion-mapper/pkg/emap"
)

// JoinSeparator separates elements collapsed by the Join list policy.
const JoinSeparator = ","

// IDKey is the output key of the page identifier when it is included.
const IDKey = "id"

// MissingPropertyError reports a rule whose source property is absent from a
// page. Requested lists every rule's source name, Available the page's
// property names (sorted).
type MissingPropertyError struct {
	Name      string
	Requested []string
	Available []string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("%s does not exist. requestKeys=%s. existKeys=%s",
		e.Name, strings.Join(e.Requested, ","), strings.Join(e.Available, ","))
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithIntN replaces the random index source used by PickRandom. fn must
// return a value in [0, n).
func WithIntN(fn func(n int) int) Option {
	return func(m *Mapper) {
		if fn != nil {
			m.intN = fn
		}
	}
}

// WithEncoder replaces the sequence encoder used by the Emap list policy.
func WithEncoder(fn func(v any) (string, error)) Option {
	return func(m *Mapper) {
		if fn != nil {
			m.encode = fn
		}
	}
}

// Mapper flattens page properties according to conversion rules. It holds no
// per-request state and is safe for concurrent use if its random source is.
type Mapper struct {
	intN   func(n int) int
	encode func(v any) (string, error)
}

// New creates a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		intN:   rand.IntN,
		encode: emap.Encode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapPages maps every page. The first failing page fails the whole batch.
func (m *Mapper) MapPages(pages []notionapi.Page, rules []model.ConversionRule, includeID bool) ([]*model.Record, error) {
	out := make([]*model.Record, 0, len(pages))
	for _, p := range pages {
		rec, err := m.MapPage(p, rules, includeID)
		if err != nil {
			return nil, eris.Wrapf(err, "mapper: page %s", p.ID)
		}
		out = append(out, rec)
	}
	return out, nil
}

// MapPage maps one page. With includeID the page id is the leading field.
func (m *Mapper) MapPage(p notionapi.Page, rules []model.ConversionRule, includeID bool) (*model.Record, error) {
	rec := model.NewRecord()
	if includeID {
		rec.Set(IDKey, string(p.ID))
	}
	if err := m.apply(rec, p.Properties, rules); err != nil {
		return nil, err
	}
	return rec, nil
}

// MapRecord folds rules over props in order. A later rule with the same
// output name overwrites an earlier one.
func (m *Mapper) MapRecord(props notionapi.Properties, rules []model.ConversionRule) (*model.Record, error) {
	rec := model.NewRecord()
	if err := m.apply(rec, props, rules); err != nil {
		return nil, err
	}
	return rec, nil
}

func (m *Mapper) apply(rec *model.Record, props notionapi.Properties, rules []model.ConversionRule) error {
	for _, rule := range rules {
		prop, ok := props[rule.SourceName]
		if !ok {
			return &MissingPropertyError{
				Name:      rule.SourceName,
				Requested: sourceNames(rules),
				Available: propertyNames(props),
			}
		}

		raw, err := property.Extract(prop, rule.Target)
		if err != nil {
			return eris.Wrapf(err, "mapper: extract %q", rule.SourceName)
		}

		value, err := m.collapse(raw, rule)
		if err != nil {
			return eris.Wrapf(err, "mapper: collapse %q", rule.SourceName)
		}

		key := rule.OutputKey()
		if key == "" {
			continue
		}
		rec.Set(key, value)
	}
	return nil
}

func (m *Mapper) collapse(raw any, rule model.ConversionRule) (any, error) {
	seq, isSeq := raw.([]any)
	if !isSeq {
		if raw == nil || raw == "" {
			return rule.Fallback, nil
		}
		return raw, nil
	}

	switch rule.ListPolicy {
	case model.ListRaw, "":
		if seq == nil {
			return rule.Fallback, nil
		}
		return seq, nil
	case model.ListEmap:
		s, err := m.encode(seq)
		if err != nil {
			return nil, eris.Wrap(err, "emap encode")
		}
		if s == "" {
			return rule.Fallback, nil
		}
		return s, nil
	case model.ListPickFirst:
		if len(seq) == 0 {
			return rule.Fallback, nil
		}
		return seq[0], nil
	case model.ListPickRandom:
		if len(seq) == 0 {
			return rule.Fallback, nil
		}
		return seq[m.intN(len(seq))], nil
	case model.ListJoin:
		s := join(seq)
		if s == "" {
			return rule.Fallback, nil
		}
		return s, nil
	}

	zap.L().Error("mapper: unknown list policy", zap.String("policy", string(rule.ListPolicy)))
	return nil, eris.Wrapf(model.ErrMalformedInput, "unknown list policy %q", rule.ListPolicy)
}

func join(seq []any) string {
	parts := make([]string, len(seq))
	for i, v := range seq {
		switch s := v.(type) {
		case string:
			parts[i] = s
		case nil:
		default:
			parts[i] = fmt.Sprint(s)
		}
	}
	return strings.Join(parts, JoinSeparator)
}

func sourceNames(rules []model.ConversionRule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.SourceName
	}
	return names
}

func propertyNames(props notionapi.Properties) []string {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
