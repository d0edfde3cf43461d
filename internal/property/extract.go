// Package property extracts plain values out of Notion's tagged property union.
package property

import (
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/notion-mapper/internal/model"
)

var (
	// ErrUnsupportedKind is returned for property kinds this package does not
	// know how to flatten.
	ErrUnsupportedKind = eris.New("property: unsupported property kind")

	// ErrUnsupportedFormula is returned when a formula declares a result type
	// other than string, number, boolean or date.
	ErrUnsupportedFormula = eris.New("property: unsupported formula result type")
)

// Extract returns the content of prop under the given projection. Sequences
// are always returned as []any (possibly empty); absent scalars are nil.
//
// The target only matters for select, status, multi_select and files; an
// empty target means Content.
func Extract(prop notionapi.Property, target model.Target) (any, error) {
	if target == "" {
		target = model.TargetContent
	}

	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return PlainText(p.Title), nil
	case *notionapi.RichTextProperty:
		return PlainText(p.RichText), nil
	case *notionapi.NumberProperty:
		return p.Number, nil
	case *notionapi.CheckboxProperty:
		return p.Checkbox, nil
	case *notionapi.SelectProperty:
		return option(p.Select, target)
	case *notionapi.StatusProperty:
		return option(notionapi.Option(p.Status), target)
	case *notionapi.MultiSelectProperty:
		return options(p.MultiSelect, target)
	case *notionapi.RelationProperty:
		out := make([]any, 0, len(p.Relation))
		for _, r := range p.Relation {
			out = append(out, string(r.ID))
		}
		return out, nil
	case *notionapi.FilesProperty:
		return files(p.Files, target)
	case *notionapi.FormulaProperty:
		return formula(p.Formula)
	case *notionapi.URLProperty:
		return p.URL, nil
	case *notionapi.EmailProperty:
		return p.Email, nil
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber, nil
	case nil:
		return nil, eris.Wrap(ErrUnsupportedKind, "nil property")
	}
	return nil, eris.Wrapf(ErrUnsupportedKind, "kind %q", prop.GetType())
}

// PlainText concatenates the plain text of every run, without a separator.
func PlainText(runs []notionapi.RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

func option(o notionapi.Option, target model.Target) (any, error) {
	if o.ID == "" && o.Name == "" {
		return nil, nil
	}
	switch target {
	case model.TargetAll:
		return o, nil
	case model.TargetID:
		return string(o.ID), nil
	case model.TargetContent:
		return o.Name, nil
	}
	return nil, eris.Wrapf(model.ErrMalformedInput, "unknown target %q", target)
}

func options(opts []notionapi.Option, target model.Target) (any, error) {
	out := make([]any, 0, len(opts))
	for _, o := range opts {
		switch target {
		case model.TargetAll:
			out = append(out, o)
		case model.TargetID:
			out = append(out, string(o.ID))
		case model.TargetContent:
			out = append(out, o.Name)
		default:
			return nil, eris.Wrapf(model.ErrMalformedInput, "unknown target %q", target)
		}
	}
	return out, nil
}

func files(fs []notionapi.File, target model.Target) (any, error) {
	out := make([]any, 0, len(fs))
	for _, f := range fs {
		switch target {
		case model.TargetAll:
			out = append(out, f)
		case model.TargetID:
			out = append(out, f.Name)
		case model.TargetContent:
			out = append(out, fileURL(f))
		default:
			return nil, eris.Wrapf(model.ErrMalformedInput, "unknown target %q", target)
		}
	}
	return out, nil
}

// fileURL prefers the Notion-hosted file and falls back to an external link.
func fileURL(f notionapi.File) string {
	if f.File != nil {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// formula resolves exactly one level: the field named by the formula's own
// declared type.
func formula(f notionapi.Formula) (any, error) {
	switch f.Type {
	case notionapi.FormulaTypeString:
		return f.String, nil
	case notionapi.FormulaTypeNumber:
		return f.Number, nil
	case notionapi.FormulaTypeBoolean:
		return f.Boolean, nil
	case notionapi.FormulaTypeDate:
		if f.Date == nil {
			return nil, nil
		}
		return f.Date, nil
	}
	return nil, eris.Wrapf(ErrUnsupportedFormula, "formula type %q", f.Type)
}
