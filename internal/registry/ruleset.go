// Package registry reconstitutes conversion rule-sets from a Notion schema
// database.
//
// Each row of the schema database is either a Record row (a static name/data
// pair) or a Column row (one conversion rule). Rows are grouped by their
// category into one rule-set per distinct category.
package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/property"
	"github.com/sells-group/notion-mapper/pkg/notion"
)

// Schema database column names.
const (
	ColName       = "name"
	ColData       = "data"
	ColNotionName = "notionName"
	ColDVName     = "dvName"
	ColDVType     = "dvType"
	ColListPolicy = "listPolicy"
	ColTarget     = "target"
	ColFallback   = "fallback"
	ColType       = "type"
	ColCategory   = "category"
)

var columns = []string{
	ColName, ColData, ColNotionName, ColDVName, ColDVType,
	ColListPolicy, ColTarget, ColFallback, ColType, ColCategory,
}

// Row is one row of a schema database, with every column read as text.
type Row struct {
	PageID     string `json:"-" yaml:"-"`
	Name       string `json:"name" yaml:"name"`
	Data       string `json:"data" yaml:"data"`
	NotionName string `json:"notionName" yaml:"notionName"`
	DVName     string `json:"dvName" yaml:"dvName"`
	DVType     string `json:"dvType" yaml:"dvType"`
	ListPolicy string `json:"listPolicy" yaml:"listPolicy"`
	Target     string `json:"target" yaml:"target"`
	Fallback   string `json:"fallback" yaml:"fallback"`
	Type       string `json:"type" yaml:"type"`
	Category   string `json:"category" yaml:"category"`
}

// RowError reports a schema row that could not be read. Discovery stops at
// the first bad row.
type RowError struct {
	Index  int
	PageID string
	Err    error
}

func (e *RowError) Error() string {
	if e.PageID != "" {
		return fmt.Sprintf("registry: schema row %d (page %s): %v", e.Index, e.PageID, e.Err)
	}
	return fmt.Sprintf("registry: schema row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// LoadRuleSets queries the schema database (a single page of results) and
// returns its rule-sets in first-seen category order.
func LoadRuleSets(ctx context.Context, client notion.Client, dbID string) ([]model.RuleSet, error) {
	pages, err := notion.QueryPage(ctx, client, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "registry: load rule sets")
	}

	rows := make([]Row, 0, len(pages))
	for i, p := range pages {
		row, err := parseRowPage(p)
		if err != nil {
			return nil, &RowError{Index: i, PageID: string(p.ID), Err: err}
		}
		rows = append(rows, row)
	}

	sets, err := Group(rows)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("registry: loaded rule sets",
		zap.String("database_id", dbID),
		zap.Int("rows", len(rows)),
		zap.Int("rule_sets", len(sets)),
	)
	return sets, nil
}

func parseRowPage(p notionapi.Page) (Row, error) {
	vals := make(map[string]string, len(columns))
	for _, col := range columns {
		prop, ok := p.Properties[col]
		if !ok {
			return Row{}, eris.Errorf("missing %s property", col)
		}
		v, err := property.Extract(prop, model.TargetContent)
		if err != nil {
			return Row{}, eris.Wrapf(err, "read %s", col)
		}
		vals[col] = text(v)
	}

	return Row{
		PageID:     string(p.ID),
		Name:       vals[ColName],
		Data:       vals[ColData],
		NotionName: vals[ColNotionName],
		DVName:     vals[ColDVName],
		DVType:     vals[ColDVType],
		ListPolicy: vals[ColListPolicy],
		Target:     vals[ColTarget],
		Fallback:   vals[ColFallback],
		Type:       vals[ColType],
		Category:   vals[ColCategory],
	}, nil
}

// text renders an extracted value as schema text.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = text(e)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// Group folds rows into rule-sets, one per distinct category, in the order
// categories are first seen. Record rows are merged into the records map (a
// later row with the same name wins); Column rows become conversion rules in
// encounter order.
func Group(rows []Row) ([]model.RuleSet, error) {
	var order []string
	byCode := make(map[string]*model.RuleSet)

	for i, row := range rows {
		if row.Category == "" {
			return nil, &RowError{Index: i, PageID: row.PageID, Err: eris.New("empty category")}
		}

		rs, ok := byCode[row.Category]
		if !ok {
			rs = model.NewRuleSet(row.Category)
			byCode[row.Category] = rs
			order = append(order, row.Category)
		}

		switch model.RowKind(row.Type) {
		case model.RowRecord:
			if row.Name == "" {
				return nil, &RowError{Index: i, PageID: row.PageID, Err: eris.New("record row without name")}
			}
			rs.Records.Set(row.Name, row.Data)
		case model.RowColumn:
			r, err := row.rule()
			if err != nil {
				return nil, &RowError{Index: i, PageID: row.PageID, Err: err}
			}
			rs.ConversionOptions = append(rs.ConversionOptions, r)
		default:
			return nil, &RowError{Index: i, PageID: row.PageID, Err: eris.Errorf("unknown row type %q", row.Type)}
		}
	}

	out := make([]model.RuleSet, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	return out, nil
}

func (row Row) rule() (model.ConversionRule, error) {
	if row.NotionName == "" {
		return model.ConversionRule{}, eris.New("column row without notionName")
	}
	r := model.ConversionRule{
		SourceName:     row.NotionName,
		OutputName:     row.DVName,
		OutputTypeHint: model.TypeHint(row.DVType),
		ListPolicy:     model.ListPolicy(row.ListPolicy),
		Target:         model.Target(row.Target),
	}
	if row.Fallback != "" {
		r.Fallback = row.Fallback
	}
	return r.Normalize(model.ListRaw)
}
