// Package flatten composes pagination, rule discovery and record mapping into
// the request-level operations served over HTTP and the CLI.
package flatten

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/mapper"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/registry"
	"github.com/sells-group/notion-mapper/pkg/notion"
)

// ErrRuleSetNotFound is returned when a requested rule-set code is not present
// in the schema database.
var ErrRuleSetNotFound = eris.New("flatten: rule set not found")

// FetchOptions controls a flattened fetch.
type FetchOptions struct {
	IncludeID bool
	Sorts     []notionapi.SortObject
	Filter    notionapi.Filter
}

// SchemaResult is the schema-mode response body.
type SchemaResult struct {
	Option []model.OptionInfo `json:"option" yaml:"option"`
	Data   []*model.Record    `json:"data" yaml:"data"`
}

// Service runs flattening requests against one Notion client. It keeps no
// state between calls.
type Service struct {
	client notion.Client
	mapper *mapper.Mapper
}

// NewService creates a Service. A nil mapper gets the default mapper.
func NewService(client notion.Client, m *mapper.Mapper) *Service {
	if m == nil {
		m = mapper.New()
	}
	return &Service{client: client, mapper: m}
}

// FetchAllPaginated returns every page of the database, in order.
func (s *Service) FetchAllPaginated(ctx context.Context, dbID string, sorts []notionapi.SortObject, filter notionapi.Filter) ([]notionapi.Page, error) {
	pages, err := notion.QueryAll(ctx, s.client, dbID, &notionapi.DatabaseQueryRequest{
		Sorts:  sorts,
		Filter: filter,
	})
	if err != nil {
		return nil, eris.Wrap(err, "flatten: fetch pages")
	}
	return pages, nil
}

// FetchFlattened fetches every page of the database and maps each through
// rules.
func (s *Service) FetchFlattened(ctx context.Context, dbID string, rules []model.ConversionRule, opts FetchOptions) ([]*model.Record, error) {
	pages, err := s.FetchAllPaginated(ctx, dbID, opts.Sorts, opts.Filter)
	if err != nil {
		return nil, err
	}

	records, err := s.mapper.MapPages(pages, rules, opts.IncludeID)
	if err != nil {
		return nil, eris.Wrap(err, "flatten: map pages")
	}

	zap.L().Info("flatten: mapped database",
		zap.String("database_id", dbID),
		zap.Int("records", len(records)),
		zap.Int("rules", len(rules)),
	)
	return records, nil
}

// DiscoverRuleSets reads the rule-sets defined in a schema database.
func (s *Service) DiscoverRuleSets(ctx context.Context, schemaDB string) ([]model.RuleSet, error) {
	sets, err := registry.LoadRuleSets(ctx, s.client, schemaDB)
	if err != nil {
		return nil, eris.Wrap(err, "flatten: discover rule sets")
	}
	return sets, nil
}

// FetchWithRuleSet discovers the rule-set named code in schemaDB and uses its
// conversion rules to flatten dbID.
func (s *Service) FetchWithRuleSet(ctx context.Context, schemaDB, code, dbID string, opts FetchOptions) (*model.RuleSet, []*model.Record, error) {
	sets, err := s.DiscoverRuleSets(ctx, schemaDB)
	if err != nil {
		return nil, nil, err
	}

	rs := registry.Find(sets, code)
	if rs == nil {
		return nil, nil, eris.Wrapf(ErrRuleSetNotFound, "code %q", code)
	}

	records, err := s.FetchFlattened(ctx, dbID, rs.ConversionOptions, opts)
	if err != nil {
		return nil, nil, err
	}
	return rs, records, nil
}

// Shape builds the response body for mode: the bare records in simple mode,
// or a SchemaResult describing each rule alongside the data.
func Shape(mode Mode, rules []model.ConversionRule, records []*model.Record) any {
	if records == nil {
		records = []*model.Record{}
	}
	if mode == ModeSchema {
		return SchemaResult{Option: model.Describe(rules), Data: records}
	}
	return records
}
