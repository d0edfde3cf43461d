package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/registry"
)

type fetchFlags struct {
	keys        string
	ruleSet     string
	schemaDB    string
	ruleSetFile string
	sorts       string
	filter      string
	format      string
	includeID   bool
}

var fetchOpts fetchFlags

var fetchCmd = &cobra.Command{
	Use:   "fetch <database-id>",
	Short: "Flatten a database and print the records",
	Long:  "Flattens every page of a database with rules given by --keys, or by a rule-set (--ruleset) read from a schema database or a fixture file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}
		f := fetchOpts
		if f.schemaDB == "" {
			f.schemaDB = cfg.Notion.SchemaDB
		}
		return runFetch(cmd.Context(), newService(cfg), args[0], f, cmd.OutOrStdout())
	},
}

func runFetch(ctx context.Context, svc *flatten.Service, dbID string, f fetchFlags, out io.Writer) error {
	sorts, err := flatten.ParseSorts(f.sorts)
	if err != nil {
		return err
	}
	filter, err := flatten.ParseFilter(f.filter)
	if err != nil {
		return err
	}
	opts := flatten.FetchOptions{IncludeID: f.includeID, Sorts: sorts, Filter: filter}

	rules, mode, err := resolveRules(ctx, svc, f)
	if err != nil {
		return err
	}

	records, err := svc.FetchFlattened(ctx, dbID, rules, opts)
	if err != nil {
		return err
	}

	zap.L().Debug("fetch: done", zap.String("database_id", dbID), zap.String("mode", mode.String()))
	return writeOutput(out, f.format, flatten.Shape(mode, rules, records))
}

// resolveRules picks the rule source: a rule-set code wins over --keys.
func resolveRules(ctx context.Context, svc *flatten.Service, f fetchFlags) ([]model.ConversionRule, flatten.Mode, error) {
	if f.ruleSet == "" {
		if f.keys == "" {
			return nil, flatten.ModeSimple, eris.New("one of --keys or --ruleset is required")
		}
		return flatten.ParseRules(f.keys)
	}

	var (
		sets []model.RuleSet
		err  error
	)
	switch {
	case f.ruleSetFile != "":
		sets, err = registry.LoadRuleSetsFromFile(f.ruleSetFile)
	case f.schemaDB != "":
		sets, err = svc.DiscoverRuleSets(ctx, f.schemaDB)
	default:
		return nil, flatten.ModeSimple, eris.New("--ruleset needs --schema-db, notion.schema_db or --ruleset-file")
	}
	if err != nil {
		return nil, flatten.ModeSimple, err
	}

	rs := registry.Find(sets, f.ruleSet)
	if rs == nil {
		return nil, flatten.ModeSimple, eris.Wrapf(flatten.ErrRuleSetNotFound, "code %q", f.ruleSet)
	}
	return rs.ConversionOptions, flatten.ModeSchema, nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOpts.keys, "keys", "", `conversion rules as JSON, e.g. '["Name","Tags"]'`)
	fetchCmd.Flags().StringVar(&fetchOpts.ruleSet, "ruleset", "", "rule-set code to use instead of --keys")
	fetchCmd.Flags().StringVar(&fetchOpts.schemaDB, "schema-db", "", "schema database holding rule-sets (default from config)")
	fetchCmd.Flags().StringVar(&fetchOpts.ruleSetFile, "ruleset-file", "", "YAML/JSON file of schema rows, read instead of a schema database")
	fetchCmd.Flags().StringVar(&fetchOpts.sorts, "sorts", "", "Notion sorts as JSON")
	fetchCmd.Flags().StringVar(&fetchOpts.filter, "filter", "", "Notion filter as JSON")
	fetchCmd.Flags().StringVar(&fetchOpts.format, "format", formatJSON, "output format: json, yaml or emap")
	fetchCmd.Flags().BoolVar(&fetchOpts.includeID, "include-id", false, "include each page id as the first field")
	rootCmd.AddCommand(fetchCmd)
}
