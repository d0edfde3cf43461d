package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/registry"
)

var (
	discoverFile   string
	discoverFormat string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [schema-db-id]",
	Short: "List the rule-sets defined in a schema database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if discoverFile != "" {
			return runDiscover(cmd.Context(), nil, "", discoverFile, discoverFormat, cmd.OutOrStdout())
		}
		if err := cfg.Validate("discover"); err != nil {
			return err
		}
		schemaDB := cfg.Notion.SchemaDB
		if len(args) == 1 {
			schemaDB = args[0]
		}
		return runDiscover(cmd.Context(), newService(cfg), schemaDB, "", discoverFormat, cmd.OutOrStdout())
	},
}

func runDiscover(ctx context.Context, svc *flatten.Service, schemaDB, file, format string, out io.Writer) error {
	var (
		sets []model.RuleSet
		err  error
	)
	switch {
	case file != "":
		sets, err = registry.LoadRuleSetsFromFile(file)
	case schemaDB != "":
		sets, err = svc.DiscoverRuleSets(ctx, schemaDB)
	default:
		return eris.New("a schema database id (argument or notion.schema_db) or --file is required")
	}
	if err != nil {
		return err
	}
	return writeOutput(out, format, sets)
}

func init() {
	discoverCmd.Flags().StringVar(&discoverFile, "file", "", "YAML/JSON file of schema rows, read instead of Notion")
	discoverCmd.Flags().StringVar(&discoverFormat, "format", formatYAML, "output format: json, yaml or emap")
	rootCmd.AddCommand(discoverCmd)
}
