package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/config"
	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/mapper"
	"github.com/sells-group/notion-mapper/pkg/notion"
)

var cfg *config.Config

// newClient builds the Notion client from config. Tests replace it.
var newClient = func(c *config.Config) notion.Client {
	return notion.NewClient(c.Notion.Token, notion.WithRateLimit(c.Notion.RateLimit))
}

var rootCmd = &cobra.Command{
	Use:   "notion-mapper",
	Short: "Flatten Notion databases into plain records",
	Long:  "Reads Notion databases page by page, applies conversion rules to each page's properties and serves the flat records over HTTP or prints them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newService wires a flatten.Service for the loaded config.
func newService(c *config.Config) *flatten.Service {
	return flatten.NewService(newClient(c), mapper.New())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
