package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/notion-mapper/internal/model"
)

// LoadRuleSetsFromFile reads schema rows from a YAML (or JSON) file and groups
// them exactly as LoadRuleSets does.
func LoadRuleSetsFromFile(path string) ([]model.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read rule set fixture")
	}

	var rows []Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal rule set fixture")
	}

	return Group(rows)
}

// Find returns the rule-set with the given code, or nil.
func Find(sets []model.RuleSet, code string) *model.RuleSet {
	for i := range sets {
		if sets[i].Code == code {
			return &sets[i]
		}
	}
	return nil
}
