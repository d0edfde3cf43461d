package api

import (
	"github.com/sells-group/notion-mapper/internal/model"
)

// ruleSetView is the wire form of a rule-set. ConversionOptions travels as a
// JSON string so emap consumers receive it as a single value.
type ruleSetView struct {
	Code              string                    `json:"code"`
	RecordKeys        []string                  `json:"recordKeys"`
	Records           *model.OrderedMap[string] `json:"records"`
	ConversionOptions string                    `json:"conversionOptions"`
}

func newRuleSetView(rs *model.RuleSet) (ruleSetView, error) {
	opts, err := model.MarshalRules(rs.ConversionOptions)
	if err != nil {
		return ruleSetView{}, err
	}
	records := rs.Records
	if records == nil {
		records = model.NewOrderedMap[string]()
	}
	return ruleSetView{
		Code:              rs.Code,
		RecordKeys:        rs.RecordKeys(),
		Records:           records,
		ConversionOptions: opts,
	}, nil
}

// ruleSetResult is the body of a fetch driven by a discovered rule-set.
type ruleSetResult struct {
	RuleSet ruleSetView        `json:"ruleSet"`
	Option  []model.OptionInfo `json:"option"`
	Data    any                `json:"data"`
}
