package flatten

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/notion-mapper/internal/model"
)

func TestParseRules_BareNames(t *testing.T) {
	rules, mode, err := ParseRules(`["Name","Score"]`)
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, mode)
	require.Len(t, rules, 2)
	assert.Equal(t, model.ConversionRule{
		SourceName:     "Name",
		OutputName:     "Name",
		OutputTypeHint: model.TypeUnknown,
		ListPolicy:     SimpleListPolicy,
		Target:         model.TargetContent,
	}, rules[0])
	assert.Equal(t, "Score", rules[1].SourceName)
}

func TestParseRules_Objects(t *testing.T) {
	rules, mode, err := ParseRules(`[
		"Name",
		{"sourceName":"Tags","outputName":"tags","outputTypeHint":"String","listPolicy":"PickFirst","target":"Id","fallback":0},
		{"sourceName":"Files"}
	]`)
	require.NoError(t, err)
	assert.Equal(t, ModeSchema, mode)
	require.Len(t, rules, 3)

	assert.Equal(t, SimpleListPolicy, rules[0].ListPolicy)

	assert.Equal(t, "tags", rules[1].OutputName)
	assert.Equal(t, model.TypeString, rules[1].OutputTypeHint)
	assert.Equal(t, model.ListPickFirst, rules[1].ListPolicy)
	assert.Equal(t, model.TargetID, rules[1].Target)
	assert.Equal(t, float64(0), rules[1].Fallback)

	assert.Equal(t, "Files", rules[2].OutputName)
	assert.Equal(t, SchemaListPolicy, rules[2].ListPolicy)
}

func TestParseRules_Empty(t *testing.T) {
	rules, mode, err := ParseRules(`[]`)
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, mode)
	assert.Empty(t, rules)
}

func TestParseRules_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `Name,Score`},
		{"empty", ``},
		{"object not array", `{"sourceName":"x"}`},
		{"number item", `[1]`},
		{"nested array", `[["a"]]`},
		{"missing sourceName", `[{"outputName":"x"}]`},
		{"bad list policy", `[{"sourceName":"x","listPolicy":"Shuffle"}]`},
		{"bad target", `[{"sourceName":"x","target":"Name"}]`},
		{"bad type", `[{"sourceName":"x","outputTypeHint":7}]`},
		{"empty name", `[""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, _, err := ParseRules(tt.raw)
			require.Error(t, err)
			assert.Nil(t, rules)
			assert.ErrorIs(t, err, model.ErrMalformedInput)
		})
	}
}

func TestParseSorts(t *testing.T) {
	sorts, err := ParseSorts("")
	require.NoError(t, err)
	assert.Nil(t, sorts)

	sorts, err = ParseSorts(`[{"property":"Name","direction":"ascending"},{"timestamp":"created_time","direction":"descending"}]`)
	require.NoError(t, err)
	require.Len(t, sorts, 2)
	assert.Equal(t, "Name", sorts[0].Property)
	assert.Equal(t, notionapi.SortOrderASC, sorts[0].Direction)
	assert.Equal(t, notionapi.SortOrderDESC, sorts[1].Direction)

	_, err = ParseSorts(`[{"direction":"ascending"}]`)
	assert.ErrorIs(t, err, model.ErrMalformedInput)

	_, err = ParseSorts(`[{"property":"Name","direction":"sideways"}]`)
	assert.ErrorIs(t, err, model.ErrMalformedInput)

	_, err = ParseSorts(`{`)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestParseFilter_Empty(t *testing.T) {
	for _, raw := range []string{"", "  ", "{}", "null"} {
		f, err := ParseFilter(raw)
		require.NoError(t, err, raw)
		assert.Nil(t, f, raw)
	}
}

func TestParseFilter_Property(t *testing.T) {
	f, err := ParseFilter(`{"property":"Status","select":{"equals":"Done"}}`)
	require.NoError(t, err)

	pf, ok := f.(notionapi.PropertyFilter)
	require.True(t, ok)
	assert.Equal(t, "Status", pf.Property)
	require.NotNil(t, pf.Select)
	assert.Equal(t, "Done", pf.Select.Equals)
}

func TestParseFilter_Compound(t *testing.T) {
	f, err := ParseFilter(`{"or":[{"property":"A","checkbox":{"equals":true}},{"property":"B","checkbox":{"equals":false}}]}`)
	require.NoError(t, err)

	cf, ok := f.(notionapi.CompoundFilter)
	require.True(t, ok)
	assert.Len(t, cf[notionapi.FilterOperatorOR], 2)
}

func TestParseFilter_Malformed(t *testing.T) {
	for _, raw := range []string{`{`, `[]`, `{"select":{"equals":"x"}}`} {
		_, err := ParseFilter(raw)
		assert.ErrorIs(t, err, model.ErrMalformedInput, raw)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "simple", ModeSimple.String())
	assert.Equal(t, "schema", ModeSchema.String())
}
