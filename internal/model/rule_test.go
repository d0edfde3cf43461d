package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{
		"":        TargetContent,
		"All":     TargetAll,
		"Content": TargetContent,
		"Id":      TargetID,
	} {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTarget("id")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseListPolicy(t *testing.T) {
	got, err := ParseListPolicy("", ListJoin)
	require.NoError(t, err)
	assert.Equal(t, ListJoin, got)

	got, err = ParseListPolicy("", ListRaw)
	require.NoError(t, err)
	assert.Equal(t, ListRaw, got)

	for _, p := range []ListPolicy{ListRaw, ListEmap, ListPickFirst, ListPickRandom, ListJoin} {
		got, err := ParseListPolicy(string(p), ListJoin)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err = ParseListPolicy("Shuffle", ListJoin)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseTypeHint(t *testing.T) {
	got, err := ParseTypeHint("")
	require.NoError(t, err)
	assert.Equal(t, TypeUnknown, got)

	got, err = ParseTypeHint("Uri")
	require.NoError(t, err)
	assert.Equal(t, TypeURI, got)

	_, err = ParseTypeHint("Float")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestConversionRule_Normalize(t *testing.T) {
	r, err := ConversionRule{SourceName: "Name"}.Normalize(ListJoin)
	require.NoError(t, err)
	assert.Equal(t, ConversionRule{
		SourceName:     "Name",
		OutputName:     "Name",
		OutputTypeHint: TypeUnknown,
		ListPolicy:     ListJoin,
		Target:         TargetContent,
	}, r)

	r, err = ConversionRule{
		SourceName:     "Tags",
		OutputName:     "tags",
		OutputTypeHint: TypeString,
		ListPolicy:     ListPickFirst,
		Target:         TargetID,
		Fallback:       "none",
	}.Normalize(ListRaw)
	require.NoError(t, err)
	assert.Equal(t, "tags", r.OutputName)
	assert.Equal(t, ListPickFirst, r.ListPolicy)
	assert.Equal(t, TargetID, r.Target)
	assert.Equal(t, "none", r.Fallback)
}

func TestConversionRule_NormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		rule ConversionRule
	}{
		{"missing source", ConversionRule{OutputName: "x"}},
		{"bad target", ConversionRule{SourceName: "a", Target: "Everything"}},
		{"bad policy", ConversionRule{SourceName: "a", ListPolicy: "Sample"}},
		{"bad hint", ConversionRule{SourceName: "a", OutputTypeHint: "Date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rule.Normalize(ListRaw)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestConversionRule_OutputKey(t *testing.T) {
	assert.Equal(t, "Name", ConversionRule{SourceName: "Name"}.OutputKey())
	assert.Equal(t, "title", ConversionRule{SourceName: "Name", OutputName: "title"}.OutputKey())
}

func TestDescribe(t *testing.T) {
	got := Describe([]ConversionRule{
		{SourceName: "Tags", OutputName: "tags", OutputTypeHint: TypeString, ListPolicy: ListRaw},
		{SourceName: "Name", ListPolicy: ListJoin},
		{SourceName: "Cover", OutputTypeHint: TypeURI, ListPolicy: ListEmap},
	})

	assert.Equal(t, []OptionInfo{
		{Name: "tags", Type: TypeString, IsList: true},
		{Name: "Name", Type: TypeUnknown, IsList: false},
		{Name: "Cover", Type: TypeURI, IsList: false},
	}, got)

	assert.Equal(t, []OptionInfo{}, Describe(nil))
}

func TestMarshalRules(t *testing.T) {
	s, err := MarshalRules(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	s, err = MarshalRules([]ConversionRule{{
		SourceName: "Title",
		OutputName: "title",
		ListPolicy: ListRaw,
		Target:     TargetContent,
		Fallback:   "n/a",
	}})
	require.NoError(t, err)

	var back []ConversionRule
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	require.Len(t, back, 1)
	assert.Equal(t, "Title", back[0].SourceName)
	assert.Equal(t, "title", back[0].OutputName)
	assert.Equal(t, "n/a", back[0].Fallback)
	assert.Contains(t, s, `"sourceName":"Title"`)
	assert.NotContains(t, s, "outputTypeHint")
}
