package main

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/mock"
)

// mockNotionClient implements notion.Client for testing.
type mockNotionClient struct {
	mock.Mock
}

func (m *mockNotionClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func titleProp(s string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{
		Type:  notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{{PlainText: s}},
	}
}

func tagsProp(names ...string) *notionapi.MultiSelectProperty {
	opts := make([]notionapi.Option, len(names))
	for i, n := range names {
		opts[i] = notionapi.Option{Name: n}
	}
	return &notionapi.MultiSelectProperty{Type: notionapi.PropertyTypeMultiSelect, MultiSelect: opts}
}

func itemsPage() *notionapi.DatabaseQueryResponse {
	return &notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{{
			ID: "p1",
			Properties: notionapi.Properties{
				"Name": titleProp("Widget"),
				"Tags": tagsProp("a", "b"),
			},
		}},
	}
}
