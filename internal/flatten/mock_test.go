package flatten

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

func textProp(s string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{
		Type:     notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{{PlainText: s}},
	}
}

func selectProp(s string) *notionapi.SelectProperty {
	return &notionapi.SelectProperty{
		Type:   notionapi.PropertyTypeSelect,
		Select: notionapi.Option{Name: s},
	}
}

func numberProp(n float64) *notionapi.NumberProperty {
	return &notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: n}
}

// schemaRow builds a schema database page with every discovery column set.
func schemaRow(id, category, kind, name, data, notionName, dvName string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(id),
		Properties: notionapi.Properties{
			"name":       titleProp(name),
			"data":       textProp(data),
			"notionName": textProp(notionName),
			"dvName":     textProp(dvName),
			"dvType":     selectProp(""),
			"listPolicy": selectProp(""),
			"target":     selectProp(""),
			"fallback":   textProp(""),
			"type":       selectProp(kind),
			"category":   selectProp(category),
		},
	}
}
