package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// QueryAll fetches all pages from a Notion database, following cursors until
// the API reports no more results. Pages are requested one at a time and
// returned in arrival order. Any failed page fails the whole call; no partial
// result is returned.
//
// Only Filter, Sorts and PageSize are read from query. A nil Filter is left
// out of the request entirely.
func QueryAll(ctx context.Context, c Client, dbID string, query *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := newRequest(query, "")
	for page := 1; ; page++ {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		all = append(all, resp.Results...)
		zap.L().Debug("notion: fetched page",
			zap.String("database_id", dbID),
			zap.Int("page", page),
			zap.Int("results", len(resp.Results)),
			zap.Bool("has_more", resp.HasMore),
		)

		if !resp.HasMore {
			break
		}
		req = newRequest(query, resp.NextCursor)
	}

	return all, nil
}

// QueryPage issues a single query and returns only its first page of results.
func QueryPage(ctx context.Context, c Client, dbID string, query *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	resp, err := c.QueryDatabase(ctx, dbID, newRequest(query, ""))
	if err != nil {
		return nil, eris.Wrap(err, "notion: query page")
	}
	return resp.Results, nil
}

func newRequest(query *notionapi.DatabaseQueryRequest, cursor notionapi.Cursor) *notionapi.DatabaseQueryRequest {
	req := &notionapi.DatabaseQueryRequest{StartCursor: cursor}
	if query != nil {
		req.Filter = query.Filter
		req.Sorts = query.Sorts
		req.PageSize = query.PageSize
	}
	return req
}
