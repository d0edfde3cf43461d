// Package notion is the read-only Notion access used by the mapper: a
// throttled database query client plus helpers that walk query pagination.
// It never creates or updates pages.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client queries a Notion database for one page of results.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// QueryError reports a failed database query against the Notion API
// (network, auth or rate-limit failures). It is never retried here.
type QueryError struct {
	DatabaseID string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("notion: query database %s: %v", e.DatabaseID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// defaultRPS is Notion's documented average request rate per integration.
const defaultRPS = 3

// ClientOption configures the query client.
type ClientOption func(*notionClient)

// WithRateLimit sets how many database queries per second the client may
// issue. Zero or less disables throttling, which tests and fixtures rely on.
func WithRateLimit(rps float64) ClientOption {
	return func(c *notionClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

// notionClient issues database queries through notionapi, one limiter token
// per page request.
type notionClient struct {
	inner   *notionapi.Client
	limiter *rate.Limiter
}

// NewClient returns a read-only query client authenticated with an
// integration token. Page requests share one limiter, defaultRPS unless
// WithRateLimit says otherwise, so a paginated fetch stays under Notion's
// limit on its own.
func NewClient(token string, opts ...ClientOption) Client {
	c := &notionClient{
		inner:   notionapi.NewClient(notionapi.Token(token)),
		limiter: rate.NewLimiter(defaultRPS, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// throttle takes one limiter token before a page request.
func (c *notionClient) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return eris.Wrap(c.limiter.Wait(ctx), "notion: rate limit")
}

func (c *notionClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	resp, err := c.inner.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
	if err != nil {
		return nil, &QueryError{DatabaseID: dbID, Err: err}
	}
	return resp, nil
}
