package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/mapper"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/registry"
	"github.com/sells-group/notion-mapper/pkg/notion"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps an engine error to an HTTP status.
func statusFor(err error) int {
	var (
		qe  *notion.QueryError
		re  *registry.RowError
		mpe *mapper.MissingPropertyError
	)
	switch {
	case errors.As(err, &qe):
		return http.StatusBadGateway
	case errors.Is(err, flatten.ErrRuleSetNotFound):
		return http.StatusNotFound
	case errors.As(err, &re), errors.As(err, &mpe):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrMalformedInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// message is the client-facing text for err. A missing property reports
// its own message so callers see the available names.
func message(err error) string {
	var mpe *mapper.MissingPropertyError
	if errors.As(err, &mpe) {
		return mpe.Error()
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed", fields...)
	} else {
		zap.L().Warn("api: request rejected", fields...)
	}
	writeJSON(w, status, errorBody{Error: message(err)})
}
