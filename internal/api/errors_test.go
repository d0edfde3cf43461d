package api

import (
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/mapper"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/internal/property"
	"github.com/sells-group/notion-mapper/internal/registry"
	"github.com/sells-group/notion-mapper/pkg/notion"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed", eris.Wrap(model.ErrMalformedInput, "keys"), http.StatusBadRequest},
		{"missing property", eris.Wrap(&mapper.MissingPropertyError{Name: "A"}, "page"), http.StatusInternalServerError},
		{"unsupported kind", eris.Wrap(property.ErrUnsupportedKind, "kind"), http.StatusInternalServerError},
		{"upstream", eris.Wrap(&notion.QueryError{DatabaseID: "db", Err: assert.AnError}, "fetch"), http.StatusBadGateway},
		{"rule set not found", eris.Wrap(flatten.ErrRuleSetNotFound, "code"), http.StatusNotFound},
		{"bad schema row", &registry.RowError{Index: 0, Err: eris.Wrap(model.ErrMalformedInput, "listPolicy")}, http.StatusInternalServerError},
		{"other", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestMessage_MissingPropertyUnwrapped(t *testing.T) {
	err := eris.Wrap(&mapper.MissingPropertyError{
		Name:      "Status",
		Requested: []string{"Status"},
		Available: []string{"Name", "Tags"},
	}, "mapper: page p1")
	assert.Equal(t, "Status does not exist. requestKeys=Status. existKeys=Name,Tags", message(err))
}
