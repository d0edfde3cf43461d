// Package api serves the flattening operations over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/notion-mapper/internal/flatten"
	"github.com/sells-group/notion-mapper/internal/model"
	"github.com/sells-group/notion-mapper/pkg/emap"
)

// Options configures the router.
type Options struct {
	// UseEmap is the response encoding when a request omits useEmap.
	UseEmap bool
	// AllowedOrigins feeds the CORS policy. Empty allows any origin.
	AllowedOrigins []string
}

type handler struct {
	svc     *flatten.Service
	useEmap bool
}

// NewRouter builds the HTTP handler for svc.
func NewRouter(svc *flatten.Service, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{svc: svc, useEmap: opts.UseEmap}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/databases/{databaseID}", h.getDatabase)
		r.Get("/schemas/{databaseID}", h.getSchemas)
		r.Get("/schemas/{schemaID}/rulesets/{code}/databases/{databaseID}", h.getWithRuleSet)
	})

	return r
}

// getDatabase flattens a database with the rules given in ?keys.
func (h *handler) getDatabase(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	raw := q.Get("keys")
	if raw == "" {
		writeError(w, r, eris.Wrap(model.ErrMalformedInput, "keys is required"))
		return
	}
	rules, mode, err := flatten.ParseRules(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	useEmap, opts, err := h.fetchParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.svc.FetchFlattened(r.Context(), chi.URLParam(r, "databaseID"), rules, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respond(w, r, useEmap, flatten.Shape(mode, rules, records))
}

// getSchemas lists the rule-sets defined in a schema database.
func (h *handler) getSchemas(w http.ResponseWriter, r *http.Request) {
	useEmap, err := boolParam(r, "useEmap", h.useEmap)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sets, err := h.svc.DiscoverRuleSets(r.Context(), chi.URLParam(r, "databaseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]ruleSetView, 0, len(sets))
	for i := range sets {
		v, err := newRuleSetView(&sets[i])
		if err != nil {
			writeError(w, r, err)
			return
		}
		views = append(views, v)
	}

	h.respond(w, r, useEmap, views)
}

// getWithRuleSet flattens a database with a rule-set from a schema database.
func (h *handler) getWithRuleSet(w http.ResponseWriter, r *http.Request) {
	useEmap, opts, err := h.fetchParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rs, records, err := h.svc.FetchWithRuleSet(r.Context(),
		chi.URLParam(r, "schemaID"),
		chi.URLParam(r, "code"),
		chi.URLParam(r, "databaseID"),
		opts,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := newRuleSetView(rs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respond(w, r, useEmap, ruleSetResult{
		RuleSet: view,
		Option:  model.Describe(rs.ConversionOptions),
		Data:    flatten.Shape(flatten.ModeSimple, nil, records),
	})
}

// fetchParams parses the query parameters shared by the fetch routes.
func (h *handler) fetchParams(r *http.Request) (bool, flatten.FetchOptions, error) {
	var opts flatten.FetchOptions

	useEmap, err := boolParam(r, "useEmap", h.useEmap)
	if err != nil {
		return false, opts, err
	}
	if opts.IncludeID, err = boolParam(r, "includeId", false); err != nil {
		return false, opts, err
	}
	q := r.URL.Query()
	if opts.Sorts, err = flatten.ParseSorts(q.Get("sorts")); err != nil {
		return false, opts, err
	}
	if opts.Filter, err = flatten.ParseFilter(q.Get("filter")); err != nil {
		return false, opts, err
	}
	return useEmap, opts, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, eris.Wrapf(model.ErrMalformedInput, "%s: %q is not a boolean", name, s)
	}
	return b, nil
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, useEmap bool, body any) {
	if !useEmap {
		writeJSON(w, http.StatusOK, body)
		return
	}

	s, err := emap.Encode(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(s)); err != nil {
		zap.L().Debug("api: write response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}
