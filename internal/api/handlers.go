package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

// clientPrefix is the magic payload-key prefix that routes a hybrid-scope
// parameter value to the client-only (view) role instead of the server
// (data) role (spec.md §4.4).
const clientPrefix = "__client__"

// Handlers holds the dependencies for ducksearch's HTTP handlers.
type Handlers struct {
	root     string
	executor *usecases.ExecuteReport
}

// NewHandlers constructs the API handlers.
func NewHandlers(root string, executor *usecases.ExecuteReport) *Handlers {
	return &Handlers{root: root, executor: executor}
}

// GetReport handles GET /report?report=<relative_path>&<param>=<value>...
// Every other query key becomes a payload entry for parameter binding;
// a `__client__<name>` key is passed through untouched so the executor's
// payload folding can apply spec.md's hybrid-scope routing rule. Repeated query keys become a
// list payload value; every value stays a raw query string otherwise, so
// a param declared bool/int still needs its declared type applied by the
// caller until this surface grows a typed-query-param contract.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	reportPath := r.URL.Query().Get("report")
	if reportPath == "" {
		writeError(w, "unexpected", "report query parameter is required")
		return
	}

	payload := make(map[string]any)
	for key, values := range r.URL.Query() {
		if key == "report" || len(values) == 0 {
			continue
		}
		if len(values) == 1 {
			payload[key] = values[0]
			continue
		}
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		payload[key] = list
	}

	result, err := h.executor.Execute(r.Context(), h.root, reportPath, payload)
	if err != nil {
		writeExecutionError(w, err)
		return
	}

	body := map[string]any{
		"ok":         true,
		"cache_root": h.root,
	}
	for k, v := range result.AsPayload(h.root) {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// writeExecutionError maps an execute_report failure onto the stable
// {code, message} shape, the way server/__init__.py's build_response does:
// a TaxonomyError surfaces its code and message, anything else collapses
// to a generic "unexpected" so internals never leak to the client.
func writeExecutionError(w http.ResponseWriter, err error) {
	var taxErr *entities.TaxonomyError
	if errors.As(err, &taxErr) {
		writeError(w, string(taxErr.Code), taxErr.Message)
		return
	}
	writeError(w, "unexpected", "request failed")
}

func writeError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": false,
		"error": entities.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
