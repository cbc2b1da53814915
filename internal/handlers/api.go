package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akoreshkov/logstats/internal/stats"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatsAPIHandler exposes the daily table as JSON for non-HTML consumers.
type StatsAPIHandler struct {
	Service *stats.Service
}

func (h *StatsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters, err := toRepoFilters(readFormFilters(r))
	if err != nil {
		var vErr *stats.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{
				Error: errorBody{Code: "VALIDATION_FAILED", Message: vErr.Message},
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error: errorBody{Code: "INTERNAL", Message: err.Error()},
		})
		return
	}

	rows, err := h.Service.DailyStats(filters)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error: errorBody{Code: "INTERNAL", Message: err.Error()},
		})
		return
	}

	q := r.URL.Query()
	direction := q.Get("direction")
	if direction == "" {
		direction = "asc"
	}
	rows = stats.SortRows(rows, q.Get("sort"), direction)

	writeJSON(w, http.StatusOK, dataEnvelope{Data: rows})
}
