package handlers

import (
	"html/template"
	"net/http"

	"github.com/akoreshkov/logstats/internal/stats"
)

// TableHandler serves the sortable table fragment the dashboard swaps in
// over ajax when a column header is clicked.
type TableHandler struct {
	Service  *stats.Service
	Template *template.Template
}

func (h *TableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters, err := toRepoFilters(readFormFilters(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	rows, err := h.Service.DailyStats(filters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	direction := q.Get("direction")
	if direction == "" {
		direction = "asc"
	}
	rows = stats.SortRows(rows, q.Get("sort"), direction)

	if err := h.Template.ExecuteTemplate(w, "table", rows); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
