package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/akoreshkov/logstats/internal/models"
	"github.com/akoreshkov/logstats/internal/repository"
	"github.com/akoreshkov/logstats/internal/stats"
)

// DashboardHandler renders the statistics page: the daily table, a
// requests-per-day chart and the top-3 browser share chart.
type DashboardHandler struct {
	Service  *stats.Service
	Repo     repository.LogRepository
	Template *template.Template
}

type DashboardPageData struct {
	PageID        string
	Error         string
	Filters       FormFilters
	Rows          []models.TableRow
	OSes          []string
	Architectures []string

	DatesJSON       template.JS
	CountsJSON      template.JS
	BrowserDataJSON template.JS
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	form := readFormFilters(r)
	data := DashboardPageData{
		PageID:          "dashboard",
		Filters:         form,
		DatesJSON:       "[]",
		CountsJSON:      "[]",
		BrowserDataJSON: "{}",
	}
	var err error
	if data.OSes, err = h.Repo.DistinctValues("os"); err != nil {
		log.Printf("dashboard: list os values: %v", err)
	}
	if data.Architectures, err = h.Repo.DistinctValues("architecture"); err != nil {
		log.Printf("dashboard: list architecture values: %v", err)
	}

	filters, err := toRepoFilters(form)
	if err != nil {
		data.Error = err.Error()
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, data)
		return
	}

	rows, err := h.Service.DailyStats(filters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.Rows = rows

	dates := make([]string, 0, len(rows))
	counts := make([]int64, 0, len(rows))
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
		counts = append(counts, row.CountRequests)
		totals[row.Date] = row.CountRequests
	}

	top3, err := h.Service.TopBrowsers(filters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	share, err := h.Service.BrowserShare(filters, top3, totals)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Chart 2 wants each browser's percentages aligned with the date axis.
	browserSeries := make(map[string][]float64, len(top3))
	for _, browser := range top3 {
		points := make([]float64, 0, len(dates))
		for _, date := range dates {
			points = append(points, share[browser][date])
		}
		browserSeries[browser] = points
	}

	j1, _ := json.Marshal(dates)
	j2, _ := json.Marshal(counts)
	j3, _ := json.Marshal(browserSeries)
	data.DatesJSON = template.JS(j1)
	data.CountsJSON = template.JS(j2)
	data.BrowserDataJSON = template.JS(j3)

	h.render(w, data)
}

func (h *DashboardHandler) render(w http.ResponseWriter, data DashboardPageData) {
	if err := h.Template.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
