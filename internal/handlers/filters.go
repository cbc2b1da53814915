package handlers

import (
	"net/http"

	"github.com/akoreshkov/logstats/internal/repository"
	"github.com/akoreshkov/logstats/internal/stats"
)

// FormFilters echoes the query parameters back into the filter form.
type FormFilters struct {
	From         string
	To           string
	OS           string
	Architecture string
}

func readFormFilters(r *http.Request) FormFilters {
	q := r.URL.Query()
	return FormFilters{
		From:         q.Get("from"),
		To:           q.Get("to"),
		OS:           q.Get("os"),
		Architecture: q.Get("architecture"),
	}
}

// toRepoFilters validates the date range and builds the repository filter
// set. The returned error is a *stats.ValidationError.
func toRepoFilters(f FormFilters) (repository.Filters, error) {
	from, to, err := stats.ParseDateRange(f.From, f.To)
	if err != nil {
		return repository.Filters{}, err
	}
	return repository.Filters{
		From:         from,
		To:           to,
		OS:           f.OS,
		Architecture: f.Architecture,
	}, nil
}
