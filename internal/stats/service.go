// Package stats computes the daily rollups, top-browser rankings and
// share-of-traffic series served by the query interface. All reads go
// through the repository; nothing here mutates state.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/akoreshkov/logstats/internal/models"
	"github.com/akoreshkov/logstats/internal/repository"
)

const (
	dateLayout   = "2006-01-02"
	maxRangeDays = 365
	topBrowsersK = 3
)

// ValidationError reports an invalid query parameter with a message fit
// for the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Service struct {
	Repo repository.LogRepository
}

// ParseDateRange validates the from/to query values and converts them into
// filter bounds. Both empty skips validation entirely; a present value
// must be a valid date, to must not precede from, and the span must not
// exceed a year.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	if from == "" && to == "" {
		return nil, nil, nil
	}

	var fromT, toT *time.Time
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, nil, &ValidationError{Field: "date", Message: "invalid date format"}
		}
		fromT = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, nil, &ValidationError{Field: "date", Message: "invalid date format"}
		}
		toT = &t
	}

	if fromT != nil && toT != nil {
		if toT.Before(*fromT) {
			return nil, nil, &ValidationError{Field: "date", Message: `the "to" date cannot precede the "from" date`}
		}
		if toT.Sub(*fromT) > maxRangeDays*24*time.Hour {
			return nil, nil, &ValidationError{Field: "date", Message: "the date range cannot exceed 1 year"}
		}
	}
	return fromT, toT, nil
}

// DailyStats builds the statistics table: one row per date in the filtered
// set, with that day's request count and most popular URL and browser.
// Rows come back ascending by date; a day with no classified browser (or,
// in a degenerate filter, no URL) leaves that cell empty.
func (s *Service) DailyStats(f repository.Filters) ([]models.TableRow, error) {
	counts, err := s.Repo.CountByDate(f)
	if err != nil {
		return nil, fmt.Errorf("count by date: %w", err)
	}
	topURLs, err := s.Repo.TopURLByDate(f)
	if err != nil {
		return nil, fmt.Errorf("top url by date: %w", err)
	}
	topBrowsers, err := s.Repo.TopBrowserByDate(f)
	if err != nil {
		return nil, fmt.Errorf("top browser by date: %w", err)
	}

	rows := make([]models.TableRow, 0, len(counts))
	for _, dc := range counts {
		rows = append(rows, models.TableRow{
			Date:          dc.Date,
			CountRequests: dc.Count,
			URL:           topURLs[dc.Date],
			Browser:       topBrowsers[dc.Date],
		})
	}
	return rows, nil
}

// TopBrowsers returns the labels of the three most used browsers within
// the filtered set, highest count first, name ascending on ties.
func (s *Service) TopBrowsers(f repository.Filters) ([]string, error) {
	counts, err := s.Repo.TopBrowsers(f, topBrowsersK)
	if err != nil {
		return nil, fmt.Errorf("top browsers: %w", err)
	}
	browsers := make([]string, 0, len(counts))
	for _, bc := range counts {
		browsers = append(browsers, bc.Browser)
	}
	return browsers, nil
}

// BrowserShare maps each given browser to its per-day percentage of the
// filtered traffic, rounded to one decimal place. Dates the browser never
// appeared on, and dates with a zero total, both yield 0.
func (s *Service) BrowserShare(f repository.Filters, browsers []string, totalsByDate map[string]int64) (map[string]map[string]float64, error) {
	share := make(map[string]map[string]float64, len(browsers))
	for _, browser := range browsers {
		counts, err := s.Repo.BrowserCountsByDate(f, browser)
		if err != nil {
			return nil, fmt.Errorf("browser counts for %s: %w", browser, err)
		}
		percentages := make(map[string]float64, len(totalsByDate))
		for date, total := range totalsByDate {
			if total > 0 {
				percentages[date] = math.Round(float64(counts[date])/float64(total)*1000) / 10
			} else {
				percentages[date] = 0
			}
		}
		share[browser] = percentages
	}
	return share, nil
}
