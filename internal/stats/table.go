package stats

import (
	"sort"

	"github.com/akoreshkov/logstats/internal/models"
)

// Keys the table may be sorted on. Anything else leaves the rows in their
// original date-ascending order.
var allowedSortKeys = map[string]bool{
	"date":          true,
	"countRequests": true,
	"url":           true,
	"browser":       true,
}

// SortRows orders table rows by the requested key. The sort is stable, so
// equal values keep their date-ascending relative order.
func SortRows(rows []models.TableRow, key, direction string) []models.TableRow {
	if !allowedSortKeys[key] {
		return rows
	}

	less := func(a, b models.TableRow) bool {
		switch key {
		case "countRequests":
			return a.CountRequests < b.CountRequests
		case "url":
			return a.URL < b.URL
		case "browser":
			return a.Browser < b.Browser
		default:
			return a.Date < b.Date
		}
	}

	sorted := make([]models.TableRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if direction == "desc" {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}
