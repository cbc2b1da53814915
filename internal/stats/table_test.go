package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akoreshkov/logstats/internal/models"
)

func sampleRows() []models.TableRow {
	return []models.TableRow{
		{Date: "2024-01-01", CountRequests: 5, URL: "/b", Browser: "Firefox"},
		{Date: "2024-01-02", CountRequests: 9, URL: "/a", Browser: "Chrome"},
		{Date: "2024-01-03", CountRequests: 5, URL: "/c", Browser: "Chrome"},
	}
}

func TestSortRows_UnknownKeyKeepsOrder(t *testing.T) {
	rows := sampleRows()
	assert.Equal(t, rows, SortRows(rows, "", "asc"))
	assert.Equal(t, rows, SortRows(rows, "ip", "desc"))
	assert.Equal(t, rows, SortRows(rows, "DATE", "asc"))
}

func TestSortRows_ByCount(t *testing.T) {
	rows := SortRows(sampleRows(), "countRequests", "asc")
	assert.Equal(t, []string{"2024-01-01", "2024-01-03", "2024-01-02"}, dates(rows))

	rows = SortRows(sampleRows(), "countRequests", "desc")
	assert.Equal(t, []string{"2024-01-02", "2024-01-01", "2024-01-03"}, dates(rows))
}

func TestSortRows_ByStringKeys(t *testing.T) {
	rows := SortRows(sampleRows(), "url", "asc")
	assert.Equal(t, []string{"2024-01-02", "2024-01-01", "2024-01-03"}, dates(rows))

	rows = SortRows(sampleRows(), "browser", "desc")
	assert.Equal(t, "Firefox", rows[0].Browser)
}

func TestSortRows_StableOnTies(t *testing.T) {
	// Both asc and desc keep date order between the two count=5 rows.
	rows := SortRows(sampleRows(), "countRequests", "asc")
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "2024-01-03", rows[1].Date)

	rows = SortRows(sampleRows(), "countRequests", "desc")
	assert.Equal(t, "2024-01-01", rows[1].Date)
	assert.Equal(t, "2024-01-03", rows[2].Date)
}

func TestSortRows_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, "countRequests", "desc")
	assert.Equal(t, sampleRows(), rows)
}

func dates(rows []models.TableRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Date
	}
	return out
}
