package repository

import (
	"errors"
	"time"

	"github.com/akoreshkov/logstats/internal/models"
)

// ErrDuplicateFile is returned when a processed-file marker with the same
// content hash already exists.
var ErrDuplicateFile = errors.New("log file already processed")

// Filters narrows every read query. All fields are optional and combine
// with AND. From/To bound the calendar date of request_time, inclusive.
type Filters struct {
	From         *time.Time
	To           *time.Time
	OS           string
	Architecture string
}

type DateCount struct {
	Date  string
	Count int64
}

type BrowserCount struct {
	Browser string
	Count   int64
}

type LogRepository interface {
	// InsertBatch persists a batch of records in one transaction.
	InsertBatch(records []models.LogRecord) error

	// CountByDate returns total request counts per calendar date,
	// ascending by date.
	CountByDate(f Filters) ([]DateCount, error)

	// TopURLByDate and TopBrowserByDate map each date to that day's most
	// requested value. Ties resolve to the lexicographically smallest.
	TopURLByDate(f Filters) (map[string]string, error)
	TopBrowserByDate(f Filters) (map[string]string, error)

	// TopBrowsers returns up to limit browsers by total request count,
	// descending, browser name ascending on equal counts.
	TopBrowsers(f Filters, limit int) ([]BrowserCount, error)

	// BrowserCountsByDate maps date to request count for one browser.
	BrowserCountsByDate(f Filters, browser string) (map[string]int64, error)

	// DistinctValues lists the non-null values of an allowed column
	// (os or architecture), for filter dropdowns.
	DistinctValues(column string) ([]string, error)

	// HasProcessedFile reports whether a file with this content hash was
	// already ingested. MarkFileProcessed records the marker and returns
	// ErrDuplicateFile if the hash is already present.
	HasProcessedFile(hash string) (bool, error)
	MarkFileProcessed(pf models.ProcessedFile) error

	Close() error
}
