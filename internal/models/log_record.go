package models

import "time"

// LogRecord is one accepted access-log line. Pointer fields are nullable
// columns: a line may carry no user agent at all, and the classifier may
// not name a browser or OS for one it does carry.
type LogRecord struct {
	ID           int64     `json:"id"`
	IP           string    `json:"ip"`
	RequestTime  time.Time `json:"request_time"` // UTC, second precision
	URL          string    `json:"url"`
	UserAgent    *string   `json:"user_agent"`
	Browser      *string   `json:"browser"`
	OS           *string   `json:"os"`
	Architecture *string   `json:"architecture"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProcessedFile marks a log file as already ingested, keyed by the hash of
// its content so renamed copies are still recognized.
type ProcessedFile struct {
	ID       int64     `json:"id"`
	FileName string    `json:"file_name"`
	FileHash string    `json:"file_hash"`
	ParsedAt time.Time `json:"parsed_at"`
}

// TableRow is one line of the daily statistics table: total requests for
// the date plus the most popular URL and browser that day.
type TableRow struct {
	Date          string `json:"date"`
	CountRequests int64  `json:"countRequests"`
	URL           string `json:"url"`
	Browser       string `json:"browser"`
}

// IngestReport summarizes one ingestion run. Skipped is set when the file's
// content hash was already recorded and nothing was read.
type IngestReport struct {
	Accepted int  `json:"accepted"`
	Rejected int  `json:"rejected"`
	Skipped  bool `json:"skipped"`
}
