package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/akoreshkov/logstats/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ip TEXT,
	request_time TEXT NOT NULL,
	url TEXT,
	user_agent TEXT,
	browser TEXT,
	os TEXT,
	architecture TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_logs_request_time ON logs(request_time);
CREATE INDEX IF NOT EXISTS idx_logs_os ON logs(os);
CREATE INDEX IF NOT EXISTS idx_logs_architecture ON logs(architecture);
CREATE INDEX IF NOT EXISTS idx_logs_browser ON logs(browser);
CREATE INDEX IF NOT EXISTS idx_logs_url ON logs(url);

CREATE TABLE IF NOT EXISTS processed_log_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name TEXT NOT NULL,
	file_hash TEXT NOT NULL UNIQUE,
	parsed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_log_files_name ON processed_log_files(file_name);
`

// timeFormat is how request_time is stored; SQLite's date functions
// understand it directly, so DATE(request_time) buckets on UTC days.
const timeFormat = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) InsertBatch(records []models.LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT INTO logs (ip, request_time, url, user_agent, browser, os, architecture) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, rec := range records {
		_, err := stmt.Exec(rec.IP, rec.RequestTime.UTC().Format(timeFormat), rec.URL, rec.UserAgent, rec.Browser, rec.OS, rec.Architecture)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// filterClauses renders Filters as SQL predicates. Each present field
// becomes one explicit condition; absent fields contribute nothing.
func filterClauses(f Filters) ([]string, []interface{}) {
	var where []string
	var args []interface{}
	if f.From != nil {
		where = append(where, "DATE(request_time) >= ?")
		args = append(args, f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		where = append(where, "DATE(request_time) <= ?")
		args = append(args, f.To.Format("2006-01-02"))
	}
	if f.OS != "" {
		where = append(where, "os = ?")
		args = append(args, f.OS)
	}
	if f.Architecture != "" {
		where = append(where, "architecture = ?")
		args = append(args, f.Architecture)
	}
	return where, args
}

func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func (r *SQLiteRepository) CountByDate(f Filters) ([]DateCount, error) {
	clauses, args := filterClauses(f)
	rows, err := r.db.Query(`
		SELECT DATE(request_time) AS date, COUNT(*) AS total_requests
		FROM logs`+whereSQL(clauses)+`
		GROUP BY date ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []DateCount
	for rows.Next() {
		var dc DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// topValueByDate picks the most frequent value of column per day with a
// ROW_NUMBER window. Ties break on the value itself ascending, so the
// result is deterministic across the table and chart paths.
func (r *SQLiteRepository) topValueByDate(column string, f Filters) (map[string]string, error) {
	clauses, args := filterClauses(f)
	clauses = append([]string{column + " IS NOT NULL"}, clauses...)
	rows, err := r.db.Query(`
		SELECT date, `+column+` FROM (
			SELECT DATE(request_time) AS date, `+column+`,
			       ROW_NUMBER() OVER (
			           PARTITION BY DATE(request_time)
			           ORDER BY COUNT(*) DESC, `+column+` ASC
			       ) AS rn
			FROM logs`+whereSQL(clauses)+`
			GROUP BY date, `+column+`
		) WHERE rn = 1`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make(map[string]string)
	for rows.Next() {
		var date, value string
		if err := rows.Scan(&date, &value); err != nil {
			return nil, err
		}
		top[date] = value
	}
	return top, rows.Err()
}

func (r *SQLiteRepository) TopURLByDate(f Filters) (map[string]string, error) {
	return r.topValueByDate("url", f)
}

func (r *SQLiteRepository) TopBrowserByDate(f Filters) (map[string]string, error) {
	return r.topValueByDate("browser", f)
}

func (r *SQLiteRepository) TopBrowsers(f Filters, limit int) ([]BrowserCount, error) {
	clauses, args := filterClauses(f)
	clauses = append([]string{"browser IS NOT NULL"}, clauses...)
	args = append(args, limit)
	rows, err := r.db.Query(`
		SELECT browser, COUNT(*) AS count
		FROM logs`+whereSQL(clauses)+`
		GROUP BY browser ORDER BY count DESC, browser ASC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []BrowserCount
	for rows.Next() {
		var bc BrowserCount
		if err := rows.Scan(&bc.Browser, &bc.Count); err != nil {
			return nil, err
		}
		top = append(top, bc)
	}
	return top, rows.Err()
}

func (r *SQLiteRepository) BrowserCountsByDate(f Filters, browser string) (map[string]int64, error) {
	clauses, args := filterClauses(f)
	clauses = append([]string{"browser = ?"}, clauses...)
	args = append([]interface{}{browser}, args...)
	rows, err := r.db.Query(`
		SELECT DATE(request_time) AS date, COUNT(*) AS count
		FROM logs`+whereSQL(clauses)+`
		GROUP BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var date string
		var count int64
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		counts[date] = count
	}
	return counts, rows.Err()
}

var distinctColumns = map[string]bool{"os": true, "architecture": true}

func (r *SQLiteRepository) DistinctValues(column string) ([]string, error) {
	if !distinctColumns[column] {
		return nil, fmt.Errorf("column %q not allowed", column)
	}
	rows, err := r.db.Query(`SELECT DISTINCT ` + column + ` FROM logs WHERE ` + column + ` IS NOT NULL ORDER BY ` + column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *SQLiteRepository) HasProcessedFile(hash string) (bool, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM processed_log_files WHERE file_hash = ?`, hash).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) MarkFileProcessed(pf models.ProcessedFile) error {
	_, err := r.db.Exec(`INSERT INTO processed_log_files (file_name, file_hash, parsed_at) VALUES (?, ?, ?)`,
		pf.FileName, pf.FileHash, pf.ParsedAt.UTC().Format(timeFormat))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateFile
	}
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
