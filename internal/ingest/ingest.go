package ingest

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/akoreshkov/logstats/internal/models"
	"github.com/akoreshkov/logstats/internal/parser"
	"github.com/akoreshkov/logstats/internal/repository"
)

// DefaultBatchSize is how many records accumulate before a bulk insert.
const DefaultBatchSize = 1000

// ClassifyFunc derives browser and OS names from a raw user-agent string.
type ClassifyFunc func(ua *string) (browser, os *string)

// File ingests one access-log file. Lines stream through the parser and
// classifier into batches; a failed line or a failed batch is counted as
// rejected and the stream keeps going. Only file-access problems return an
// error.
//
// Before reading, the file's md5 content hash is checked against the
// processed-file markers; a known hash skips the whole run. The marker for
// this run is written only after the last batch, so an interrupted run is
// re-ingested rather than silently skipped.
func File(path string, repo repository.LogRepository, classify ClassifyFunc, batchSize int) (models.IngestReport, error) {
	var report models.IngestReport
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hash, err := contentHash(f)
	if err != nil {
		return report, fmt.Errorf("hash %s: %w", path, err)
	}
	seen, err := repo.HasProcessedFile(hash)
	if err != nil {
		return report, fmt.Errorf("dedup check: %w", err)
	}
	if seen {
		report.Skipped = true
		return report, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return report, fmt.Errorf("rewind %s: %w", path, err)
	}

	batch := make([]models.LogRecord, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := repo.InsertBatch(batch); err != nil {
			report.Rejected += len(batch)
			log.Printf("ingest: insert batch of %d: %v", len(batch), err)
		} else {
			report.Accepted += len(batch)
		}
		batch = batch[:0]
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, ok := parser.Parse(line)
		if !ok {
			report.Rejected++
			continue
		}
		rec.Browser, rec.OS = classify(rec.UserAgent)
		batch = append(batch, *rec)
		if len(batch) >= batchSize {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read %s: %w", path, err)
	}
	flush()

	marker := models.ProcessedFile{
		FileName: filepath.Base(path),
		FileHash: hash,
		ParsedAt: time.Now(),
	}
	if err := repo.MarkFileProcessed(marker); err != nil {
		return report, fmt.Errorf("mark processed: %w", err)
	}
	return report, nil
}

func contentHash(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
