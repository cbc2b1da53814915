package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akoreshkov/logstats/internal/ingest"
	"github.com/akoreshkov/logstats/internal/repository"
)

// UploadHandler accepts a log file over multipart form and runs it through
// the idempotent ingestion pipeline. Re-uploading the same content reports
// skipped=true with zero counts.
type UploadHandler struct {
	Repo      repository.LogRepository
	Classify  ingest.ClassifyFunc
	BatchSize int
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("logfile")
	if err != nil {
		http.Error(w, "No file uploaded or invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Ingestion streams from disk and hashes the whole file, so spool the
	// upload to a temp file first.
	tmp, err := os.CreateTemp("", "upload-*-"+filepath.Base(header.Filename))
	if err != nil {
		http.Error(w, "Failed to buffer upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		http.Error(w, "Failed to buffer upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	tmp.Close()

	report, err := ingest.File(tmp.Name(), h.Repo, h.Classify, h.BatchSize)
	if err != nil {
		http.Error(w, "Failed to ingest "+header.Filename+": "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
