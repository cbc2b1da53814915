// Command parselogs ingests one access-log file into the database and
// prints a summary. Re-running it on a file that was already ingested is a
// no-op thanks to the content-hash markers.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/akoreshkov/logstats/internal/config"
	"github.com/akoreshkov/logstats/internal/ingest"
	"github.com/akoreshkov/logstats/internal/repository"
	"github.com/akoreshkov/logstats/internal/uaclass"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logPath := cfg.LogPath
	if flag.NArg() > 0 {
		logPath = flag.Arg(0)
	}
	if logPath == "" {
		log.Fatal("no log file: set log_path in config or pass a path argument")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	repo, err := repository.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer repo.Close()

	log.Printf("Parsing %s", logPath)
	report, err := ingest.File(logPath, repo, uaclass.Classify, cfg.BatchSize)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}
	if report.Skipped {
		log.Printf("Skipped: %s was already ingested", logPath)
		return
	}
	log.Printf("Accepted: %d", report.Accepted)
	log.Printf("Rejected: %d", report.Rejected)
}
