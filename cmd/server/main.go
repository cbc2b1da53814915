package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akoreshkov/logstats/internal/config"
	"github.com/akoreshkov/logstats/internal/csrf"
	"github.com/akoreshkov/logstats/internal/handlers"
	"github.com/akoreshkov/logstats/internal/ingest"
	"github.com/akoreshkov/logstats/internal/repository"
	"github.com/akoreshkov/logstats/internal/stats"
	"github.com/akoreshkov/logstats/internal/uaclass"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	var repo repository.LogRepository
	repo, err = repository.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer repo.Close()

	service := &stats.Service{Repo: repo}

	tmpl, err := template.ParseFiles(
		"web/templates/base.html",
		"web/templates/dashboard.html",
		"web/templates/table.html",
	)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(csrf.Protect("/api/"))

	dh := &handlers.DashboardHandler{Service: service, Repo: repo, Template: tmpl}
	th := &handlers.TableHandler{Service: service, Template: tmpl}
	ah := &handlers.StatsAPIHandler{Service: service}
	uh := &handlers.UploadHandler{Repo: repo, Classify: uaclass.Classify, BatchSize: cfg.BatchSize}
	r.Get("/", dh.ServeHTTP)
	r.Get("/logs/table", th.ServeHTTP)
	r.Get("/api/stats", ah.ServeHTTP)
	r.Post("/upload", uh.ServeHTTP)

	// Drop-directory ingestion
	if cfg.WatchDir != "" {
		stopWatch := make(chan struct{})
		go func() {
			if err := ingest.WatchDir(cfg.WatchDir, repo, uaclass.Classify, cfg.BatchSize, stopWatch); err != nil {
				log.Printf("watch: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			close(stopWatch)
			os.Exit(0)
		}()
	}

	log.Printf("Listening on %s", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, r); err != nil {
		log.Fatalf("server: %v", err)
	}
}
