package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/mind-engage/growthchart/internal/api/http"
	"github.com/mind-engage/growthchart/internal/config"
	"github.com/mind-engage/growthchart/internal/db"
	"github.com/mind-engage/growthchart/internal/growth"
	"github.com/mind-engage/growthchart/internal/metrics"
	syncx "github.com/mind-engage/growthchart/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seedCharts(ctx, cfg); err != nil {
			log.Fatalf("seed charts: %v", err)
		}
		return
	}

	// --- Reference charts ---
	classifier, err := newClassifier(ctx, cfg)
	if err != nil {
		log.Fatalf("reference charts (%s): %v", cfg.RefSource, err)
	}
	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
		classifier = m.Wrap(classifier)
	}

	// --- DB ---
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := growth.NewSQLStore(dbh, classifier)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	api.Mount(r, store, classifier, syncx.NewEventRepo(dbh))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s (mode=%s, db=%s, charts=%s lazy=%t)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.RefSource, cfg.RefLazy)
	log.Fatal(s.ListenAndServe())
}
