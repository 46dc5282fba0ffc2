// localhire-matching-service
//
// Worker discovery and job marketplace engine. Exposes a REST API
// implementing:
//   - top/browse worker ranking with skill, location, date and rating filters
//   - job posting, browsing and featured listings
//   - applicant acceptance with open-slot bookkeeping
//   - review submission with transactional running-average ratings
//
// Publishes EVENT_JOB_POSTED / EVENT_JOB_ACCEPTED / EVENT_JOB_APPLIED /
// EVENT_REVIEW_SUBMITTED to Redis for downstream consumers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localhire/matching-service/internal/config"
	"localhire/matching-service/internal/db"
	"localhire/matching-service/internal/ranker"
	"localhire/matching-service/internal/repository"
	"localhire/matching-service/internal/service"
	"localhire/matching-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[matching-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[matching-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[matching-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[matching-service] Redis connected ✓")

	// ── Document store ───────────────────────────────────────────────────────
	var docs store.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		log.Println("[matching-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[matching-service] PostgreSQL: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("[matching-service] Schema: %v", err)
		}
		docs = pg
		log.Println("[matching-service] PostgreSQL connected ✓")
	case config.BackendRedis:
		docs = store.NewRedis(rdb)
		log.Println("[matching-service] Using Redis document store")
	}

	// ── Leaderboard ranker ───────────────────────────────────────────────────
	rk := ranker.New(repository.NewProfiles(docs), rdb, cfg.RankRefreshMinutes)
	if err := rk.Start(ctx); err != nil {
		log.Fatalf("[matching-service] Ranker: %v", err)
	}
	defer rk.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	svc := service.New(docs, rdb)
	h := service.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[matching-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[matching-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[matching-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[matching-service] Shutdown error: %v", err)
	}
	log.Println("[matching-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "matching-service",
		"version": version,
	})
}
