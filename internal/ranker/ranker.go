// Package ranker keeps a cached worker leaderboard warm in Redis so the
// "top rated employees" card does not re-rank the whole user collection on
// every request. A cron job recomputes the global ranking periodically;
// per-viewer exclusion stays a read-time concern.
package ranker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"localhire/matching-service/internal/match"
	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/repository"
)

const (
	// cacheKey holds the JSON-encoded ranked slice.
	cacheKey = "cache:top_workers"

	// cacheSize is deliberately larger than the card the UI shows, so
	// read-time exclusion of the viewer still leaves enough entries.
	cacheSize = 10
)

// Ranker wraps robfig/cron and manages the leaderboard refresh loop.
type Ranker struct {
	cron     *cron.Cron
	profiles *repository.Profiles
	rdb      *redis.Client
	spec     string // cron spec, e.g. "@every 15m"
	ttl      time.Duration
}

// New creates a Ranker that refreshes every intervalMinutes minutes. The
// cache entry lives twice the interval so a missed tick degrades to a
// fallback fetch, never to stale-forever data.
func New(profiles *repository.Profiles, rdb *redis.Client, intervalMinutes int) *Ranker {
	return &Ranker{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		profiles: profiles,
		rdb:      rdb,
		spec:     fmt.Sprintf("@every %dm", intervalMinutes),
		ttl:      time.Duration(2*intervalMinutes) * time.Minute,
	}
}

// Start registers the refresh job and starts the scheduler. Also runs one
// refresh immediately so the card is warm without waiting for the first
// tick.
func (r *Ranker) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	log.Printf("[ranker] Cron started — spec: %s", r.spec)

	go r.refresh(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Ranker) Stop() {
	r.cron.Stop()
	log.Println("[ranker] Cron stopped")
}

// refresh recomputes the global ranking and writes it to the cache.
func (r *Ranker) refresh(ctx context.Context) {
	profiles, err := r.profiles.All(ctx)
	if err != nil {
		log.Printf("[ranker] refresh fetch error: %v", err)
		return
	}

	ranked := rank(profiles)
	doc, err := json.Marshal(ranked)
	if err != nil {
		log.Printf("[ranker] refresh encode error: %v", err)
		return
	}

	if err := r.rdb.Set(ctx, cacheKey, doc, r.ttl).Err(); err != nil {
		log.Printf("[ranker] refresh cache write error: %v", err)
		return
	}
	log.Printf("[ranker] Leaderboard refreshed — %d of %d profiles cached", len(ranked), len(profiles))
}

// rank computes the global leaderboard slice that goes into the cache.
// No viewer is excluded here; exclusion happens at read time.
func rank(profiles []model.WorkerProfile) []model.WorkerProfile {
	return match.RankWorkers(profiles, "", model.SearchCriteria{}, cacheSize)
}

// CachedTop reads the cached leaderboard. A cache miss returns an empty
// slice and no error; callers fall back to a full fetch.
func CachedTop(ctx context.Context, rdb *redis.Client) ([]model.WorkerProfile, error) {
	doc, err := rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard cache: %w", err)
	}
	return decodeLeaderboard(doc)
}

// decodeLeaderboard unpacks a cached leaderboard blob.
func decodeLeaderboard(doc []byte) ([]model.WorkerProfile, error) {
	var ranked []model.WorkerProfile
	if err := json.Unmarshal(doc, &ranked); err != nil {
		return nil, fmt.Errorf("decode leaderboard cache: %w", err)
	}
	return ranked, nil
}
