// Package service wires the matching core together for the Gateway. It
// contains no transport concerns itself — handler.go maps HTTP onto it —
// and no business rules of its own: it fetches snapshots through the
// repositories and delegates to the pure engines and the mutating
// services.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"localhire/matching-service/internal/dates"
	"localhire/matching-service/internal/jobs"
	"localhire/matching-service/internal/match"
	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/ranker"
	"localhire/matching-service/internal/repository"
	"localhire/matching-service/internal/review"
	"localhire/matching-service/internal/store"
)

// topWorkersLimit is the size of the "top rated employees" card.
const topWorkersLimit = 3

// featuredJobsLimit is the size of the "jobs available" card.
const featuredJobsLimit = 3

// Service encapsulates every operation the Gateway calls.
type Service struct {
	profiles *repository.Profiles
	jobsRepo *repository.Jobs
	reviews  *review.Aggregator
	hiring   *jobs.Service
	rdb      *redis.Client // optional leaderboard cache, may be nil
}

// New returns a configured Service over the given store. rdb may be nil;
// the leaderboard cache and event publishing are then skipped.
func New(s store.Store, rdb *redis.Client) *Service {
	return &Service{
		profiles: repository.NewProfiles(s),
		jobsRepo: repository.NewJobs(s),
		reviews:  review.NewAggregator(s, rdb),
		hiring:   jobs.NewService(s, rdb),
		rdb:      rdb,
	}
}

// ─── Worker browsing ─────────────────────────────────────────────────────────

// TopWorkers returns the three best-rated workers visible to viewerID.
// It prefers the ranker's cached leaderboard and falls back to a full
// fetch; exclusion of the viewer and of skill-less profiles is always
// applied per request, never baked into the cache.
func (s *Service) TopWorkers(ctx context.Context, viewerID string) ([]model.WorkerProfile, error) {
	if s.rdb != nil {
		if cached, err := ranker.CachedTop(ctx, s.rdb); err == nil && len(cached) > 0 {
			return match.RankWorkers(cached, viewerID, model.SearchCriteria{}, topWorkersLimit), nil
		}
	}

	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("topWorkers: %w", err)
	}
	return match.RankWorkers(profiles, viewerID, model.SearchCriteria{}, topWorkersLimit), nil
}

// BrowseWorkers returns the full filtered, ranked worker list for the
// "all workers" screen.
func (s *Service) BrowseWorkers(ctx context.Context, viewerID string, criteria model.SearchCriteria) ([]model.WorkerProfile, error) {
	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("browseWorkers: %w", err)
	}
	return match.RankWorkers(profiles, viewerID, criteria, 0), nil
}

// ─── Job browsing ────────────────────────────────────────────────────────────

// AvailableJobs returns upcoming open listings, optionally narrowed by
// criteria and by remaining open slots.
func (s *Service) AvailableJobs(ctx context.Context, criteria model.SearchCriteria, requireOpenSlots bool) ([]model.JobPosting, error) {
	postings, err := s.jobsRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("availableJobs: %w", err)
	}
	return jobs.FilterOpen(postings, model.OpenListing, criteria, requireOpenSlots, dates.Today()), nil
}

// FeaturedJobs returns the short "jobs available" teaser list.
func (s *Service) FeaturedJobs(ctx context.Context) ([]model.JobPosting, error) {
	listings, err := s.AvailableJobs(ctx, model.SearchCriteria{}, false)
	if err != nil {
		return nil, err
	}
	if len(listings) > featuredJobsLimit {
		listings = listings[:featuredJobsLimit]
	}
	return listings, nil
}

// ─── Mutations ───────────────────────────────────────────────────────────────

// SubmitReview stores reviewerID's review of workerID, snapshotting both
// display names, and updates the worker's aggregate atomically.
func (s *Service) SubmitReview(ctx context.Context, workerID, reviewerID string, rating float64, feedback string) (*model.Review, error) {
	worker, err := s.profiles.Get(ctx, workerID)
	if err != nil {
		return nil, err
	}

	reviewerName := "N/A"
	if reviewer, err := s.profiles.Get(ctx, reviewerID); err == nil {
		reviewerName = reviewer.Name
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return s.reviews.Submit(ctx, workerID, reviewerID, reviewerName, worker.Name, rating, feedback)
}

// WorkerReviews lists a worker's reviews, newest first.
func (s *Service) WorkerReviews(ctx context.Context, workerID string) ([]model.Review, error) {
	return s.reviews.WorkerReviews(ctx, workerID)
}

// AcceptApplicant consumes one slot on a posting for workerID.
func (s *Service) AcceptApplicant(ctx context.Context, workerID, jobID string) (*model.JobPosting, error) {
	return s.hiring.AcceptApplicant(ctx, workerID, jobID)
}

// Apply records workerID's application to an open listing.
func (s *Service) Apply(ctx context.Context, workerID, jobID string) error {
	return s.hiring.Apply(ctx, workerID, jobID)
}

// PostJob creates a new posting authored by posterID.
func (s *Service) PostJob(ctx context.Context, posterID, receiverID string, draft model.JobPosting) (*model.JobPosting, error) {
	return s.hiring.PostJob(ctx, posterID, receiverID, draft)
}
