// Package repository fetches whole collections from the document store and
// normalises each record. Upstream data quality is inconsistent — the
// mobile clients wrote partial documents for years — so bad records get
// defaults or are skipped, never surfaced as errors.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/store"
)

// Profiles reads the worker-profile collection.
type Profiles struct {
	store store.Store
}

// NewProfiles returns a Profiles repository over the given store.
func NewProfiles(s store.Store) *Profiles {
	return &Profiles{store: s}
}

// rawProfile tolerates the loose shapes found in existing user documents:
// averageRating stored as a number or a numeric string, fields missing
// entirely.
type rawProfile struct {
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	Skills        []string        `json:"skills"`
	AverageRating model.FlexFloat `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
	ProfileImage  string          `json:"profileImage"`
}

// All fetches every worker profile, keyed records normalised:
// missing name → "N/A", missing location → "Unknown", missing skills →
// empty list, unreadable rating → 0. Documents that fail to decode at all
// are skipped with a warning.
//
// The result is ordered by document id. Downstream ranking uses a stable
// sort, so equal-rated workers must come out of the snapshot in the same
// order on every call.
func (r *Profiles) All(ctx context.Context) ([]model.WorkerProfile, error) {
	docs, err := r.store.Children(ctx, store.UsersRoot)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	profiles := make([]model.WorkerProfile, 0, len(docs))
	for _, id := range sortedKeys(docs) {
		var raw rawProfile
		if err := json.Unmarshal(docs[id], &raw); err != nil {
			slog.Warn("skipping undecodable user document", "id", id, "err", err)
			continue
		}
		profiles = append(profiles, normaliseProfile(id, raw))
	}
	return profiles, nil
}

// Get fetches and normalises a single worker profile.
func (r *Profiles) Get(ctx context.Context, userID string) (*model.WorkerProfile, error) {
	doc, err := r.store.Get(ctx, store.UserPath(userID))
	if err != nil {
		return nil, err
	}
	var raw rawProfile
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	p := normaliseProfile(userID, raw)
	return &p, nil
}

func normaliseProfile(id string, raw rawProfile) model.WorkerProfile {
	p := model.WorkerProfile{
		ID:            id,
		Name:          raw.Name,
		Location:      raw.Location,
		Skills:        raw.Skills,
		AverageRating: float64(raw.AverageRating),
		ReviewCount:   raw.ReviewCount,
		ProfileImage:  raw.ProfileImage,
	}
	if p.Name == "" {
		p.Name = "N/A"
	}
	if p.Location == "" {
		p.Location = "Unknown"
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p
}

// Jobs reads the job-posting collection.
type Jobs struct {
	store store.Store
}

// NewJobs returns a Jobs repository over the given store.
func NewJobs(s store.Store) *Jobs {
	return &Jobs{store: s}
}

// All fetches every job posting, ordered by id. Undecodable documents are
// skipped.
func (r *Jobs) All(ctx context.Context) ([]model.JobPosting, error) {
	docs, err := r.store.Children(ctx, store.JobsRoot)
	if err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}

	jobs := make([]model.JobPosting, 0, len(docs))
	for _, id := range sortedKeys(docs) {
		var j model.JobPosting
		if err := json.Unmarshal(docs[id], &j); err != nil {
			slog.Warn("skipping undecodable job document", "id", id, "err", err)
			continue
		}
		j.JobID = id
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// sortedKeys pins the iteration order of a Children result. Map order is
// randomised per call; collections must come out in a fixed order.
func sortedKeys(docs map[string][]byte) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
