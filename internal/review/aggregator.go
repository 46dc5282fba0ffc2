// Package review maintains each worker's running average rating.
//
// The aggregate invariant: users/{id}.averageRating is always the mean of
// every review stored under users/{id}/reviews, rounded to one decimal
// place, and reviewCount always equals the number of stored reviews. Both
// move in lockstep with the review record inside a single store
// transaction, so no reader ever observes one without the other.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/store"
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Aggregator submits reviews and keeps worker aggregates consistent.
type Aggregator struct {
	store store.Store
	rdb   *redis.Client // optional event publishing, may be nil
}

// NewAggregator returns a configured Aggregator. rdb may be nil.
func NewAggregator(s store.Store, rdb *redis.Client) *Aggregator {
	return &Aggregator{store: s, rdb: rdb}
}

// aggregate is the slice of the worker document this package owns.
// FlexFloat tolerates the string-encoded ratings older clients wrote.
type aggregate struct {
	AverageRating model.FlexFloat `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
}

// Submit validates and stores a new review for workerID, updating the
// worker's averageRating and reviewCount in the same atomic write.
//
// Submitting twice is not deduplicated: every call is a new opinion with
// its own timestamped id and counts as a distinct review. On any storage
// failure nothing is applied, so the caller can retry without
// double-counting.
func (a *Aggregator) Submit(ctx context.Context, workerID, reviewerID, reviewerName, revieweeName string, rating float64, feedback string) (*model.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, &ValidationError{Msg: "rating must be between 0 and 5"}
	}
	if math.Trunc(rating*2) != rating*2 {
		return nil, &ValidationError{Msg: "rating must be a whole or half star"}
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, &ValidationError{Msg: "feedback must not be empty"}
	}

	now := time.Now().UnixMilli()
	rev := model.Review{
		ID:               fmt.Sprintf("%s_%d", reviewerID, now),
		Rating:           rating,
		Feedback:         feedback,
		ReviewedBy:       reviewerID,
		ReviewedByName:   reviewerName,
		ReviewedUserName: revieweeName,
		Timestamp:        now,
	}
	revDoc, err := json.Marshal(rev)
	if err != nil {
		return nil, fmt.Errorf("encode review: %w", err)
	}

	// The worker document is the transaction anchor: if another review
	// lands between our read and write, the store retries or rolls back,
	// never losing an update.
	err = a.store.Transact(ctx, store.UserPath(workerID), func(current []byte) ([]store.Write, error) {
		worker := map[string]json.RawMessage{}
		var agg aggregate
		if current != nil {
			if err := json.Unmarshal(current, &worker); err != nil {
				return nil, fmt.Errorf("decode worker %s: %w", workerID, err)
			}
			// Absent or unreadable aggregate fields default to zero.
			json.Unmarshal(current, &agg)
		}

		newAvg := roundToTenth((float64(agg.AverageRating)*float64(agg.ReviewCount) + rating) / float64(agg.ReviewCount+1))
		agg.ReviewCount++

		avg, _ := json.Marshal(newAvg)
		count, _ := json.Marshal(agg.ReviewCount)
		worker["averageRating"] = avg
		worker["reviewCount"] = count

		workerDoc, err := json.Marshal(worker)
		if err != nil {
			return nil, fmt.Errorf("encode worker %s: %w", workerID, err)
		}

		return []store.Write{
			{Path: store.UserPath(workerID), Doc: workerDoc},
			{Path: store.ReviewPath(workerID, rev.ID), Doc: revDoc},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	a.publish(ctx, workerID, &rev)
	return &rev, nil
}

// WorkerReviews returns every review stored for a worker, newest first.
func (a *Aggregator) WorkerReviews(ctx context.Context, workerID string) ([]model.Review, error) {
	docs, err := a.store.Children(ctx, store.ReviewsPath(workerID))
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for %s: %w", workerID, err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for id, doc := range docs {
		var r model.Review
		if err := json.Unmarshal(doc, &r); err != nil {
			slog.Warn("skipping undecodable review", "worker", workerID, "id", id, "err", err)
			continue
		}
		r.ID = id
		reviews = append(reviews, r)
	}

	// Newest first for display.
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].Timestamp > reviews[j].Timestamp
	})
	return reviews, nil
}

// roundToTenth rounds to one decimal place — the single rounding policy
// applied everywhere an aggregate is written.
func roundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

func (a *Aggregator) publish(ctx context.Context, workerID string, rev *model.Review) {
	if a.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]string{
		"workerId":   workerID,
		"reviewId":   rev.ID,
		"reviewerId": rev.ReviewedBy,
	})
	if err := a.rdb.Publish(ctx, "EVENT_REVIEW_SUBMITTED", event).Err(); err != nil {
		slog.Warn("publish EVENT_REVIEW_SUBMITTED failed", "err", err)
	}
}
