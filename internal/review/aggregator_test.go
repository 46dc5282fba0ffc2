package review_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"localhire/matching-service/internal/review"
	"localhire/matching-service/internal/store"
)

func newWorker(t *testing.T, m *store.Memory, id, doc string) {
	t.Helper()
	if err := m.Set(context.Background(), store.UserPath(id), []byte(doc)); err != nil {
		t.Fatal(err)
	}
}

func workerAggregate(t *testing.T, s store.Store, id string) (avg float64, count int) {
	t.Helper()
	doc, err := s.Get(context.Background(), store.UserPath(id))
	if err != nil {
		t.Fatalf("worker %s missing: %v", id, err)
	}
	var agg struct {
		AverageRating float64 `json:"averageRating"`
		ReviewCount   int     `json:"reviewCount"`
	}
	if err := json.Unmarshal(doc, &agg); err != nil {
		t.Fatal(err)
	}
	return agg.AverageRating, agg.ReviewCount
}

// ── Validation ─────────────────────────────────────────────────────────────

func TestSubmit_Validation(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","skills":["plumber"]}`)
	agg := review.NewAggregator(m, nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		rating   float64
		feedback string
	}{
		{"rating above range", 5.5, "fine"},
		{"rating below range", -1, "fine"},
		{"rating not half-step", 3.2, "fine"},
		{"empty feedback", 4, ""},
		{"whitespace feedback", 4, "   \t"},
	}
	for _, c := range cases {
		_, err := agg.Submit(ctx, "w1", "r1", "Rev", "Asha", c.rating, c.feedback)
		var ve *review.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: err = %v, want ValidationError", c.name, err)
		}
	}

	// No write happened.
	if _, count := workerAggregate(t, m, "w1"); count != 0 {
		t.Errorf("rejected submissions still incremented reviewCount to %d", count)
	}
}

// ── Average arithmetic ─────────────────────────────────────────────────────

// Ratings [4, 2, 5] in sequence: the final aggregate is the mean of all
// three (3.7 under the one-decimal policy), not a naive value carried
// over from an intermediate step.
func TestSubmit_RunningAverage(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","skills":["plumber"]}`)
	agg := review.NewAggregator(m, nil)
	ctx := context.Background()

	steps := []struct {
		reviewer string
		rating   float64
		wantAvg  float64
	}{
		{"r1", 4, 4.0},
		{"r2", 2, 3.0},
		{"r3", 5, 3.7},
	}
	for i, s := range steps {
		if _, err := agg.Submit(ctx, "w1", s.reviewer, "Rev", "Asha", s.rating, "solid work"); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
		avg, count := workerAggregate(t, m, "w1")
		if count != i+1 {
			t.Errorf("after submit %d: reviewCount = %d", i+1, count)
		}
		if avg != s.wantAvg {
			t.Errorf("after submit %d: averageRating = %v, want %v", i+1, avg, s.wantAvg)
		}
	}
}

func TestSubmit_HalfStarRatingAccepted(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","skills":["plumber"]}`)
	if _, err := review.NewAggregator(m, nil).Submit(context.Background(), "w1", "r1", "Rev", "Asha", 4.5, "good"); err != nil {
		t.Fatalf("half-star rating rejected: %v", err)
	}
	if avg, _ := workerAggregate(t, m, "w1"); avg != 4.5 {
		t.Errorf("averageRating = %v, want 4.5", avg)
	}
}

// A worker document with no aggregate fields at all starts from zero.
func TestSubmit_DefaultsAbsentAggregate(t *testing.T) {
	m := store.NewMemory()
	agg := review.NewAggregator(m, nil)
	// No worker document seeded: first review creates the aggregate.
	if _, err := agg.Submit(context.Background(), "w1", "r1", "Rev", "Asha", 3, "ok"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	avg, count := workerAggregate(t, m, "w1")
	if avg != 3.0 || count != 1 {
		t.Errorf("aggregate = %v/%d, want 3.0/1", avg, count)
	}
}

// Submit must not clobber profile fields it does not own.
func TestSubmit_PreservesOtherProfileFields(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","location":"Downtown","skills":["plumber"]}`)
	if _, err := review.NewAggregator(m, nil).Submit(context.Background(), "w1", "r1", "Rev", "Asha", 5, "great"); err != nil {
		t.Fatal(err)
	}

	doc, _ := m.Get(context.Background(), store.UserPath("w1"))
	var profile map[string]any
	json.Unmarshal(doc, &profile)
	if profile["name"] != "Asha" || profile["location"] != "Downtown" {
		t.Errorf("profile fields lost: %v", profile)
	}
}

// ── Review record ──────────────────────────────────────────────────────────

func TestSubmit_WritesReviewRecord(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","skills":["plumber"]}`)
	agg := review.NewAggregator(m, nil)

	rev, err := agg.Submit(context.Background(), "w1", "r1", "Noor", "Asha", 4, "  tidy and quick  ")
	if err != nil {
		t.Fatal(err)
	}
	if rev.Feedback != "tidy and quick" {
		t.Errorf("feedback not trimmed: %q", rev.Feedback)
	}
	if rev.ReviewedBy != "r1" || rev.ReviewedByName != "Noor" || rev.ReviewedUserName != "Asha" {
		t.Errorf("denormalised names wrong: %+v", rev)
	}

	got, err := agg.WorkerReviews(context.Background(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != rev.ID || got[0].Rating != 4 {
		t.Errorf("WorkerReviews = %+v", got)
	}
}

// ── Atomicity (fault injection) ────────────────────────────────────────────

// failingStore passes the read-modify-write through to the inner store but
// fails before applying any write, simulating a crash between "write
// review" and "write aggregate".
type failingStore struct {
	*store.Memory
	fail error
}

func (f *failingStore) Transact(ctx context.Context, path string, fn func([]byte) ([]store.Write, error)) error {
	err := f.Memory.Transact(ctx, path, func(current []byte) ([]store.Write, error) {
		if _, err := fn(current); err != nil {
			return nil, err
		}
		return nil, f.fail // writes computed, none applied
	})
	return err
}

func TestSubmit_AllOrNothing(t *testing.T) {
	inner := store.NewMemory()
	newWorker(t, inner, "w1", `{"name":"Asha","skills":["plumber"],"averageRating":4.0,"reviewCount":2}`)
	boom := errors.New("storage failure")
	agg := review.NewAggregator(&failingStore{Memory: inner, fail: boom}, nil)

	_, err := agg.Submit(context.Background(), "w1", "r1", "Rev", "Asha", 5, "great")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want injected storage failure", err)
	}

	// Neither the aggregate nor the review record was written.
	avg, count := workerAggregate(t, inner, "w1")
	if avg != 4.0 || count != 2 {
		t.Errorf("aggregate changed after failed write: %v/%d", avg, count)
	}
	reviews, err := review.NewAggregator(inner, nil).WorkerReviews(context.Background(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 0 {
		t.Errorf("review record leaked after failed write: %+v", reviews)
	}
}

// ── Concurrency ────────────────────────────────────────────────────────────

// Concurrent submissions from distinct reviewers must all be counted —
// the transactional anchor prevents the classic lost-update race.
func TestSubmit_ConcurrentReviewersAllCounted(t *testing.T) {
	m := store.NewMemory()
	newWorker(t, m, "w1", `{"name":"Asha","skills":["plumber"]}`)
	agg := review.NewAggregator(m, nil)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reviewer := string(rune('a'+i%26)) + "-reviewer"
			if _, err := agg.Submit(ctx, "w1", reviewer, "Rev", "Asha", 4, "good"); err != nil {
				t.Errorf("concurrent submit: %v", err)
			}
		}(i)
	}
	wg.Wait()

	avg, count := workerAggregate(t, m, "w1")
	if count != n {
		t.Errorf("reviewCount = %d, want %d (lost update)", count, n)
	}
	if avg != 4.0 {
		t.Errorf("averageRating = %v, want 4.0", avg)
	}
}
