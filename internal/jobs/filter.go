// Package jobs implements the job-posting side of the marketplace:
// filtering listings for display, posting new jobs, and the accept/hire
// slot bookkeeping.
package jobs

import (
	"strings"
	"time"

	"localhire/matching-service/internal/dates"
	"localhire/matching-service/internal/model"
)

// FilterOpen returns the postings worth showing for one listing category.
//
// A posting is kept when its type matches tag, its date parses as
// dd/mm/yyyy and falls on or after today, and — when requireOpenSlots is
// set — it still has open positions (an absent no_of_users counts as
// zero). Optional Date/JobType criteria are ANDed in as case-insensitive
// trimmed substring matches. Postings with unparsable or past dates are
// silently dropped; the function never fails on bad data.
//
// No sort is applied: the result keeps the store's iteration order.
func FilterOpen(postings []model.JobPosting, tag model.PostingType, criteria model.SearchCriteria, requireOpenSlots bool, today time.Time) []model.JobPosting {
	kept := make([]model.JobPosting, 0, len(postings))
	for _, j := range postings {
		if j.Type != tag {
			continue
		}

		d, ok := dates.ParseDisplayDate(j.Date)
		if !ok || d.Before(today) {
			continue
		}

		if requireOpenSlots && j.Slots() <= 0 {
			continue
		}

		if date := normalise(criteria.Date); date != "" {
			if !strings.Contains(normalise(j.Date), date) {
				continue
			}
		}
		if jobType := normalise(criteria.JobType); jobType != "" {
			if !strings.Contains(normalise(j.JobType), jobType) {
				continue
			}
		}

		kept = append(kept, j)
	}
	return kept
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
