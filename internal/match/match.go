// Package match ranks worker profiles for the "top rated employees" and
// "all workers" screens. Everything here is a pure function over the
// fetched snapshot: bad records are excluded, never fatal, and the caller
// can re-invoke with fresh inputs at any time.
package match

import (
	"sort"
	"strings"

	"localhire/matching-service/internal/model"
)

// RankWorkers filters and orders a snapshot of worker profiles.
//
// The viewing user (excludeID) never matches themself, and profiles with
// no skills are never shown. Supplied criteria combine with AND semantics;
// see Matches for the per-criterion rules. The result is sorted by
// averageRating descending with a stable tie-break: equal ratings keep
// their relative input order. A positive limit truncates the result
// (limit 3 drives the "top rated" card); limit <= 0 returns everything.
func RankWorkers(profiles []model.WorkerProfile, excludeID string, criteria model.SearchCriteria, limit int) []model.WorkerProfile {
	ranked := make([]model.WorkerProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID == excludeID || len(p.Skills) == 0 {
			continue
		}
		if !Matches(p, criteria) {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Matches reports whether a profile passes every supplied criterion.
// Location matches by case-insensitive trimmed substring, skill matches if
// any skill tag contains the criterion, rating matches when averageRating
// meets the threshold. Absent criteria (blank, whitespace-only, or zero
// rating) always pass.
func Matches(p model.WorkerProfile, c model.SearchCriteria) bool {
	if loc := normalise(c.Location); loc != "" {
		if !strings.Contains(normalise(p.Location), loc) {
			return false
		}
	}

	if skill := normalise(c.Skill); skill != "" {
		found := false
		for _, s := range p.Skills {
			if strings.Contains(normalise(s), skill) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.Rating > 0 && p.AverageRating < c.Rating {
		return false
	}

	return true
}

// normalise lower-cases and trims a criterion or field for comparison.
func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
