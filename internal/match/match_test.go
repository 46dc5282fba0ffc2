package match_test

import (
	"testing"

	"localhire/matching-service/internal/match"
	"localhire/matching-service/internal/model"
)

func worker(id string, rating float64, location string, skills ...string) model.WorkerProfile {
	return model.WorkerProfile{
		ID:            id,
		Name:          id,
		Location:      location,
		Skills:        skills,
		AverageRating: rating,
	}
}

// ── Exclusion invariants ───────────────────────────────────────────────────

func TestRankWorkers_ExcludesViewer(t *testing.T) {
	profiles := []model.WorkerProfile{
		worker("me", 5, "Downtown", "plumber"),
		worker("u2", 3, "Downtown", "painter"),
	}
	got := match.RankWorkers(profiles, "me", model.SearchCriteria{}, 0)
	for _, p := range got {
		if p.ID == "me" {
			t.Error("viewer's own profile appeared in results")
		}
	}
	if len(got) != 1 {
		t.Errorf("got %d results, want 1", len(got))
	}
}

func TestRankWorkers_ExcludesEmptySkills(t *testing.T) {
	profiles := []model.WorkerProfile{
		worker("u1", 5, "Downtown"), // no skills
		worker("u2", 3, "Downtown", "painter"),
		{ID: "u3", Location: "Uptown", Skills: []string{}, AverageRating: 4},
	}
	got := match.RankWorkers(profiles, "viewer", model.SearchCriteria{}, 0)
	if len(got) != 1 || got[0].ID != "u2" {
		t.Errorf("got %v, want only u2", ids(got))
	}
}

func TestRankWorkers_EmptyInput(t *testing.T) {
	got := match.RankWorkers(nil, "viewer", model.SearchCriteria{}, 0)
	if len(got) != 0 {
		t.Errorf("got %d results from empty input", len(got))
	}
}

// ── Sorting ────────────────────────────────────────────────────────────────

func TestRankWorkers_SortDescending(t *testing.T) {
	profiles := []model.WorkerProfile{
		worker("u1", 2.5, "a", "x"),
		worker("u2", 4.8, "a", "x"),
		worker("u3", 3.1, "a", "x"),
		worker("u4", 5.0, "a", "x"),
	}
	got := match.RankWorkers(profiles, "viewer", model.SearchCriteria{}, 0)
	for i := 1; i < len(got); i++ {
		if got[i-1].AverageRating < got[i].AverageRating {
			t.Fatalf("not sorted descending: %v before %v", got[i-1].AverageRating, got[i].AverageRating)
		}
	}
}

// Profiles with equal ratings keep their relative input order.
func TestRankWorkers_StableTieBreak(t *testing.T) {
	profiles := []model.WorkerProfile{
		worker("first", 4.0, "a", "x"),
		worker("top", 5.0, "a", "x"),
		worker("second", 4.0, "a", "x"),
		worker("third", 4.0, "a", "x"),
	}
	got := match.RankWorkers(profiles, "viewer", model.SearchCriteria{}, 0)
	want := []string{"top", "first", "second", "third"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestRankWorkers_Limit(t *testing.T) {
	profiles := []model.WorkerProfile{
		worker("u1", 1, "a", "x"),
		worker("u2", 2, "a", "x"),
		worker("u3", 3, "a", "x"),
		worker("u4", 4, "a", "x"),
	}
	got := match.RankWorkers(profiles, "viewer", model.SearchCriteria{}, 3)
	if len(got) != 3 {
		t.Fatalf("limit 3 returned %d results", len(got))
	}
	if got[0].ID != "u4" || got[1].ID != "u3" || got[2].ID != "u2" {
		t.Errorf("top 3 = %v", ids(got))
	}
}

// ── Criteria semantics ─────────────────────────────────────────────────────

func TestRankWorkers_CriteriaANDSemantics(t *testing.T) {
	p := worker("u1", 4, "Downtown", "plumber")
	profiles := []model.WorkerProfile{p}

	pass := model.SearchCriteria{Location: "down", Skill: "plum", Rating: 3}
	if got := match.RankWorkers(profiles, "viewer", pass, 0); len(got) != 1 {
		t.Errorf("profile should pass criteria %+v", pass)
	}

	fail := model.SearchCriteria{Location: "down", Rating: 5}
	if got := match.RankWorkers(profiles, "viewer", fail, 0); len(got) != 0 {
		t.Errorf("profile should fail criteria %+v", fail)
	}
}

func TestMatches_CaseInsensitiveTrimmed(t *testing.T) {
	p := worker("u1", 4, "  Downtown  ", "Plumber")
	if !match.Matches(p, model.SearchCriteria{Location: " DOWN "}) {
		t.Error("location match should ignore case and surrounding whitespace")
	}
	if !match.Matches(p, model.SearchCriteria{Skill: "pLUMB"}) {
		t.Error("skill match should ignore case")
	}
}

func TestMatches_WhitespaceOnlyCriterionIsAbsent(t *testing.T) {
	p := worker("u1", 4, "Downtown", "plumber")
	if !match.Matches(p, model.SearchCriteria{Location: "   ", Skill: "\t"}) {
		t.Error("whitespace-only criteria must be treated as absent")
	}
}

func TestMatches_SkillMatchesAnyTag(t *testing.T) {
	p := worker("u1", 4, "Downtown", "painter", "plumber", "electrician")
	if !match.Matches(p, model.SearchCriteria{Skill: "electri"}) {
		t.Error("skill criterion should match any tag")
	}
	if match.Matches(p, model.SearchCriteria{Skill: "welder"}) {
		t.Error("skill criterion should fail when no tag contains it")
	}
}

func TestMatches_RatingThreshold(t *testing.T) {
	p := worker("u1", 3.5, "Downtown", "plumber")
	if !match.Matches(p, model.SearchCriteria{Rating: 3.5}) {
		t.Error("rating equal to threshold should pass")
	}
	if match.Matches(p, model.SearchCriteria{Rating: 3.6}) {
		t.Error("rating below threshold should fail")
	}
}

func ids(ps []model.WorkerProfile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
