package jobs_test

import (
	"testing"

	"localhire/matching-service/internal/jobs"
	"localhire/matching-service/internal/model"
)

// ── ParseJobStatus / ParsePostingType ──────────────────────────────────────

func TestParseJobStatus_ValidValues(t *testing.T) {
	valid := []string{"open", "accepted", "rejected", "completed"}
	for _, s := range valid {
		got, err := model.ParseJobStatus(s)
		if err != nil {
			t.Errorf("ParseJobStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseJobStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseJobStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "OPEN", "pending", " open"} {
		if _, err := model.ParseJobStatus(s); err == nil {
			t.Errorf("ParseJobStatus(%q) expected error, got nil", s)
		}
	}
}

func TestParsePostingType(t *testing.T) {
	if got, err := model.ParsePostingType("A"); err != nil || got != model.DirectHire {
		t.Errorf("ParsePostingType(\"A\") = %v, %v", got, err)
	}
	if got, err := model.ParsePostingType("B"); err != nil || got != model.OpenListing {
		t.Errorf("ParsePostingType(\"B\") = %v, %v", got, err)
	}
	for _, s := range []string{"", "C", "a", "direct_hire"} {
		if _, err := model.ParsePostingType(s); err == nil {
			t.Errorf("ParsePostingType(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from model.JobStatus
		to   model.JobStatus
	}{
		{model.StatusOpen, model.StatusAccepted},
		{model.StatusOpen, model.StatusRejected},
		{model.StatusAccepted, model.StatusCompleted},
	}
	for _, c := range cases {
		if !jobs.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []model.JobStatus{model.StatusRejected, model.StatusCompleted}
	targets := []model.JobStatus{
		model.StatusOpen, model.StatusAccepted, model.StatusRejected, model.StatusCompleted,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if jobs.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestIsTransitionAllowed_Backwards(t *testing.T) {
	cases := []struct {
		from model.JobStatus
		to   model.JobStatus
	}{
		{model.StatusAccepted, model.StatusOpen},
		{model.StatusCompleted, model.StatusAccepted},
		{model.StatusRejected, model.StatusOpen},
	}
	for _, c := range cases {
		if jobs.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (backwards)", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []model.JobStatus{
		model.StatusOpen, model.StatusAccepted, model.StatusRejected, model.StatusCompleted,
	}
	for _, s := range all {
		if jobs.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}
