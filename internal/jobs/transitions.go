// Job posting status graph:
//
//	open ──► accepted ──► completed
//	  │
//	  └────► rejected
//
// rejected and completed are terminal. Slot counters move independently of
// status: no_of_users only ever decreases, users_hired only ever increases,
// always by exactly one and always together.
package jobs

import "localhire/matching-service/internal/model"

// validTransitions lists every allowed (from → to) status pair.
var validTransitions = map[model.JobStatus][]model.JobStatus{
	model.StatusOpen:     {model.StatusAccepted, model.StatusRejected},
	model.StatusAccepted: {model.StatusCompleted},
	// rejected and completed are terminal
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the posting status graph.
func IsTransitionAllowed(from, to model.JobStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
