package model

import "fmt"

// PostingType distinguishes the two listing categories the app supports.
// The store keeps the single-letter tags the mobile clients already wrote
// ("A" = direct hire, "B" = open listing); code only ever sees the named
// constants.
type PostingType string

const (
	// DirectHire is a posting targeted at one specific worker.
	DirectHire PostingType = "A"
	// OpenListing is a posting any qualified worker can apply to.
	OpenListing PostingType = "B"
)

// ParsePostingType converts a raw stored tag to a PostingType, returning
// an error for unknown values.
func ParsePostingType(s string) (PostingType, error) {
	switch t := PostingType(s); t {
	case DirectHire, OpenListing:
		return t, nil
	}
	return "", fmt.Errorf("unknown posting type %q", s)
}

// String returns a readable name for logs; the wire value stays the letter.
func (t PostingType) String() string {
	switch t {
	case DirectHire:
		return "direct_hire"
	case OpenListing:
		return "open_listing"
	}
	return string(t)
}

// JobStatus values mirror the status strings stored on Jobs/{jobID}.
type JobStatus string

const (
	StatusOpen      JobStatus = "open"
	StatusAccepted  JobStatus = "accepted"
	StatusRejected  JobStatus = "rejected"
	StatusCompleted JobStatus = "completed"
)

// ParseJobStatus converts a raw string to a JobStatus, returning an error
// for unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case StatusOpen, StatusAccepted, StatusRejected, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}
