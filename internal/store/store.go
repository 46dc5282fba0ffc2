// Package store abstracts the path-addressed document store the LocalHire
// app keeps its data in. Documents are JSON blobs reachable by slash paths
// (users/{id}, Jobs/{jobID}, users/{id}/reviews/{revID}, …).
//
// The Transact primitive is the important part: every read-modify-write in
// the service (review aggregation, job slot bookkeeping) goes through it,
// so concurrent writers cannot lose updates regardless of the backend.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned by Transact when the anchor document kept
// changing under the transaction and the retry budget ran out.
var ErrConflict = errors.New("document modified concurrently")

// Write is one element of an atomic multi-path update. A nil Doc deletes
// the document at Path.
type Write struct {
	Path string
	Doc  []byte
}

// Store is a path-addressed JSON document store.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// Set writes a single document, creating or replacing it.
	Set(ctx context.Context, path string, doc []byte) error

	// Children returns the documents exactly one level below path,
	// keyed by child name. A path with no children yields an empty map.
	Children(ctx context.Context, path string) (map[string][]byte, error)

	// Transact runs a conditional read-modify-write anchored on path.
	// fn receives the current document (nil when absent) and returns the
	// writes to apply. All writes are applied atomically, and only if the
	// anchor document did not change between read and write; no reader
	// ever observes a partial update. An error from fn aborts the
	// transaction with nothing written.
	Transact(ctx context.Context, path string, fn func(current []byte) ([]Write, error)) error
}

// parent returns the path one level above p, or "" for a root path.
func parent(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// childName returns the final path segment of p.
func childName(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return p
	}
	return p[i+1:]
}
