package store

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests. A single mutex covers the
// whole Transact window, which trivially gives the atomicity and
// serialisation guarantees the interface promises.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (m *Memory) Set(ctx context.Context, path string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(path, doc)
	return nil
}

func (m *Memory) Children(ctx context.Context, path string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := path + "/"
	out := make(map[string][]byte)
	for p, doc := range m.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if strings.Contains(rest, "/") {
			continue // deeper than one level
		}
		cp := make([]byte, len(doc))
		copy(cp, doc)
		out[rest] = cp
	}
	return out, nil
}

func (m *Memory) Transact(ctx context.Context, path string, fn func(current []byte) ([]Write, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current []byte
	if doc, ok := m.docs[path]; ok {
		current = make([]byte, len(doc))
		copy(current, doc)
	}

	writes, err := fn(current)
	if err != nil {
		return err
	}
	for _, w := range writes {
		m.set(w.Path, w.Doc)
	}
	return nil
}

// set applies one write under the lock.
func (m *Memory) set(path string, doc []byte) {
	if doc == nil {
		delete(m.docs, path)
		return
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.docs[path] = cp
}
