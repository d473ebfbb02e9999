package core

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrImportNotFound is returned when an import id is unknown to the store.
var ErrImportNotFound = errors.New("import not found")

// Store persists the current record set and the import history.
//
// SaveImport is atomic: the history entry, the raw source bytes and, when
// snap is non-nil, the whole-set replacement of the current records either
// all happen or none do. A nil snap records a rejected import and leaves
// the current set untouched.
type Store interface {
	SaveImport(ctx context.Context, summary ImportSummary, raw []byte, snap *Snapshot) error
	CurrentSnapshot(ctx context.Context) (*Snapshot, error) // nil, nil when nothing was imported yet
	ListImports(ctx context.Context, limit int) ([]ImportSummary, error)
	RawFile(ctx context.Context, importID string) (ImportSummary, []byte, error)
}

// DefaultHistoryLimit caps how many imports the memory store retains.
const DefaultHistoryLimit = 50

// MemoryStore is a Store kept in process memory. It is used when no
// database is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	limit   int
	current *Snapshot
	history []ImportSummary // newest first
	raw     map[string][]byte
}

// NewMemoryStore creates a MemoryStore retaining at most limit imports.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryStore{
		limit: limit,
		raw:   make(map[string][]byte),
	}
}

func (m *MemoryStore) SaveImport(ctx context.Context, summary ImportSummary, raw []byte, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if snap != nil {
		c := cloneSnapshot(*snap)
		m.current = &c
	}

	m.history = append([]ImportSummary{summary}, m.history...)
	m.raw[summary.ImportID] = slices.Clone(raw)
	for len(m.history) > m.limit {
		evicted := m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		delete(m.raw, evicted.ImportID)
	}
	return nil
}

func (m *MemoryStore) CurrentSnapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, nil
	}
	c := cloneSnapshot(*m.current)
	return &c, nil
}

func (m *MemoryStore) ListImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	return slices.Clone(m.history[:limit]), nil
}

func (m *MemoryStore) RawFile(ctx context.Context, importID string) (ImportSummary, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.history {
		if s.ImportID == importID {
			return s, slices.Clone(m.raw[importID]), nil
		}
	}
	return ImportSummary{}, nil, ErrImportNotFound
}

// cloneSnapshot copies the record slice so callers cannot mutate stored state.
func cloneSnapshot(s Snapshot) Snapshot {
	s.Records = slices.Clone(s.Records)
	if s.Records == nil {
		s.Records = []ToolRecord{}
	}
	return s
}
