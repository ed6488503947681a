package readinglog

import (
	"sync"

	"airbuddy-go/types"
)

// MemStore keeps lines in RAM. It backs boards without a filesystem and the
// tests; a capped MemStore drops its oldest lines.
type MemStore struct {
	mu    sync.Mutex
	lines []string
	cap   int

	// FailWith, when set, makes every append fail. Test hook.
	FailWith error
}

// NewMemStore retains at most cap lines; cap <= 0 means unbounded.
func NewMemStore(cap int) *MemStore {
	return &MemStore{cap: cap}
}

func (s *MemStore) Append(rec types.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.lines = append(s.lines, Line(rec))
	if s.cap > 0 && len(s.lines) > s.cap {
		s.lines = s.lines[len(s.lines)-s.cap:]
	}
	return nil
}

func (s *MemStore) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
