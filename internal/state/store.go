package state

import (
	"log/slog"
	"sync"
)

// Store schedules record writes off the event loop. The in-memory
// record stays authoritative: a failed save is logged and the next
// mutation's save retries implicitly.
//
// Saves are stamped in call order; a write whose stamp is older than
// the last one written is dropped, so the file always holds the newest
// snapshot no matter how the goroutines interleave.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex // serializes file writes and the stamps
	seq     uint64     // stamp handed to the most recent Save
	written uint64     // stamp of the snapshot on disk
	pending sync.WaitGroup
}

// NewStore creates a store writing to path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the persisted record, or (nil, nil) on first run.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(s.path)
}

// Save persists a snapshot of rec asynchronously. The caller may keep
// mutating its record immediately; failures are logged, not returned.
func (s *Store) Save(rec *Record) {
	snapshot := rec.Clone()

	s.mu.Lock()
	s.seq++
	stamp := s.seq
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if stamp < s.written {
			return // a newer snapshot already landed
		}
		s.written = stamp
		if err := Write(s.path, snapshot); err != nil {
			s.logger.Error("state: save failed", "path", s.path, "error", err)
		}
	}()
}

// Flush blocks until all scheduled saves have completed. Called once
// at shutdown.
func (s *Store) Flush() {
	s.pending.Wait()
}
