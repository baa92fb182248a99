package engine

import (
	"slices"
	"sort"
	"sync"
	"time"

	"pivotreport/internal/models"
)

// Store holds the loaded dataset. It is empty until the background load
// finishes, and safe for concurrent readers.
type Store struct {
	mu       sync.RWMutex
	records  []models.Record
	fields   []string
	loadedAt time.Time
	ready    bool
	loadErr  error
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the dataset. Records must not be mutated afterwards.
func (s *Store) Set(records []models.Record) {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.fields = fields
	s.loadedAt = time.Now()
	s.ready = true
	s.loadErr = nil
}

// Fail records that the load gave up. Records stays not ready.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// Err returns the load failure, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Records returns the dataset and whether it has been loaded.
func (s *Store) Records() ([]models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.ready
}

// Fields lists every field name seen in the dataset, sorted.
func (s *Store) Fields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fields)
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
