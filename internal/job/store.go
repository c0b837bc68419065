package job

import (
	"fmt"
	"sync"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/common"
)

// Store is the injected job table. Exactly one writer advances any given job
// (the sequencer), the submission path only inserts, and status polls read
// concurrently. Implementations must guarantee a reader never observes a
// torn update.
type Store interface {
	Create(j *Job) error
	// Get returns a point-in-time snapshot of the job.
	Get(id string) (Job, error)
	// Update atomically applies fn to the stored job under the store's lock.
	Update(id string, fn func(*Job)) error
}

// MemoryStore is the process-lifetime, in-memory Store. Jobs are never
// deleted; abandoned jobs occupy memory until process exit.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Create(j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[j.ID]; exists {
		return fmt.Errorf("job %s: %w", j.ID, common.ErrInvalidInput)
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	s.jobs[j.ID] = j
	return nil
}

func (s *MemoryStore) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	// Shallow copy is a consistent snapshot: stage records and the result are
	// published once under the lock and never mutated afterwards.
	return *j, nil
}

func (s *MemoryStore) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	fn(j)
	j.UpdatedAt = time.Now().UTC()
	return nil
}
