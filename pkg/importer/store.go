package importer

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStore is the process-wide store of import job records. It is read and
// written concurrently by the dispatcher, the worker pool and status queries.
// Update replaces the whole record; callers read-modify-write, and the store
// does not serialize those cycles per job; by convention one job has at most
// one in-flight message at a time.
//
// The concrete store is volatile: job state does not survive a restart. A
// durable backend can satisfy this interface without touching callers.
type JobStore interface {
	Save(job *Job)
	Get(id uuid.UUID) (*Job, bool)
	List() []*Job
	Update(job *Job)
	Cleanup(retention time.Duration) int
}

// MemoryJobStore keeps job records in a mutex-guarded map.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[uuid.UUID]*Job)}
}

// Save inserts or replaces the record. Idempotent.
func (s *MemoryJobStore) Save(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
}

// Get returns a copy of the record, so callers never alias store state.
func (s *MemoryJobStore) Get(id uuid.UUID) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

// List returns a snapshot of all records, newest first.
func (s *MemoryJobStore) List() []*Job {
	s.mu.RLock()
	snapshot := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		copied := *job
		snapshot = append(snapshot, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
	})
	return snapshot
}

// Update replaces the record by id, with no merge semantics.
func (s *MemoryJobStore) Update(job *Job) {
	s.Save(job)
}

// Cleanup removes terminal records whose UpdatedAt is older than the
// retention window. Returns the number removed.
func (s *MemoryJobStore) Cleanup(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.Status.IsTerminal() && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
