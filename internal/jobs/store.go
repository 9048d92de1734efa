package jobs

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Store is the persistence collaborator the reports read from
type Store interface {
	ListJobs(ctx context.Context) ([]Job, error)
	AddJob(ctx context.Context, job Job) error
	UpdateJob(ctx context.Context, id string, job Job) error
	DeleteJob(ctx context.Context, id string) error
}

// Insert returns a new slice with job appended
func Insert(list []Job, job Job) []Job {
	out := make([]Job, 0, len(list)+1)
	out = append(out, list...)
	return append(out, job)
}

// Replace returns a new slice where the job identified by id is replaced.
// id is matched against Job.ID first and then, for sheet rows without ids,
// treated as a zero-based row index.
func Replace(list []Job, id string, job Job) ([]Job, error) {
	idx := indexOf(list, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := make([]Job, len(list))
	copy(out, list)
	if job.ID == "" {
		job.ID = list[idx].ID
	}
	out[idx] = job
	return out, nil
}

// Remove returns a new slice without the job identified by id
func Remove(list []Job, id string) ([]Job, error) {
	idx := indexOf(list, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := make([]Job, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...), nil
}

func indexOf(list []Job, id string) int {
	if id == "" {
		return -1
	}
	for i, j := range list {
		if j.ID == id {
			return i
		}
	}
	if n, err := strconv.Atoi(id); err == nil && n >= 0 && n < len(list) {
		return n
	}
	return -1
}

// MemoryStore keeps jobs in process memory. It backs the "memory" source
// and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs []Job
}

// NewMemoryStore creates a store seeded with a copy of seed
func NewMemoryStore(seed []Job) *MemoryStore {
	s := &MemoryStore{}
	for _, j := range seed {
		if j.ID == "" {
			j.ID = uuid.NewString()
		}
		s.jobs = Insert(s.jobs, j)
	}
	return s
}

func (s *MemoryStore) ListJobs(_ context.Context) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

func (s *MemoryStore) AddJob(_ context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = Insert(s.jobs, job)
	return nil
}

func (s *MemoryStore) UpdateJob(_ context.Context, id string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Replace(s.jobs, id, job)
	if err != nil {
		return err
	}
	s.jobs = next
	return nil
}

func (s *MemoryStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Remove(s.jobs, id)
	if err != nil {
		return err
	}
	s.jobs = next
	return nil
}
