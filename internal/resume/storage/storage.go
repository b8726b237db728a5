package storage

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

// JobStore provides in-memory storage for pipeline jobs. Document bytes
// are processed in RAM only and never written here; jobs expire after a
// TTL so finished results stay poll-able for a bounded window.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.PipelineJob
	ttl  time.Duration
}

// NewJobStore creates an in-memory job store with the given TTL.
func NewJobStore(ttl time.Duration) *JobStore {
	s := &JobStore{
		jobs: make(map[string]*domain.PipelineJob),
		ttl:  ttl,
	}
	go s.cleanupLoop()
	return s
}

// GenerateJobID creates a cryptographically random job ID.
func GenerateJobID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// there is no meaningful recovery.
		panic("storage: read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Store saves a pipeline job.
func (s *JobStore) Store(job *domain.PipelineJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

// Get retrieves a pipeline job by ID, or nil if unknown or expired.
// It returns a snapshot copy: the stored job keeps being mutated by
// Update while callers serialize the returned value.
func (s *JobStore) Get(jobID string) *domain.PipelineJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	snapshot := *job
	return &snapshot
}

// Update applies a mutation to an existing job under the store lock.
func (s *JobStore) Update(jobID string, update func(*domain.PipelineJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		update(job)
	}
}

// Delete removes a job from the store.
func (s *JobStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// cleanupLoop periodically removes expired jobs.
func (s *JobStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

func (s *JobStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
