package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Submission is one stored answer: the opaque envelope and the clear
// captcha answer that accompanied it.
type Submission struct {
	Encrypted string `json:"encrypted"`
	Captcha   string `json:"captcha"`
}

// Store is the append-only id to ciphertext map.
type Store interface {
	// Save persists a submission and returns the id assigned to it.
	Save(ctx context.Context, submission Submission) (string, error)

	// All returns every stored submission keyed by id.
	All(ctx context.Context) (map[string]Submission, error)
}

// MemStore is an in-memory Store for tests and throwaway deployments.
type MemStore struct {
	mu          sync.RWMutex
	submissions map[string]Submission
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{submissions: make(map[string]Submission)}
}

// Save stores the submission under a fresh random id.
func (s *MemStore) Save(_ context.Context, submission Submission) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.submissions[id] = submission
	s.mu.Unlock()

	return id, nil
}

// All returns a copy of the stored submissions.
func (s *MemStore) All(_ context.Context) (map[string]Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Submission, len(s.submissions))
	for id, submission := range s.submissions {
		out[id] = submission
	}
	return out, nil
}
