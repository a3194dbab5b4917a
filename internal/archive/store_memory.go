package archive

import (
	"context"
	"slices"
	"sync"
	"time"

	"chronicle/pkg/platform/sentinel"
)

// InMemoryStore keeps archives in process memory. It backs unit tests and
// single-node development setups; production uses the PostgreSQL store.
type InMemoryStore struct {
	mu       sync.RWMutex
	archives map[string]*Archive
	order    []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{archives: make(map[string]*Archive)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives = make(map[string]*Archive)
	s.order = nil
}

// Len reports the number of stored archives.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.archives)
}

func (s *InMemoryStore) Save(_ context.Context, arch *Archive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.archives[arch.ID]; ok {
		return nil
	}
	s.archives[arch.ID] = copyArchive(arch)
	s.order = append(s.order, arch.ID)
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (*Archive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arch, ok := s.archives[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyArchive(arch), nil
}

func (s *InMemoryStore) FindMatching(_ context.Context, req RetrievalRequest) ([]*Archive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*Archive
	for _, id := range s.order {
		arch := s.archives[id]
		if matchesArchive(arch, req) {
			matches = append(matches, copyArchive(arch))
		}
	}
	return matches, nil
}

func (s *InMemoryStore) UpdateRetrievalStats(_ context.Context, id string, retrievedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arch, ok := s.archives[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	arch.RetrievedCount++
	at := retrievedAt
	arch.LastRetrievedAt = &at
	return nil
}

func matchesArchive(arch *Archive, req RetrievalRequest) bool {
	if req.ArchiveID != "" && arch.ID != req.ArchiveID {
		return false
	}
	if len(req.DataClassifications) > 0 &&
		!slices.Contains(req.DataClassifications, arch.Metadata.DataClassification) {
		return false
	}
	if len(req.RetentionPolicies) > 0 &&
		!slices.Contains(req.RetentionPolicies, arch.Metadata.RetentionPolicy) {
		return false
	}
	return true
}

func copyArchive(arch *Archive) *Archive {
	clone := *arch
	clone.Data = append([]byte(nil), arch.Data...)
	if arch.Metadata.Tags != nil {
		clone.Metadata.Tags = make(map[string]string, len(arch.Metadata.Tags))
		for k, v := range arch.Metadata.Tags {
			clone.Metadata.Tags[k] = v
		}
	}
	if arch.LastRetrievedAt != nil {
		at := *arch.LastRetrievedAt
		clone.LastRetrievedAt = &at
	}
	return &clone
}
