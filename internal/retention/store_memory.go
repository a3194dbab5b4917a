package retention

import (
	"context"
	"sync"
	"time"

	"chronicle/internal/domain"
)

// InMemoryStore keeps policies and audit records in process memory. It backs
// unit tests and single-node development setups; production uses the
// PostgreSQL store.
type InMemoryStore struct {
	mu       sync.RWMutex
	policies []Policy
	records  map[string]domain.AuditRecord
	order    []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]domain.AuditRecord)}
}

// AddPolicy registers a policy. Policies keep their insertion order.
func (s *InMemoryStore) AddPolicy(p Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = append(s.policies, p)
}

// AddRecord appends an audit record to the log.
func (s *InMemoryStore) AddRecord(r domain.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.records[r.ID] = r
}

func (s *InMemoryStore) ListActivePolicies(_ context.Context) ([]Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []Policy
	for _, p := range s.policies {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *InMemoryStore) SelectRecordsForArchival(_ context.Context, policy Policy, cutoff time.Time) ([]domain.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.AuditRecord
	for _, id := range s.order {
		r := s.records[id]
		if r.DataClassification != policy.DataClassification {
			continue
		}
		if r.Timestamp.After(cutoff) {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}

func (s *InMemoryStore) SelectRecordsForDeletion(_ context.Context, criteria DeletionCriteria) ([]DeletionTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var targets []DeletionTarget
	for _, id := range s.order {
		r := s.records[id]
		if !matchesCriteria(r, criteria) {
			continue
		}
		targets = append(targets, DeletionTarget{ID: r.ID, Hash: r.Hash})
	}
	return targets, nil
}

func (s *InMemoryStore) DeleteRecords(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := s.records[id]; !ok {
			continue
		}
		delete(s.records, id)
		deleted++
	}
	if deleted > 0 {
		remaining := s.order[:0]
		for _, id := range s.order {
			if _, ok := s.records[id]; ok {
				remaining = append(remaining, id)
			}
		}
		s.order = remaining
	}
	return deleted, nil
}

func (s *InMemoryStore) RecordExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok, nil
}

func matchesCriteria(r domain.AuditRecord, criteria DeletionCriteria) bool {
	if criteria.PrincipalID != "" && r.PrincipalID != criteria.PrincipalID {
		return false
	}
	if criteria.DataClassification != "" && r.DataClassification != criteria.DataClassification {
		return false
	}
	if criteria.RetentionPolicy != "" && r.RetentionPolicy != criteria.RetentionPolicy {
		return false
	}
	if !criteria.Before.IsZero() && !r.Timestamp.Before(criteria.Before) {
		return false
	}
	return true
}
