package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
	"accountd/pkg/platform/sentinel"
)

// InMemory keeps records in a map guarded by a mutex.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[domain.AccountID]models.AccountRecord
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[domain.AccountID]models.AccountRecord)}
}

func (s *InMemory) Create(_ context.Context, record *models.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[record.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.accounts[record.ID] = *record
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.AccountID) (*models.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

// ListByStatus returns records in creation order. No statuses means all.
func (s *InMemory) ListByStatus(_ context.Context, statuses ...models.Status) ([]*models.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AccountRecord, 0, len(s.accounts))
	for _, rec := range s.accounts {
		if len(statuses) > 0 && !slices.Contains(statuses, rec.Status()) {
			continue
		}
		r := rec
		out = append(out, &r)
	}
	sortRecords(out)
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, id domain.AccountID, fn TransitionFunc) (*models.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	s.accounts[id] = *next
	result := *next
	return &result, nil
}

func sortRecords(records []*models.AccountRecord) {
	slices.SortFunc(records, func(a, b *models.AccountRecord) int {
		return cmp.Or(
			a.CreatedAt.Compare(b.CreatedAt),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
}
