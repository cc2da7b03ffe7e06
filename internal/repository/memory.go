package repository

import (
	"context"
	"sync"

	"reclaim/internal/models"
)

// MemoryItemStore is an in-memory ItemStore. Listing preserves insertion
// order; reads return copies so callers never share mutable state with the
// store.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]models.Item
	order []string
}

// NewMemoryItemStore returns an empty in-memory ItemStore.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[string]models.Item)}
}

func (s *MemoryItemStore) Get(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, models.NewNotFoundError("Item", id)
	}
	return &item, nil
}

func (s *MemoryItemStore) Put(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryItemStore) ListAll(_ context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *MemoryItemStore) CountByStatus(_ context.Context, status models.ItemStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, item := range s.items {
		if item.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *MemoryItemStore) CountReported(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, item := range s.items {
		if item.ReportCount > 0 {
			n++
		}
	}
	return n, nil
}

func (s *MemoryItemStore) CountSpam(_ context.Context, threshold float64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, item := range s.items {
		if item.SpamScore >= threshold {
			n++
		}
	}
	return n, nil
}

// MemoryUserStore is an in-memory UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

// NewMemoryUserStore returns an empty in-memory UserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Get(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return &user, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if user := s.users[id]; user.Email == email {
			return &user, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}

func (s *MemoryUserStore) Put(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		s.order = append(s.order, user.ID)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) ListAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *MemoryUserStore) CountByStatus(_ context.Context, status models.UserStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, user := range s.users {
		if user.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *MemoryUserStore) CountReported(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, user := range s.users {
		if user.ReportCount > 0 {
			n++
		}
	}
	return n, nil
}

func (s *MemoryUserStore) CountSpam(_ context.Context, threshold float64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, user := range s.users {
		if user.SpamScore >= threshold {
			n++
		}
	}
	return n, nil
}

// MemoryClaimStore is an in-memory ClaimStore.
type MemoryClaimStore struct {
	mu     sync.RWMutex
	claims map[string]models.Claim
	order  []string
}

// NewMemoryClaimStore returns an empty in-memory ClaimStore.
func NewMemoryClaimStore() *MemoryClaimStore {
	return &MemoryClaimStore{claims: make(map[string]models.Claim)}
}

func (s *MemoryClaimStore) Get(_ context.Context, id string) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[id]
	if !ok {
		return nil, models.NewNotFoundError("Claim", id)
	}
	return &claim, nil
}

func (s *MemoryClaimStore) Put(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.ID]; !ok {
		s.order = append(s.order, claim.ID)
	}
	s.claims[claim.ID] = *claim
	return nil
}

func (s *MemoryClaimStore) ListAll(_ context.Context) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Claim, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.claims[id])
	}
	return out, nil
}

func (s *MemoryClaimStore) CountByStatus(_ context.Context, status models.ClaimStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, claim := range s.claims {
		if claim.Status == status {
			n++
		}
	}
	return n, nil
}
