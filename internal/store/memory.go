package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agroAppAPI/internal/types/account"
	"agroAppAPI/internal/types/adwatch"
	"agroAppAPI/internal/types/premiumrequest"
)

// Memory is an in-memory store used by tests and local development. ReadErr
// and WriteErr, when set, make every read or write fail with that error so
// the degrade paths can be exercised.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]account.Account
	requests map[string]premiumrequest.Request
	watches  map[string][]adwatch.Watch

	ReadErr  error
	WriteErr error
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]account.Account),
		requests: make(map[string]premiumrequest.Request),
		watches:  make(map[string][]adwatch.Watch),
	}
}

// PutAccount seeds a user document.
func (m *Memory) PutAccount(acc *account.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.ID] = *acc
}

func (m *Memory) GetAccount(ctx context.Context, userID string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	acc, ok := m.accounts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := acc
	return &out, nil
}

func (m *Memory) SetPremium(ctx context.Context, userID string, active bool, until, activatedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	acc, ok := m.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	acc.IsPremium = active
	if until != nil {
		u := *until
		acc.PremiumUntil = &u
	}
	if activatedAt != nil {
		a := *activatedAt
		acc.PremiumActivatedAt = &a
	}
	m.accounts[userID] = acc
	return nil
}

func (m *Memory) CreateRequest(ctx context.Context, req *premiumrequest.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return "", m.WriteErr
	}
	stored := *req
	stored.ID = uuid.NewString()
	m.requests[stored.ID] = stored
	return stored.ID, nil
}

func (m *Memory) GetRequest(ctx context.Context, id string) (*premiumrequest.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	req, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := req
	return &out, nil
}

func (m *Memory) ListRecentRequests(ctx context.Context, limit int) ([]*premiumrequest.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	requests := make([]*premiumrequest.Request, 0, len(m.requests))
	for id := range m.requests {
		req := m.requests[id]
		requests = append(requests, &req)
	}
	// Newest first, ties broken by id so the order is deterministic.
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].RequestDate.Equal(requests[j].RequestDate) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].RequestDate.After(requests[j].RequestDate)
	})

	if len(requests) > limit {
		requests = requests[:limit]
	}
	return requests, nil
}

func (m *Memory) MarkApproved(ctx context.Context, id, approverID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	req, ok := m.requests[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = premiumrequest.StatusApproved
	req.ApprovedAt = &at
	req.ApprovedBy = approverID
	m.requests[id] = req
	return nil
}

func (m *Memory) AddWatch(ctx context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.watches[userID] = append(m.watches[userID], adwatch.Watch{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   at,
	})
	return nil
}

func (m *Memory) CountWatchesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	count := 0
	for _, w := range m.watches[userID] {
		if !w.Date.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteWatchesBefore(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	kept := m.watches[userID][:0]
	removed := 0
	for _, w := range m.watches[userID] {
		if w.Date.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	m.watches[userID] = kept
	return removed, nil
}
