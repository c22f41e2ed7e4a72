package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/premiumrequest"
)

// ErrAlreadyApproved guards the one-way pending -> approved transition
// against duplicate operator clicks.
var ErrAlreadyApproved = errors.New("premium request already approved")

const defaultListLimit = 50

// AdminService lists premium requests and performs manual approvals.
type AdminService struct {
	accounts store.AccountStore
	requests store.RequestStore
	now      func() time.Time
}

func NewAdminService(accounts store.AccountStore, requests store.RequestStore) *AdminService {
	return &AdminService{
		accounts: accounts,
		requests: requests,
		now:      time.Now,
	}
}

// ListRecent returns the newest requests first, pending and approved both,
// so the operator can audit history. Limit is capped at 50.
func (s *AdminService) ListRecent(ctx context.Context, limit int) ([]*premiumrequest.Request, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	requests, err := s.requests.ListRecentRequests(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list premium requests: %w", err)
	}
	return requests, nil
}

// Approve grants the requester one billing period of premium, counted from
// the approval moment, and marks the request approved. Re-approving the same
// request fails with ErrAlreadyApproved. A separate request for an already
// premium user resets the expiry to one period from now, it does not stack.
//
// When the store can commit both flips atomically it does; otherwise the
// account flip goes first so a partial failure leaves an entitled user with a
// still-pending request, never an approved request without the entitlement.
func (s *AdminService) Approve(ctx context.Context, requestID, approverID string) (*premiumrequest.Request, error) {
	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load premium request %s: %w", requestID, err)
	}
	if req.Status == premiumrequest.StatusApproved {
		return nil, ErrAlreadyApproved
	}

	now := s.now().UTC()
	until := addCalendarMonth(now)

	if tx, ok := s.requests.(store.TxApprover); ok {
		err = tx.ApproveTx(ctx, req.UserID, requestID, approverID, until, now)
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyApproved
		}
		if err != nil {
			return nil, fmt.Errorf("approve premium request %s: %w", requestID, err)
		}
	} else {
		if err := s.accounts.SetPremium(ctx, req.UserID, true, &until, &now); err != nil {
			return nil, fmt.Errorf("activate premium for %s: %w", req.UserID, err)
		}
		if err := s.requests.MarkApproved(ctx, requestID, approverID, now); err != nil {
			return nil, fmt.Errorf("mark premium request %s approved: %w", requestID, err)
		}
	}

	req.Status = premiumrequest.StatusApproved
	req.ApprovedAt = &now
	req.ApprovedBy = approverID
	return req, nil
}

// addCalendarMonth moves t one month ahead keeping the day of month, clamped
// to the target month's last day (Jan 31 -> Feb 28).
func addCalendarMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	// Day zero of month+2 normalizes to the last day of month+1.
	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
