package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agroAppAPI/internal/types/account"
	"agroAppAPI/internal/types/adwatch"
	"agroAppAPI/internal/types/premiumrequest"
)

const (
	colUsers     = "users"
	colAdWatches = "ad_watches"
	colRequests  = "premium_requests"

	// Firestore caps a WriteBatch at 500 operations.
	maxBatchSize = 500
)

// Firestore backs the entitlement store with the app's Firestore project.
// users/{id} documents hold the premium flags, users/{id}/ad_watches the
// rewarded-ad views, premium_requests the purchase requests.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) GetAccount(ctx context.Context, userID string) (*account.Account, error) {
	snap, err := s.client.Collection(colUsers).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user %s: %v", ErrUnavailable, userID, err)
	}

	var acc account.Account
	if err := snap.DataTo(&acc); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	acc.ID = snap.Ref.ID
	return &acc, nil
}

func (s *Firestore) SetPremium(ctx context.Context, userID string, active bool, until, activatedAt *time.Time) error {
	updates := []firestore.Update{{Path: "isPremium", Value: active}}
	if until != nil {
		updates = append(updates, firestore.Update{Path: "premiumUntil", Value: *until})
	}
	if activatedAt != nil {
		updates = append(updates, firestore.Update{Path: "premiumActivatedAt", Value: *activatedAt})
	}

	_, err := s.client.Collection(colUsers).Doc(userID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: update user %s: %v", ErrUnavailable, userID, err)
	}
	return nil
}

func (s *Firestore) CreateRequest(ctx context.Context, req *premiumrequest.Request) (string, error) {
	ref, _, err := s.client.Collection(colRequests).Add(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: create premium request: %v", ErrUnavailable, err)
	}
	return ref.ID, nil
}

func (s *Firestore) GetRequest(ctx context.Context, id string) (*premiumrequest.Request, error) {
	snap, err := s.client.Collection(colRequests).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get premium request %s: %v", ErrUnavailable, id, err)
	}

	var req premiumrequest.Request
	if err := snap.DataTo(&req); err != nil {
		return nil, fmt.Errorf("decode premium request %s: %w", id, err)
	}
	req.ID = snap.Ref.ID
	return &req, nil
}

func (s *Firestore) ListRecentRequests(ctx context.Context, limit int) ([]*premiumrequest.Request, error) {
	iter := s.client.Collection(colRequests).
		OrderBy("requestDate", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var requests []*premiumrequest.Request
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list premium requests: %v", ErrUnavailable, err)
		}

		var req premiumrequest.Request
		if err := snap.DataTo(&req); err != nil {
			return nil, fmt.Errorf("decode premium request %s: %w", snap.Ref.ID, err)
		}
		req.ID = snap.Ref.ID
		requests = append(requests, &req)
	}
	return requests, nil
}

func (s *Firestore) MarkApproved(ctx context.Context, id, approverID string, at time.Time) error {
	_, err := s.client.Collection(colRequests).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: premiumrequest.StatusApproved},
		{Path: "approvedAt", Value: at},
		{Path: "approvedBy", Value: approverID},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: approve premium request %s: %v", ErrUnavailable, id, err)
	}
	return nil
}

// ApproveTx flips the account and the request in one transaction, re-checking
// the pending status inside it to close the double-click race window.
func (s *Firestore) ApproveTx(ctx context.Context, userID, requestID, approverID string, until, at time.Time) error {
	userRef := s.client.Collection(colUsers).Doc(userID)
	reqRef := s.client.Collection(colRequests).Doc(requestID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(reqRef)
		if err != nil {
			return err
		}
		var req premiumrequest.Request
		if err := snap.DataTo(&req); err != nil {
			return err
		}
		if req.Status == premiumrequest.StatusApproved {
			return ErrConflict
		}

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "isPremium", Value: true},
			{Path: "premiumUntil", Value: until},
			{Path: "premiumActivatedAt", Value: at},
		}); err != nil {
			return err
		}
		return tx.Update(reqRef, []firestore.Update{
			{Path: "status", Value: premiumrequest.StatusApproved},
			{Path: "approvedAt", Value: at},
			{Path: "approvedBy", Value: approverID},
		})
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: approve premium request %s: %v", ErrUnavailable, requestID, err)
	}
	return nil
}

func (s *Firestore) adWatches(userID string) *firestore.CollectionRef {
	return s.client.Collection(colUsers).Doc(userID).Collection(colAdWatches)
}

func (s *Firestore) AddWatch(ctx context.Context, userID string, at time.Time) error {
	_, _, err := s.adWatches(userID).Add(ctx, adwatch.Watch{Date: at})
	if err != nil {
		return fmt.Errorf("%w: record ad watch for %s: %v", ErrUnavailable, userID, err)
	}
	return nil
}

func (s *Firestore) CountWatchesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	iter := s.adWatches(userID).Where("date", ">=", since).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: count ad watches for %s: %v", ErrUnavailable, userID, err)
		}
		count++
	}
	return count, nil
}

func (s *Firestore) DeleteWatchesBefore(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	iter := s.adWatches(userID).Where("date", "<", cutoff).Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: query expired ad watches for %s: %v", ErrUnavailable, userID, err)
		}
		refs = append(refs, snap.Ref)
	}

	removed := 0
	for len(refs) > 0 {
		chunk := refs
		if len(chunk) > maxBatchSize {
			chunk = chunk[:maxBatchSize]
		}

		batch := s.client.Batch()
		for _, ref := range chunk {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return removed, fmt.Errorf("%w: delete %d expired ad watches for %s: %v",
				ErrUnavailable, len(chunk), userID, err)
		}

		removed += len(chunk)
		refs = refs[len(chunk):]
	}
	return removed, nil
}
