package store

import (
	"context"
	"errors"
	"time"

	"agroAppAPI/internal/types/account"
	"agroAppAPI/internal/types/premiumrequest"
)

var (
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrUnavailable wraps transient I/O failures against the backing store.
	ErrUnavailable = errors.New("store: unavailable")
	// ErrConflict means a conditional write lost against a concurrent update.
	ErrConflict = errors.New("store: conflicting update")
)

// AccountStore reads and repairs the premium fields of user documents.
type AccountStore interface {
	GetAccount(ctx context.Context, userID string) (*account.Account, error)

	// SetPremium updates only the provided fields: the flag always, the
	// expiry and activation timestamps only when non-nil.
	SetPremium(ctx context.Context, userID string, active bool, until, activatedAt *time.Time) error
}

// RequestStore persists premium purchase requests.
type RequestStore interface {
	// CreateRequest stores the request and returns its generated id.
	CreateRequest(ctx context.Context, req *premiumrequest.Request) (string, error)

	GetRequest(ctx context.Context, id string) (*premiumrequest.Request, error)

	// ListRecentRequests returns up to limit requests, newest first.
	ListRecentRequests(ctx context.Context, limit int) ([]*premiumrequest.Request, error)

	MarkApproved(ctx context.Context, id, approverID string, at time.Time) error
}

// AdWatchStore tracks rewarded-ad views per user.
type AdWatchStore interface {
	AddWatch(ctx context.Context, userID string, at time.Time) error

	// CountWatchesSince counts watches dated at or after since.
	CountWatchesSince(ctx context.Context, userID string, since time.Time) (int, error)

	// DeleteWatchesBefore batch-deletes watches dated before cutoff and
	// reports how many were removed.
	DeleteWatchesBefore(ctx context.Context, userID string, cutoff time.Time) (int, error)
}

// TxApprover is implemented by stores that can flip the account entitlement
// and the request status in one atomic write. ApproveTx returns ErrConflict
// when the request is no longer pending at commit time.
type TxApprover interface {
	ApproveTx(ctx context.Context, userID, requestID, approverID string, until, at time.Time) error
}
