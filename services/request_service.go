package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agroAppAPI/internal/plan"
	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/premiumrequest"
)

// ErrValidation marks a request rejected before any write happened.
var ErrValidation = errors.New("validation failed")

// RequestService validates and persists premium purchase requests.
type RequestService struct {
	requests store.RequestStore
	plans    *plan.Config
	now      func() time.Time
}

func NewRequestService(requests store.RequestStore, plans *plan.Config) *RequestService {
	return &RequestService{
		requests: requests,
		plans:    plans,
		now:      time.Now,
	}
}

// Submit creates exactly one pending request. A PayPal request needs the
// transaction id the user got back from the payment; a WhatsApp request does
// not, payment is coordinated out of band. Amount and currency are frozen
// from the plan config at submission time. The account record is never
// touched here.
func (s *RequestService) Submit(ctx context.Context, in *premiumrequest.SubmitInput) (*premiumrequest.Request, error) {
	method := premiumrequest.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	transactionID := strings.TrimSpace(in.TransactionID)
	if method == premiumrequest.PaymentPayPal && transactionID == "" {
		return nil, fmt.Errorf("%w: a PayPal transaction id is required", ErrValidation)
	}

	req := &premiumrequest.Request{
		UserID:        in.UserID,
		UserEmail:     strings.TrimSpace(in.UserEmail),
		PaymentMethod: method,
		TransactionID: transactionID,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        premiumrequest.StatusPending,
		RequestDate:   s.now().UTC(),
		Amount:        s.plans.Premium.Price,
		Currency:      s.plans.Premium.Currency,
	}

	id, err := s.requests.CreateRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create premium request: %w", err)
	}
	req.ID = id
	return req, nil
}
