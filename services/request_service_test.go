package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroAppAPI/internal/plan"
	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/premiumrequest"
)

func newRequestFixture(t *testing.T) (*RequestService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := NewRequestService(mem, plan.Default())
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, mem
}

func TestSubmitPayPalRequiresTransactionID(t *testing.T) {
	svc, mem := newRequestFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &premiumrequest.SubmitInput{
		UserID:        "u1",
		UserEmail:     "alice@example.com",
		PaymentMethod: "paypal",
		TransactionID: "   ",
	})
	require.ErrorIs(t, err, ErrValidation)

	// Rejected before any write.
	requests, err := mem.ListRecentRequests(ctx, 50)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestSubmitRejectsUnknownMethod(t *testing.T) {
	svc, _ := newRequestFixture(t)

	_, err := svc.Submit(context.Background(), &premiumrequest.SubmitInput{
		UserID:        "u1",
		PaymentMethod: "stripe",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitWhatsAppWithoutReference(t *testing.T) {
	svc, mem := newRequestFixture(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, &premiumrequest.SubmitInput{
		UserID:        "u1",
		UserEmail:     "alice@example.com",
		PaymentMethod: "whatsapp",
		Notes:         "  will pay by bank transfer  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, premiumrequest.StatusPending, req.Status)
	assert.Equal(t, premiumrequest.PaymentWhatsApp, req.PaymentMethod)
	assert.Equal(t, "will pay by bank transfer", req.Notes)
	assert.Equal(t, 10.0, req.Amount)
	assert.Equal(t, "USD", req.Currency)

	requests, err := mem.ListRecentRequests(ctx, 50)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, req.ID, requests[0].ID)
}

func TestSubmitPayPalTrimsReference(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Submit(context.Background(), &premiumrequest.SubmitInput{
		UserID:        "u1",
		UserEmail:     "alice@example.com",
		PaymentMethod: "paypal",
		TransactionID: " TX123 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "TX123", req.TransactionID)
}

func TestSubmitSurfacesWriteFailure(t *testing.T) {
	svc, mem := newRequestFixture(t)
	mem.WriteErr = store.ErrUnavailable

	_, err := svc.Submit(context.Background(), &premiumrequest.SubmitInput{
		UserID:        "u1",
		PaymentMethod: "whatsapp",
	})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
