package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroAppAPI/handlers"
	"agroAppAPI/internal/plan"
	"agroAppAPI/internal/types/premiumrequest"
	"agroAppAPI/services"
	"agroAppAPI/tests/helpers"
)

// TestPremiumRequestLifecycle simulates the complete flow: a free user files
// a PayPal request, the operator reviews and approves it, and the user comes
// out entitled.
func TestPremiumRequestLifecycle(t *testing.T) {
	// Setup
	mem := helpers.SetupMemoryStore(t)
	plans := plan.Default()

	entitlementService := services.NewEntitlementService(mem)
	requestService := services.NewRequestService(mem, plans)
	adminService := services.NewAdminService(mem, mem)

	premiumHandler := handlers.NewPremiumHandler(entitlementService, requestService, plans)
	adminHandler := handlers.NewAdminHandler(adminService)

	helpers.SeedAccount(t, mem, "u1", "alice@example.com")

	// Step 1: the user starts out non-premium
	t.Log("Step 1: User is free tier")

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/premium/status", nil)
	req1 = helpers.WithClerkID(req1, "u1")
	rr1 := httptest.NewRecorder()

	premiumHandler.GetPremiumStatus(rr1, req1)
	require.Equal(t, http.StatusOK, rr1.Code)

	var status map[string]bool
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &status))
	assert.False(t, status["isPremium"])

	// Step 2: the user submits a PayPal request
	t.Log("Step 2: User submits a PayPal request")

	body := `{"userEmail": "alice@example.com", "paymentMethod": "paypal", "transactionId": "TX123"}`
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/premium/request", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2 = helpers.WithClerkID(req2, "u1")
	rr2 := httptest.NewRecorder()

	premiumHandler.SubmitPremiumRequest(rr2, req2)
	require.Equal(t, http.StatusCreated, rr2.Code)

	var submitted premiumrequest.Request
	require.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &submitted))
	assert.Equal(t, premiumrequest.StatusPending, submitted.Status)
	assert.Equal(t, "TX123", submitted.TransactionID)

	// Step 3: the operator sees it pending
	t.Log("Step 3: Admin lists pending requests")

	req3 := httptest.NewRequest(http.MethodGet, "/api/v1/admin/premium-requests", nil)
	req3 = helpers.WithClerkID(req3, "admin1")
	rr3 := httptest.NewRecorder()

	adminHandler.ListPremiumRequests(rr3, req3)
	require.Equal(t, http.StatusOK, rr3.Code)

	var listed []premiumrequest.Request
	require.NoError(t, json.Unmarshal(rr3.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, submitted.ID, listed[0].ID)
	assert.Equal(t, premiumrequest.StatusPending, listed[0].Status)

	// Step 4: the operator approves
	t.Log("Step 4: Admin approves the request")

	req4 := httptest.NewRequest(http.MethodPost, "/api/v1/admin/premium-requests/"+submitted.ID+"/approve", nil)
	req4 = mux.SetURLVars(req4, map[string]string{"requestID": submitted.ID})
	req4 = helpers.WithClerkID(req4, "admin1")
	rr4 := httptest.NewRecorder()

	adminHandler.ApprovePremiumRequest(rr4, req4)
	require.Equal(t, http.StatusOK, rr4.Code)

	// Step 5: the user is now entitled
	t.Log("Step 5: User is premium")

	req5 := httptest.NewRequest(http.MethodGet, "/api/v1/premium/status", nil)
	req5 = helpers.WithClerkID(req5, "u1")
	rr5 := httptest.NewRecorder()

	premiumHandler.GetPremiumStatus(rr5, req5)
	require.Equal(t, http.StatusOK, rr5.Code)
	require.NoError(t, json.Unmarshal(rr5.Body.Bytes(), &status))
	assert.True(t, status["isPremium"])

	// Step 6: the audit trail shows who approved it
	t.Log("Step 6: Listing shows the approval")

	req6 := httptest.NewRequest(http.MethodGet, "/api/v1/admin/premium-requests", nil)
	req6 = helpers.WithClerkID(req6, "admin1")
	rr6 := httptest.NewRecorder()

	adminHandler.ListPremiumRequests(rr6, req6)
	require.Equal(t, http.StatusOK, rr6.Code)
	require.NoError(t, json.Unmarshal(rr6.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, premiumrequest.StatusApproved, listed[0].Status)
	assert.Equal(t, "admin1", listed[0].ApprovedBy)

	// Step 7: a second click on approve is rejected
	t.Log("Step 7: Duplicate approval is rejected")

	req7 := httptest.NewRequest(http.MethodPost, "/api/v1/admin/premium-requests/"+submitted.ID+"/approve", nil)
	req7 = mux.SetURLVars(req7, map[string]string{"requestID": submitted.ID})
	req7 = helpers.WithClerkID(req7, "admin1")
	rr7 := httptest.NewRecorder()

	adminHandler.ApprovePremiumRequest(rr7, req7)
	assert.Equal(t, http.StatusConflict, rr7.Code)
}
