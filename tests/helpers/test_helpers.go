package helpers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/account"
	"agroAppAPI/middleware"
)

// SetupMemoryStore returns a fresh in-memory entitlement store.
func SetupMemoryStore(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory()
}

// SeedAccount creates a free-tier user document.
func SeedAccount(t *testing.T, mem *store.Memory, userID, email string) {
	t.Helper()
	mem.PutAccount(&account.Account{
		ID:        userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
}

// WithClerkID returns the request with the Clerk user id on its context, the
// way ClerkAuthMiddleware would put it there.
func WithClerkID(r *http.Request, clerkID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ClerkIDKey, clerkID)
	return r.WithContext(ctx)
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	// Use a test secret key
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
