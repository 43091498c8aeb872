package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/domain"
)

func authedHandler(t *testing.T, secret string) (http.Handler, *domain.ContextIdentity) {
	t.Helper()
	v, err := NewHS256Validator(secret, "email")
	require.NoError(t, err)

	var seen domain.ContextIdentity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := domain.IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	})
	return Authenticator(v)(inner), &seen
}

func TestAuthenticator_ValidToken(t *testing.T) {
	handler, seen := authedHandler(t, "secret")

	token := makeToken("secret", jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", seen.ID)
	assert.Equal(t, "user@example.com", seen.Email)
}

func TestAuthenticator_MissingHeader(t *testing.T) {
	handler, _ := authedHandler(t, "secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAuthenticator_BadToken(t *testing.T) {
	handler, _ := authedHandler(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_MissingSubject(t *testing.T) {
	handler, _ := authedHandler(t, "secret")

	token := makeToken("secret", jwt.MapClaims{
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
