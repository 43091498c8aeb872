package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"rollcall/internal/domain"
)

// Authenticator validates the Bearer token on each request and stores the
// resulting identity in the context. Requests without a valid token get a
// 401 with the standard error payload.
func Authenticator(validator JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeStatusError(w, http.StatusUnauthorized, "missing Bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil || claims.Subject == "" {
				writeStatusError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			identity := domain.ContextIdentity{ID: claims.Subject}
			if claims.Email != nil {
				identity.Email = *claims.Email
			}
			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), identity)))
		})
	}
}

// writeStatusError writes the API's standard {code, message} error body,
// with code mirroring the HTTP status.
func writeStatusError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
