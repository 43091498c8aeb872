package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/domain"
	"rollcall/internal/session"
)

// profileServer records the Authorization headers of profile lookups and
// answers like the real API: 401 without a token, 404 for unknown
// identities, 201 for registrations.
type profileServer struct {
	mu          sync.Mutex
	authHeaders []string
}

func (s *profileServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"unauthorized"}`))
			return
		}
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"profile not found"}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"identity_id":"u1@x.com","email":"u1@x.com","role":"student"}`))
		}
	})
}

func (s *profileServer) seenHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func TestLoginProviderAuthenticatesProfileLookup(t *testing.T) {
	ps := &profileServer{}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	client := NewClient(srv.URL, "")
	provider := newDevProvider("test-secret", time.Hour, func(token string) {
		client.Token = token
	})
	machine := session.NewMachine(provider, &restStore{client: client}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = machine.Run(ctx) }()

	require.NoError(t, machine.SubmitCredentials(ctx, "u1@x.com", "pw"))

	snap, err := waitForResting(machine, 2*time.Second)
	require.NoError(t, err)

	// Unknown identity lands in role selection, not unauthenticated: the
	// lookup triggered by the signed_in event must carry the fresh token.
	require.Equal(t, session.StateAwaitingRole, snap.State)
	headers := ps.seenHeaders()
	require.NotEmpty(t, headers)
	for _, h := range headers {
		assert.Equal(t, "Bearer "+provider.token, h)
	}

	// Role selection registers through the same authenticated client.
	require.NoError(t, machine.SelectRole(ctx, "student"))
	assert.Equal(t, session.StateAuthenticated, machine.Snapshot().State)
}

func TestRestStoreErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"profile missing not found"}`))
		case strings.Contains(r.URL.Path, "profiles"):
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":409,"message":"role already resolved"}`))
		}
	}))
	defer srv.Close()

	store := &restStore{client: NewClient(srv.URL, "tok")}

	_, err := store.Get(context.Background(), "missing")
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = store.Register(context.Background(), "u1", "u1@x.com", "faculty")
	var conflict *domain.ConflictError
	assert.True(t, errors.As(err, &conflict))
}
