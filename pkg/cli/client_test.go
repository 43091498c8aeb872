package cli

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:8080/", "tok")
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
	assert.Equal(t, "tok", c.Token)
	assert.Equal(t, 30*time.Second, c.HTTPClient.Timeout)
}

func TestClientDoBuildsVersionedURL(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	q := url.Values{}
	q.Set("date", "2025-08-08")
	resp, err := c.Do(http.MethodGet, "/attendance", q, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "/v1/attendance", gotPath)
	assert.Equal(t, "date=2025-08-08", gotQuery)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClientDoDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":409,"message":"identity already registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Do(http.MethodPost, "/profiles", nil, map[string]string{"identity_id": "u1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.HTTPStatus)
	assert.Equal(t, 409, apiErr.Code)
	assert.Equal(t, "identity already registered", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "409")
}

func TestClientDoJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"record_id":"r1","identity_id":"u1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	var rec attendanceRecord
	err := c.DoJSON(http.MethodPost, "/attendance", nil, markRequest{IdentityID: "u1"}, &rec)
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.RecordID)
	assert.Equal(t, "u1", rec.IdentityID)
}
