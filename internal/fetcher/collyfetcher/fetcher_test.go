// Package collyfetcher_test tests the HTTP fetch collaborator.
package collyfetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/practicescout/internal/fetcher/collyfetcher"
	"github.com/leadscope/practicescout/internal/scout"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "practicescout-test", r.UserAgent())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Services</h1></body></html>"))
	}))
	defer srv.Close()

	f := collyfetcher.New(collyfetcher.Config{
		UserAgent: "practicescout-test",
		Timeout:   2 * time.Second,
	})

	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.ContentType, "text/html")
	assert.Contains(t, string(resp.Body), "Services")
	assert.Positive(t, resp.Duration)
}

func TestFetchSurfacesHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := collyfetcher.New(collyfetcher.Config{Timeout: 2 * time.Second})

	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestFetchConnectionFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	f := collyfetcher.New(collyfetcher.Config{Timeout: 2 * time.Second})

	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, scout.ErrTransient)
}

func TestFetchHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	f := collyfetcher.New(collyfetcher.Config{Timeout: 30 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
