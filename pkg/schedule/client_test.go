package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

const goodBody = `{"helltide": [{"id": "h1", "start": "2099-01-01T00:00:00Z"}]}`

func TestClientRefreshSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Occurrences[models.Helltide]) != 1 {
		t.Fatalf("expected 1 helltide occurrence, got %+v", snap.Occurrences)
	}
	if c.LastError() != "" {
		t.Fatalf("unexpected LastError: %q", c.LastError())
	}
}

func TestClientFailureKeepsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("initial Refresh: %v", err)
	}

	// Age the snapshot past the cache TTL so the next call really fetches.
	c.mu.Lock()
	c.snapshot.FetchedAt = time.Now().Add(-time.Minute)
	c.mu.Unlock()

	fail.Store(true)
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error from failing server")
	}

	snap := c.Snapshot()
	if len(snap.Occurrences[models.Helltide]) != 1 {
		t.Fatal("failed fetch must not clear the previous snapshot")
	}
	if c.LastError() == "" {
		t.Fatal("expected a user-visible error string")
	}
}

func TestClientCacheTTLSkipsFetch(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for i := 0; i < 3; i++ {
		if err := c.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh %d: %v", i, err)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Fatalf("expected 1 request within cache TTL, got %d", n)
	}
}

func TestClientDropsOverlappingRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(started)
		<-release
		w.Write([]byte(goodBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-started

	// A second refresh while one is outstanding is dropped, not queued.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("overlapping Refresh should be a silent no-op, got %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Fatalf("expected the in-flight guard to hold, got %d requests", n)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if len(c.Snapshot().Occurrences[models.Helltide]) != 1 {
		t.Fatal("first fetch's result was not applied")
	}
}
