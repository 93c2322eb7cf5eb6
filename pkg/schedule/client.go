package schedule

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

const (
	// DefaultURL is the public schedule endpoint.
	DefaultURL = "https://helltides.com/api/schedule"

	userAgent    = "hellwatch/0.1 (+https://github.com/hellwatch/hellwatch)"
	fetchTimeout = 10 * time.Second
	cacheTTL     = 30 * time.Second
)

// Snapshot is the result of one completed fetch. It is immutable; readers
// always see the most recently completed fetch as a whole.
type Snapshot struct {
	Occurrences map[models.Category][]models.Occurrence
	FetchedAt   time.Time
}

// Client polls the schedule API. A failed fetch keeps the previous snapshot
// and records a user-visible error string; it never clears existing data.
// Concurrent refreshes are dropped, not queued.
type Client struct {
	url  string
	http *http.Client

	inFlight atomic.Bool

	mu       sync.RWMutex
	snapshot Snapshot
	lastErr  string
}

// NewClient creates a client for the given endpoint. An empty url means
// DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: fetchTimeout},
	}
}

// Snapshot returns the last completed fetch's data. The zero Snapshot (nil
// map) means no fetch has succeeded yet.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// LastError returns the most recent fetch error string, empty after a
// successful fetch.
func (c *Client) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Refresh fetches the schedule unless a fetch is already in flight or the
// cached snapshot is younger than the cache TTL. The dropped-request case
// returns nil; callers keep triggering against the previous snapshot.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.RLock()
	fresh := !c.snapshot.FetchedAt.IsZero() && time.Since(c.snapshot.FetchedAt) < cacheTTL
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer c.inFlight.Store(false)

	occs, err := c.fetch(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err.Error()
		log.Printf("schedule: fetch failed, keeping previous snapshot: %v", err)
		return err
	}
	c.snapshot = Snapshot{Occurrences: occs, FetchedAt: time.Now()}
	c.lastErr = ""
	return nil
}

func (c *Client) fetch(ctx context.Context) (map[models.Category][]models.Occurrence, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return parseResponse(body)
}
