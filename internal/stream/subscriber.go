package stream

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Subscriber maintains a persistent SSE connection and invokes OnChange for
// every change notification. Lost connections are retried with exponential
// backoff, 1s doubling to a 30s ceiling, reset to 1s whenever a connection is
// established. Cancel the context to tear down; OnChange is never called
// after the context is done.
type Subscriber struct {
	URL      string
	OnChange func()
	Client   *http.Client
}

// Run blocks until ctx is canceled.
func (s *Subscriber) Run(ctx context.Context) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	backoff := initialBackoff
	for {
		connected, err := s.listen(ctx, client)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Debug("stream connection lost", "url", s.URL, "err", err)
		}
		if connected {
			backoff = initialBackoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// listen holds one connection open and dispatches its events. It reports
// whether the connection was established at all, so the caller can reset the
// backoff only on success.
func (s *Subscriber) listen(ctx context.Context, client *http.Client) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		// Heartbeat comments and field lines other than data are ignored.
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		if s.OnChange != nil {
			s.OnChange()
		}
	}
	return true, scanner.Err()
}
