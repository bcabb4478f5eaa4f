package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Client talks to a sync server on behalf of one presenter or viewer.
// Transport failures surface as ErrTransport after bounded retries; they
// never corrupt the caller's local document state.
type Client struct {
	baseURL  string
	identity string
	http     *http.Client

	// retry policy for FetchState/PushState
	maxAttempts  int
	retryBackoff time.Duration
}

// NewClient creates a client for the sync server at baseURL. identity may
// be empty for anonymous viewers of public presentations.
func NewClient(baseURL, identity string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		identity:     identity,
		http:         &http.Client{Timeout: 10 * time.Second},
		maxAttempts:  3,
		retryBackoff: 500 * time.Millisecond,
	}
}

// FetchState reads the shared state of a presentation, retrying transient
// failures with exponential backoff.
func (c *Client) FetchState(ctx context.Context, presentationID string) (*SharedState, error) {
	var state SharedState
	err := c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/api/presentations/"+url.PathEscape(presentationID)+"/state", nil)
		if err != nil {
			return err
		}
		return c.do(req, &state)
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// PushState applies a presenter write, retrying transient failures.
// Forbidden and not-found responses are terminal, not retried.
func (c *Client) PushState(ctx context.Context, presentationID string, update StateUpdate) (*SharedState, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}

	var state SharedState
	err = c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut,
			c.baseURL+"/api/presentations/"+url.PathEscape(presentationID)+"/state",
			bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.do(req, &state)
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// terminalError marks HTTP responses that retrying cannot fix.
type terminalError struct{ err error }

func (t terminalError) Error() string { return t.err.Error() }
func (t terminalError) Unwrap() error { return t.err }

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.identity != "" {
		req.Header.Set(identityHeader, c.identity)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
		}
		return nil
	case http.StatusForbidden:
		return terminalError{fmt.Errorf("%w: server rejected write", ErrForbidden)}
	case http.StatusNotFound:
		return terminalError{fmt.Errorf("presentation not found")}
	default:
		return fmt.Errorf("%w: server returned %s", ErrTransport, resp.Status)
	}
}

// withRetry runs fn up to maxAttempts times with exponential backoff,
// stopping early on terminal errors or context cancellation.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	backoff := c.retryBackoff
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var terminal terminalError
		if errors.As(lastErr, &terminal) {
			return terminal.err
		}
	}
	return lastErr
}

// Subscribe opens a websocket subscription and invokes fn for every
// shared-state snapshot until ctx is cancelled. Dropped connections
// reconnect with backoff; the caller's local animation keeps running
// meanwhile.
func (c *Client) Subscribe(ctx context.Context, presentationID string, fn func(*SharedState)) error {
	wsURL, err := c.websocketURL(presentationID)
	if err != nil {
		return err
	}

	backoff := c.retryBackoff
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}

		header := http.Header{}
		if c.identity != "" {
			header.Set(identityHeader, c.identity)
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
		if err != nil {
			log.Printf("[!] Sync subscribe failed, retrying in %v: %v", backoff, err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = c.retryBackoff

		if err := c.readLoop(ctx, conn, fn); err != nil {
			log.Printf("[!] Sync connection lost, reconnecting: %v", err)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, fn func(*SharedState)) error {
	defer conn.Close()

	// Close the socket when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var state SharedState
		if err := json.Unmarshal(payload, &state); err != nil {
			log.Printf("[!] Ignoring malformed state snapshot: %v", err)
			continue
		}
		fn(&state)
	}
}

func (c *Client) websocketURL(presentationID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/presentations/" + presentationID
	return u.String(), nil
}
