package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client executes requests against the backend with one-shot failover.
//
// A logical request is a two-state machine: attempt on the endpoint the
// EndpointStore currently believes in; on any failure (transport error or
// non-2xx) switch to the other member of the fixed pair, persist the switch
// immediately, and retry exactly once. A failed retry surfaces the retry's
// error; the first error is discarded. Either success re-persists the winner.
//
// The optimistic persist-before-verify on the switch is intentional: it makes
// the common "alternate now works" case free next time, at the cost of a
// failed retry still leaving the alternate recorded as current.
type Client struct {
	Endpoints *EndpointStore
	HTTP      *http.Client
	Logger    *Logger
}

func NewClient(endpoints *EndpointStore, logger *Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		Endpoints: endpoints,
		HTTP:      &http.Client{Timeout: timeout},
		Logger:    logger,
	}
}

// RequestError is the terminal failure of a logical request; Endpoint names
// the base URL the final attempt ran against.
type RequestError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// do returns the response body and the endpoint the winning attempt ran
// against. The endpoint comes straight from the attempt, not from a re-read
// of the store, so it stays accurate even when the Remember write fails.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, string, error) {
	reqID := uuid.NewString()

	first := c.Endpoints.Current()
	data, err := c.attempt(ctx, first, method, path, body)
	if err == nil {
		c.Endpoints.Remember(first)
		return data, first, nil
	}

	second := c.Endpoints.Other(first)
	c.Endpoints.Remember(second)
	c.Logger.Warn("request failover", map[string]interface{}{
		"request_id": reqID,
		"path":       path,
		"from":       first,
		"to":         second,
		"error":      err.Error(),
	})

	data, err = c.attempt(ctx, second, method, path, body)
	if err != nil {
		c.Logger.Error("request failed on both endpoints", map[string]interface{}{
			"request_id": reqID,
			"path":       path,
			"endpoint":   second,
			"error":      err.Error(),
		})
		return nil, "", err
	}
	c.Endpoints.Remember(second)
	return data, second, nil
}

// attempt runs one HTTP exchange. Any status outside [200,300) is a failure
// carrying the status code and a best-effort stringification of the body.
func (c *Client) attempt(ctx context.Context, base, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Endpoint: base, Err: err}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return nil, &RequestError{Endpoint: base, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: base, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: base, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Endpoint: base,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", string(data)),
		}
	}
	return data, nil
}

// Health probes /health; any 2xx body is success, content ignored.
// Returns the endpoint that answered.
func (c *Client) Health(ctx context.Context) (string, error) {
	_, endpoint, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return "", err
	}
	return endpoint, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	data, _, err := c.do(ctx, http.MethodPost, "/chat", req)
	if err != nil {
		return nil, err
	}
	var out ChatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &out, nil
}

func (c *Client) Reset(ctx context.Context, sessionID string) error {
	_, _, err := c.do(ctx, http.MethodPost, "/reset", ResetRequest{SessionID: sessionID})
	return err
}

func (c *Client) Recommend(ctx context.Context, topic string, n int) ([]string, error) {
	if n <= 0 {
		n = 5
	}
	path := "/recommend/" + url.PathEscape(topic) + "?num_recommendations=" + strconv.Itoa(n)
	data, _, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return words, nil
}
