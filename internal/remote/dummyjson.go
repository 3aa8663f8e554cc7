package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public endpoint the first-run seed comes from.
	DefaultBaseURL = "https://dummyjson.com/todos"

	maxRetries   = 3
	initialDelay = 1 * time.Second
)

// Todo is one entry of the remote seed batch, as served on the wire.
type Todo struct {
	ID        int    `json:"id"`
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

type todosResponse struct {
	Todos []Todo `json:"todos"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// Client fetches the initial task batch from the remote list.
type Client struct {
	baseURL string
	client  *http.Client

	// retryDelay is the base backoff unit; overridable in tests.
	retryDelay time.Duration
}

// NewClient creates a new seed client. An empty baseURL selects the
// default public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		client:     &http.Client{},
		retryDelay: initialDelay,
	}
}

// FetchTodos performs the single read-only call of the seed source:
// GET the batch and decode it. Transient failures (network errors,
// 5xx, 429) are retried with exponential backoff.
func (c *Client) FetchTodos(ctx context.Context) ([]Todo, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		todos, retryable, err := c.fetch(ctx)
		if err == nil {
			return todos, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetch todos failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) fetch(ctx context.Context) (todos []Todo, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch todos: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("fetch todos: status %d: %s", resp.StatusCode, string(body))
	}

	var decoded todosResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false, fmt.Errorf("decode todos: %w", err)
	}
	return decoded.Todos, false, nil
}
