package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/comigor/bridge-go/internal/relay"
)

// APIError is a non-2xx answer from the relay.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the relay.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a client for the bridge relay API
type Client struct {
	base   string
	client *http.Client
}

// New creates a client for the relay at base, e.g. http://localhost:9999.
// A zero timeout means no timeout.
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying transport client, for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// Send creates a message. An empty typ lets the relay apply its default.
func (c *Client) Send(ctx context.Context, from, to, content, typ string) (relay.Message, error) {
	var out relay.MessageResponse
	req := relay.NewCreateRequest(from, to, content, typ)
	if err := c.do(ctx, http.MethodPost, "/messages", nil, req, &out); err != nil {
		return relay.Message{}, err
	}
	return out.Message, nil
}

// List returns messages, optionally filtered. Empty from or to means no
// filter on that side.
func (c *Client) List(ctx context.Context, from, to string) ([]relay.Message, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	var out relay.ListResponse
	if err := c.do(ctx, http.MethodGet, "/messages", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Unread returns unread messages, addressed to to when it is not empty.
func (c *Client) Unread(ctx context.Context, to string) ([]relay.Message, error) {
	q := url.Values{}
	if to != "" {
		q.Set("to", to)
	}
	var out relay.UnreadResponse
	if err := c.do(ctx, http.MethodGet, "/messages/unread", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Get fetches one message.
func (c *Client) Get(ctx context.Context, id int64) (relay.Message, error) {
	var out relay.Message
	if err := c.do(ctx, http.MethodGet, messagePath(id), nil, nil, &out); err != nil {
		return relay.Message{}, err
	}
	return out, nil
}

// MarkRead marks one message read and returns it.
func (c *Client) MarkRead(ctx context.Context, id int64) (relay.Message, error) {
	var out relay.MessageResponse
	if err := c.do(ctx, http.MethodPost, messagePath(id)+"/read", nil, nil, &out); err != nil {
		return relay.Message{}, err
	}
	return out.Message, nil
}

// Delete removes one message. Deleting an unknown id is not an error.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, messagePath(id), nil, nil, nil)
}

// Health returns the relay counters.
func (c *Client) Health(ctx context.Context) (relay.Health, error) {
	var out relay.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return relay.Health{}, err
	}
	return out, nil
}

func messagePath(id int64) string {
	return "/messages/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var er relay.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			apiErr.Message = er.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
