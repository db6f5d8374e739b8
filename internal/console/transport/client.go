// Package transport is the console's HTTP client for the hub API. It wraps
// the four verbs the console uses, attaches the bearer token of the current
// session, decodes list and resource envelopes and converts every failure
// into an APIError carrying a user-presentable message.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// networkErrorMessage is shown whenever the request never produced an HTTP
// response: connection refused, DNS failure, timeout.
const networkErrorMessage = "Ошибка соединения с сервером"

// APIError is the single error type returned by the client. Status is the
// HTTP status code, or 0 when the request failed before reaching the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource supplies the current access token; an empty string means no
// Authorization header is sent.
type TokenSource func() string

// Client issues authenticated JSON requests against one hub base URL.
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. tokenSource may be nil
// for unauthenticated use.
func NewClient(baseURL string, tokenSource TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      tokenSource,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Get issues a GET and decodes the response into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("invalid request body: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: networkErrorMessage}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	return nil
}

// decodeError extracts the server's error message from the standard error
// envelope, falling back to the raw body or the HTTP status text.
func decodeError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: envelope.Error.Message}
	}

	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}
