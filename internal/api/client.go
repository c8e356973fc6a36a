package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/stranalyzer/internal/filter"
	"github.com/dreamware/stranalyzer/internal/storage"
)

// Paths served by the string analyzer API
const (
	PathHealth     = "/health"
	PathStrings    = "/strings"
	PathNLQuery    = "/strings/filter-by-natural-language"
	DefaultTimeout = 5 * time.Second
)

// Client talks to a string analyzer server over HTTP/JSON
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the server at baseURL (for example
// "http://127.0.0.1:8000")
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create stores value and returns the new record
func (c *Client) Create(ctx context.Context, value string) (storage.Record, error) {
	var rec storage.Record
	err := c.do(ctx, http.MethodPost, PathStrings, CreateRequest{Value: value}, &rec, http.StatusCreated)
	return rec, err
}

// Get fetches the record for value
func (c *Client) Get(ctx context.Context, value string) (storage.Record, error) {
	var rec storage.Record
	err := c.do(ctx, http.MethodGet, recordPath(value), nil, &rec, http.StatusOK)
	return rec, err
}

// Delete removes the record for value
func (c *Client) Delete(ctx context.Context, value string) error {
	return c.do(ctx, http.MethodDelete, recordPath(value), nil, nil, http.StatusNoContent)
}

// List fetches the stored records matching set
func (c *Client) List(ctx context.Context, set filter.Set) (ListResponse, error) {
	var out ListResponse
	path := PathStrings
	if q := set.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// Query runs a natural-language filter query
func (c *Client) Query(ctx context.Context, text string) (QueryResponse, error) {
	var out QueryResponse
	path := PathNLQuery + "?" + url.Values{"query": {text}}.Encode()
	err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, PathHealth, nil, &out, http.StatusOK)
	return out, err
}

func recordPath(value string) string {
	return PathStrings + "/" + url.PathEscape(value)
}

// do sends body as JSON (when non-nil), checks the status against want and
// decodes the response into out (when non-nil). Any other status is
// returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any, want ...int) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !slices.Contains(want, resp.StatusCode) {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Message = body.Error
	apiErr.Conflicts = body.Conflicts
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// StatusCode returns the HTTP status carried by err, or 0 if err did not
// come from a server response.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
