package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 4 << 20

// Client talks to the BlogHub REST backend
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an unauthenticated client. baseURL is the API root without the /api suffix.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// WithTokenSource returns a copy that sends a bearer token from ts on every request.
// The copy reuses this client's transport.
func (c *Client) WithTokenSource(ctx context.Context, ts oauth2.TokenSource) *Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return &Client{
		baseURL: c.baseURL,
		http:    oauth2.NewClient(ctx, ts),
	}
}

// APIError is a failed call, either a non-2xx status or a success=false envelope.
// Fields holds the backend's per-field validation messages, if any.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("content api %d: %s", e.Status, e.Message)
}

// Detail is the message followed by each field error, fields in name order
func (e *APIError) Detail() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap lets callers match the status class with errors.Is
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return errors.ErrInvalidRequest
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrNotAdmin
	case http.StatusNotFound:
		return errors.ErrNotFound
	default:
		return errors.ErrUpstream
	}
}

// envelope is the backend's standard response wrapper
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// status is decoded first to catch success=false with a 2xx code
type status struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

// fields flattens the errors member. The backend sends either
// {"field": ["msg", ...]}, {"field": "msg"} or a bare string.
func (s status) fields() map[string][]string {
	if len(s.Errors) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(s.Errors, &raw); err != nil {
		var single string
		if json.Unmarshal(s.Errors, &single) == nil && single != "" {
			return map[string][]string{"non_field_errors": {single}}
		}
		return nil
	}

	out := make(map[string][]string, len(raw))
	for name, value := range raw {
		var list []string
		if json.Unmarshal(value, &list) == nil {
			if len(list) > 0 {
				out[name] = list
			}
			continue
		}
		var single string
		if json.Unmarshal(value, &single) == nil && single != "" {
			out[name] = []string{single}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s status) text(fallback string) string {
	switch {
	case s.Message != "":
		return s.Message
	case s.Detail != "":
		return s.Detail
	default:
		return fallback
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[contentapi %s %s] marshal: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("[contentapi %s %s] new request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("[contentapi %s %s] %w: %v", method, path, errors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("[contentapi %s %s] read body: %w", method, path, err)
	}

	var st status
	_ = json.Unmarshal(raw, &st)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: st.text(http.StatusText(resp.StatusCode)), Fields: st.fields()}
	}
	if st.Success != nil && !*st.Success {
		return &APIError{Status: resp.StatusCode, Message: st.text("request was not successful"), Fields: st.fields()}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("[contentapi %s %s] %w: decode: %v", method, path, errors.ErrUpstream, err)
	}
	return nil
}
