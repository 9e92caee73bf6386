package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the marketplace admin REST API.
//
// GET list-loads are idempotent and retried with exponential backoff;
// mutating requests (bulk actions, create/update/delete) are issued exactly
// once and never auto-retried; a failed mutation is the user's to re-trigger.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	// MaxAttempts bounds GET retries (total attempts, not extra retries).
	MaxAttempts int
	// backoffBase is the first retry delay; doubled per attempt. Overridden in
	// tests to keep them fast.
	backoffBase time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:       strings.TrimSpace(token),
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		MaxAttempts: 3,
		backoffBase: 250 * time.Millisecond,
	}
}

// envelope is the wire shape every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []fieldError    `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination is the server-reported pagination block of a list response.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// ListResult is one page of a collection. Items stay raw so each page decodes
// into its own record type.
type ListResult struct {
	Items      []json.RawMessage `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// List fetches one page of collection with the given query parameters.
func (c *Client) List(ctx context.Context, collection string, params url.Values) (*ListResult, error) {
	u := c.BaseURL + "/" + url.PathEscape(collection)
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}

	var body []byte
	var lastErr error
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		body, lastErr = c.do(ctx, http.MethodGet, u, "", nil)
		if lastErr == nil {
			break
		}
		if !retryable(lastErr) {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	var res ListResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("list %s: decode: %w", collection, err)
	}
	return &res, nil
}

// Summary fetches the per-status counts shown in the stat strip above a list.
func (c *Client) Summary(ctx context.Context, collection string) (map[string]int, error) {
	body, err := c.do(ctx, http.MethodGet, c.BaseURL+"/"+url.PathEscape(collection)+"/summary", "", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]int
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("summary %s: decode: %w", collection, err)
	}
	return out, nil
}

// BulkAction posts a bulk operation on ids. Returns the server's message.
func (c *Client) BulkAction(ctx context.Context, collection, action string, ids []string, reason string) (string, error) {
	payload := struct {
		IDs    []string `json:"ids"`
		Action string   `json:"action"`
		Reason string   `json:"reason,omitempty"`
	}{IDs: ids, Action: action, Reason: reason}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodPost, c.BaseURL+"/"+url.PathEscape(collection)+"/bulk", "application/json", bytes.NewReader(b))
}

// Create posts a new record as JSON.
func (c *Client) Create(ctx context.Context, collection string, record any) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodPost, c.BaseURL+"/"+url.PathEscape(collection), "application/json", bytes.NewReader(b))
}

// Update puts changed fields onto an existing record.
func (c *Client) Update(ctx context.Context, collection, id string, record any) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	u := c.BaseURL + "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
	return c.mutate(ctx, http.MethodPut, u, "application/json", bytes.NewReader(b))
}

// Delete removes a single record.
func (c *Client) Delete(ctx context.Context, collection, id string) (string, error) {
	u := c.BaseURL + "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
	return c.mutate(ctx, http.MethodDelete, u, "", nil)
}

// Attachment is a staged file for a multipart submission.
type Attachment struct {
	Field string
	Path  string
}

// CreateMultipart posts form fields plus staged file attachments.
func (c *Client) CreateMultipart(ctx context.Context, collection string, fields map[string]string, files []Attachment) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	for _, att := range files {
		f, err := os.Open(att.Path)
		if err != nil {
			return "", fmt.Errorf("attachment %s: %w", att.Path, err)
		}
		part, err := w.CreateFormFile(att.Field, filepath.Base(att.Path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return "", fmt.Errorf("attachment %s: %w", att.Path, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodPost, c.BaseURL+"/"+url.PathEscape(collection), w.FormDataContentType(), &buf)
}

func (c *Client) mutate(ctx context.Context, method, u, contentType string, body io.Reader) (string, error) {
	raw, err := c.doEnvelope(ctx, method, u, contentType, body)
	if err != nil {
		return "", err
	}
	return raw.Message, nil
}

func (c *Client) do(ctx context.Context, method, u, contentType string, body io.Reader) (json.RawMessage, error) {
	env, err := c.doEnvelope(ctx, method, u, contentType, body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) doEnvelope(ctx context.Context, method, u, contentType string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + u, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &TransportError{Op: method + " " + u, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(env.Message)}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Fields = fieldMap(env.Errors)
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", method, u, decodeErr)
	}
	if !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: orDefault(env.Message, "request failed"),
			Fields:  fieldMap(env.Errors),
		}
	}
	return &env, nil
}

func fieldMap(errs []fieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		if strings.TrimSpace(e.Field) != "" {
			m[e.Field] = e.Message
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
