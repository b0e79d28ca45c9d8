package storeapi

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

	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

// Client represents a bookstore API client. It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
}

// RequestOption adjusts a single outgoing request
type RequestOption func(*http.Request)

// WithBearer authenticates the request. An empty token adds nothing.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithLanguage sets the lang header used for localized responses
func WithLanguage(lang string) RequestOption {
	return func(req *http.Request) {
		if lang != "" {
			req.Header.Set("lang", lang)
		}
	}
}

// NewClient creates a new bookstore API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Get issues a GET request with optional query parameters
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...RequestOption) (*Envelope, error) {
	target := c.config.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, path, opts)
}

// PostForm issues a POST request with a multipart/form-data body
func (c *Client) PostForm(ctx context.Context, path string, form *Form, opts ...RequestOption) (*Envelope, error) {
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, path, opts)
}

// PostJSON issues a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}, opts ...RequestOption) (*Envelope, error) {
	if payload == nil {
		payload = struct{}{}
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, opts)
}

func (c *Client) do(req *http.Request, path string, opts []RequestOption) (*Envelope, error) {
	req.Header.Set("Accept", "application/json")
	if c.config.DefaultLanguage != "" {
		req.Header.Set("lang", c.config.DefaultLanguage)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A cancelled caller is not a network failure.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Store API request failed", map[string]interface{}{
			"method": req.Method,
			"path":   path,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	logger.Debug("Store API response", map[string]interface{}{
		"method":      req.Method,
		"path":        path,
		"status_code": resp.StatusCode,
		"latency_ms":  time.Since(start).Milliseconds(),
	})

	var envelope Envelope
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := ErrHTTPStatus
		if resp.StatusCode == http.StatusUnauthorized {
			kind = ErrUnauthorized
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path, kind: kind}
		if decodeErr == nil {
			apiErr.Message = envelope.Message
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, decodeErr)
	}

	if !envelope.Status {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
			Path:       path,
			kind:       ErrRejected,
		}
	}

	return &envelope, nil
}

// IsCanceled reports whether err comes from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
