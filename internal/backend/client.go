package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"coachdash/config"
	"coachdash/internal/domain"
)

// RequestObserver receives the duration of every backend call, labelled by a
// stable endpoint name.
type RequestObserver interface {
	ObserveBackendRequest(endpoint string, status int, d time.Duration)
}

// Client talks to the remote REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observer   RequestObserver
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithObserver(o RequestObserver) Option {
	return func(cl *Client) { cl.observer = o }
}

func NewClient(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the {status, message, data} body most endpoints return.
type envelope struct {
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) failed() bool {
	s := strings.TrimSpace(string(e.Status))
	return s == "false" || s == `"error"` || s == `"fail"`
}

// payload returns the data member when present, the whole body otherwise.
// Earnings endpoints answer without an envelope.
func (e envelope) payload(body []byte) []byte {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return body
	}
	return e.Data
}

type request struct {
	endpoint    string
	method      string
	path        string
	token       string
	contentType string
	body        []byte
}

func jsonRequest(endpoint, method, path, token string, in interface{}) (request, error) {
	r := request{endpoint: endpoint, method: method, path: path, token: token}
	if in == nil {
		return r, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return r, fmt.Errorf("marshal %s body: %w", endpoint, err)
	}
	r.body = data
	r.contentType = "application/json"
	return r, nil
}

// do performs one call. Non-2xx statuses and bodies with status:false become
// *domain.BackendError carrying the backend message. When out is non-nil the
// payload is decoded into it. The backend message is returned on success.
func (c *Client) do(ctx context.Context, r request, out interface{}) (string, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.endpoint, 0, start)
		c.logger.Warn("backend request failed",
			zap.String("endpoint", r.endpoint),
			zap.Error(err),
		)
		return "", fmt.Errorf("%s request: %w: %w", r.endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(r.endpoint, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", r.endpoint, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && env.failed()) {
		c.logger.Info("backend rejected request",
			zap.String("endpoint", r.endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message),
		)
		return "", &domain.BackendError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		// Bodies that are not an object (a bare list) are the payload itself.
		payload := raw
		if decodeErr == nil {
			payload = env.payload(raw)
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return "", fmt.Errorf("decode %s payload: %w", r.endpoint, err)
		}
	}

	return env.Message, nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackendRequest(endpoint, status, time.Since(start))
	}
}
