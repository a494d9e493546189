// Package api provides the HTTP client for the dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/logging"
	"tickerdash/internal/security"
	"tickerdash/internal/store"
)

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// Client talks to the dashboard backend. Each method is exactly one round
// trip; nothing is retried.
type Client struct {
	baseURL    string
	session    store.SessionStore
	httpClient *http.Client
	logger     zerolog.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL that reads the bearer token from
// session on every authenticated call.
func NewClient(baseURL string, session store.SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		requestID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one backend round trip.
type call struct {
	op          string
	method      string
	path        string
	params      interface{} // encoded with go-querystring
	body        io.Reader
	contentType string
	auth        bool
}

func (c *Client) jsonCall(op, method, path string, payload interface{}) (call, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return call{}, fmt.Errorf("%s: marshal request: %w", op, err)
	}
	return call{
		op:          op,
		method:      method,
		path:        path,
		body:        bytes.NewReader(raw),
		contentType: "application/json",
		auth:        true,
	}, nil
}

// do performs the call and decodes a 2xx body into out (if non-nil).
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	endpoint := c.baseURL + cl.path
	if cl.params != nil {
		values, err := query.Values(cl.params)
		if err != nil {
			return fmt.Errorf("%s: encode query: %w", cl.op, err)
		}
		if encoded := values.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, cl.body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	req.Header.Set("Accept", "application/json")

	requestID := c.requestID()
	req.Header.Set("X-Request-ID", requestID)
	base := c.logger
	if l := logging.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		base = l
	}
	logger := logging.ForRequest(base, cl.op, requestID)

	if cl.auth && c.session != nil {
		token, ok, err := c.session.Get()
		if err != nil {
			return fmt.Errorf("%s: read session: %w", cl.op, err)
		}
		if ok {
			req.Header.Set("Authorization", "Bearer "+token)
			logger = logger.With().Str("token", security.MaskCredential(token)).Logger()
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = apperrors.NewUnreachableError(cl.op, err)
		logging.LogAPICall(logger, cl.method, cl.path, 0, time.Since(start), err)
		return err
	}
	defer resp.Body.Close()

	err = classify(cl.op, resp, out)
	logging.LogAPICall(logger, cl.method, cl.path, resp.StatusCode, time.Since(start), err)
	return err
}

// classify maps a response onto the client's error taxonomy.
// 401 is always distinguishable from every other failure.
func classify(op string, resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewRequestError(op, resp.StatusCode, fmt.Sprintf("invalid response body: %v", err))
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := parseDetail(raw)
	if resp.StatusCode == http.StatusUnauthorized {
		return apperrors.NewAuthError(op, detail)
	}
	return apperrors.NewRequestError(op, resp.StatusCode, detail)
}

// parseDetail extracts the {detail} field of an error body. The backend
// sends either a string or a list of validation issues.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var issues []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.Msg == "" {
				continue
			}
			if n := len(is.Loc); n > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", is.Loc[n-1], is.Msg))
			} else {
				msgs = append(msgs, is.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func pathSymbol(symbol string) string {
	return url.PathEscape(symbol)
}
