// Package api is the HTTP client for the restaurant API. It holds no session
// state; the bearer token comes from a TokenSource on every request.
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
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token for a request. An empty token sends
// the request unauthenticated.
type TokenSource interface {
	Token() string
}

type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
	timeout    time.Duration
	log        logrus.FieldLogger

	mu     sync.RWMutex
	tokens TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests bounded by their context only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// New builds a client for the API rooted at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		dialer:     websocket.DefaultDialer,
		timeout:    defaultTimeout,
		log:        discardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SetTokenSource replaces the token source, for sessions built after the client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		c.log.WithError(err).WithField("path", path).Warn("request failed")
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, cancel, nil
}

// do sends a JSON request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, cancel, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Error}
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"code":   env.Code,
		}).Warn(apiErr.Error())
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return nil
}

// raw returns the body of a non-JSON response such as a PDF.
func (c *Client) raw(ctx context.Context, path string) ([]byte, string, error) {
	resp, cancel, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return nil, "", &Error{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Error}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func query(values url.Values) string {
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// BaseURL is the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
