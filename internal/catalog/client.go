package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/five82/shelf/internal/logging"
)

// API is the book endpoint surface the detail controller depends on.
// It is implemented by *Client and can be faked in tests.
type API interface {
	FetchBook(ctx context.Context, token, id string) (Book, error)
	UpdateBook(ctx context.Context, token, id string, u Update) error
	DeleteBook(ctx context.Context, token, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the books HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Options configure a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // zero disables throttling
	Logger            *slog.Logger
}

const (
	defaultBaseURL   = "http://localhost:3000/api"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 64 << 10
)

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logging.Default(opts.Logger).With("component", "catalog"),
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchBook retrieves one book.
func (c *Client) FetchBook(ctx context.Context, token, id string) (Book, error) {
	if c == nil {
		return Book{}, fmt.Errorf("client is nil")
	}
	var payload bookEnvelope
	if err := c.do(ctx, http.MethodGet, "fetch", token, id, nil, &payload); err != nil {
		return Book{}, err
	}
	if payload.Book == nil {
		return Book{}, fmt.Errorf("decode response: missing book")
	}
	book := *payload.Book
	book.ID = id
	return book, nil
}

// UpdateBook replaces the editable fields of a book.
func (c *Client) UpdateBook(ctx context.Context, token, id string, u Update) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPut, "update", token, id, u, nil)
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, token, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "delete", token, id, nil, nil)
}

func (c *Client) bookURL(id string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + "/books/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, op, token, id string, body, dest any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("book id required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.bookURL(id), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("op", op, "book_id", id, "request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug("request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode}
		var eb errorBody
		if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
			if json.Unmarshal(data, &eb) == nil {
				apiErr.Message = strings.TrimSpace(eb.Message)
			}
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
