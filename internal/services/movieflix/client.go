package movieflix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"movieflix/internal/logging"
	"movieflix/internal/media"
	"movieflix/internal/services"
)

const component = "movieflix-api"

// Session is the slice of the local session the client reads and updates.
// Clear signs out and drops anything cached for the signed-in account.
type Session interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, user media.User) error
	Clear(ctx context.Context) error
}

// Client talks to the MovieFlix REST API.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	session         Session
	logger          *slog.Logger
	breakerFailures uint32
	breakerCooldown time.Duration
	breaker         *gobreaker.CircuitBreaker[*response]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSession attaches the session that supplies and stores the bearer token.
func WithSession(session Session) Option {
	return func(c *Client) {
		if session != nil {
			c.session = session
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBreaker tunes the circuit breaker: it opens after failures consecutive
// backend faults and tries again after cooldown.
func WithBreaker(failures int, cooldown time.Duration) Option {
	return func(c *Client) {
		if failures > 0 {
			c.breakerFailures = uint32(failures)
		}
		if cooldown > 0 {
			c.breakerCooldown = cooldown
		}
	}
}

// New creates a client rooted at baseURL, e.g. http://localhost:4000/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new client", "api base url required", nil)
	}
	c := &Client{
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		session:         noSession{},
		logger:          logging.NewNop(),
		breakerFailures: 5,
		breakerCooldown: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, component)
	c.breaker = c.newBreaker()
	return c, nil
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker[*response] {
	threshold := c.breakerFailures
	logger := c.logger
	return gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        component,
		MaxRequests: 1,
		Timeout:     c.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !isBackendFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
	})
}

type response struct {
	status int
	body   []byte
}

// request describes one API call.
type request struct {
	operation   string
	method      string
	path        string
	body        []byte
	contentType string
	fallback    string
}

func jsonRequest(operation, method, path string, payload any, fallback string) (request, error) {
	req := request{operation: operation, method: method, path: path, fallback: fallback}
	if payload == nil {
		return req, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("marshal request body: %w", err)
	}
	req.body = data
	req.contentType = "application/json"
	return req, nil
}

// do executes req and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = services.NewRequestID()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, c.logger)

	start := time.Now()
	res, err := c.breaker.Execute(func() (*response, error) {
		res, err := c.roundTrip(ctx, req, requestID)
		if err != nil {
			return nil, err
		}
		if res.status >= 500 {
			return nil, decodeAPIError(res.status, res.body, req.fallback)
		}
		return res, nil
	})
	latency := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			logging.WarnWithContext(logger, "backend call rejected", "breaker_open",
				logging.String(logging.FieldOperation, req.operation),
				logging.String(logging.FieldErrorHint, "backend failed repeatedly; retry after the cooldown"),
			)
			return services.Wrap(services.ErrTransient, component, req.operation, "backend temporarily unavailable", err)
		case isAPIError(err):
			logger.Warn("backend error", logging.String(logging.FieldOperation, req.operation), logging.Duration("latency", latency), logging.Error(err))
			return err
		default:
			logger.Warn("request failed", logging.String(logging.FieldOperation, req.operation), logging.Duration("latency", latency), logging.Error(err))
			return services.Wrap(services.ErrTransient, component, req.operation, req.fallback, err)
		}
	}

	logger.Debug("request completed",
		logging.String(logging.FieldOperation, req.operation),
		logging.Int("status", res.status),
		logging.Duration("latency", latency),
	)
	if res.status >= 400 {
		return decodeAPIError(res.status, res.body, req.fallback)
	}
	if out == nil || len(bytes.TrimSpace(res.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return services.Wrap(services.ErrTransient, component, req.operation, "decode response", err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req request, requestID string) (*response, error) {
	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token, err := c.session.Token(ctx); err == nil && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("movieflix request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type noSession struct{}

func (noSession) Token(context.Context) (string, error)          { return "", nil }
func (noSession) Save(context.Context, string, media.User) error { return nil }
func (noSession) Clear(context.Context) error                    { return nil }
