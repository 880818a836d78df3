// Package backend is the HTTP adapter for the Kiran Fashion REST API.
//
// Every request reads the bearer token from the session carried by the
// context at call time. A 401 from any endpoint invalidates that session
// before the error is returned, so callers only need to propagate it.
// Reads (GET) are retried on transport failures and 5xx; mutations are not.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/logger"
)

var _ ports.Backend = (*Client)(nil)

const maxBodyBytes = 4 << 20

// Config configures the Client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	ReadRetries int
	RetryDelay  time.Duration // first backoff step, doubled per attempt
}

// Client implements ports.Backend over net/http.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	log        *logger.Logger

	users    *Resource[entity.User, dto.UserInput, wireUser]
	products *Resource[entity.Product, dto.ProductInput, wireProduct]
	sales    *Resource[entity.Sale, dto.SaleInput, wireSale]
	notes    *Resource[entity.Note, dto.NoteInput, wireNote]
}

// New builds the client. BaseURL must be absolute.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retries:    cfg.ReadRetries,
		retryDelay: cfg.RetryDelay,
		log:        log.Component("backend"),
	}
	c.users = &Resource[entity.User, dto.UserInput, wireUser]{c: c, path: "/users", convert: wireUser.toEntity}
	c.products = &Resource[entity.Product, dto.ProductInput, wireProduct]{c: c, path: "/products", convert: wireProduct.toEntity}
	c.sales = &Resource[entity.Sale, dto.SaleInput, wireSale]{c: c, path: "/sales", convert: wireSale.toEntity}
	c.notes = &Resource[entity.Note, dto.NoteInput, wireNote]{c: c, path: "/notes", convert: wireNote.toEntity}
	return c, nil
}

func (c *Client) Users() ports.ResourceGateway[entity.User, dto.UserInput]          { return c.users }
func (c *Client) Products() ports.ResourceGateway[entity.Product, dto.ProductInput] { return c.products }
func (c *Client) Sales() ports.ResourceGateway[entity.Sale, dto.SaleInput]          { return c.sales }
func (c *Client) Notes() ports.ResourceGateway[entity.Note, dto.NoteInput]          { return c.notes }

// Login exchanges credentials for a token. It is sent without a bearer token and
// a 401 here means bad credentials, so no session is invalidated.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: in, anonymous: true}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("backend: login response carried no token")
	}
	return out.Token, nil
}

// Me returns the profile behind the current token.
func (c *Client) Me(ctx context.Context) (*entity.SessionUser, error) {
	var w *wireUser
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me"}, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("backend: empty profile: %w", domain.ErrNotFound)
	}
	return w.toSessionUser(), nil
}

// Dashboard fetches the aggregate counters for r.
func (c *Client) Dashboard(ctx context.Context, r dto.DateRange) (*entity.Dashboard, error) {
	var w wireDashboard
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", query: r.Values()}, &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// ChangePassword sets a new password for in.UserID.
func (c *Client) ChangePassword(ctx context.Context, in dto.ChangePasswordRequest) (string, error) {
	return c.do(ctx, call{method: http.MethodPut, path: "/users/change-password", body: in}, nil)
}

type call struct {
	method    string
	path      string
	query     url.Values
	body      any
	anonymous bool
}

// do runs the call with the retry policy and decodes the envelope's data into out.
// It returns the envelope message.
func (c *Client) do(ctx context.Context, cl call, out any) (string, error) {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return "", fmt.Errorf("backend: encode %s %s: %w", cl.method, cl.path, err)
		}
		payload = b
	}

	attempts := 1
	if cl.method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.retryDelay << (attempt - 2)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		msg, err := c.once(ctx, cl, payload, out, attempt)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
	}
	return "", lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return errors.Is(err, domain.ErrUnavailable)
}

func (c *Client) once(ctx context.Context, cl call, payload []byte, out any, attempt int) (string, error) {
	u := c.base.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ts := ports.TokenSourceFrom(ctx)
	if !cl.anonymous && ts != nil {
		if tok := ts.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("backend: %s %s: %w", cl.method, cl.path, ctx.Err())
		}
		c.log.Warn().Err(err).Str("method", cl.method).Str("path", cl.path).Int("attempt", attempt).Msg("backend call failed")
		return "", fmt.Errorf("backend: %s %s: %w: %v", cl.method, cl.path, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("backend: read %s %s: %w: %v", cl.method, cl.path, domain.ErrUnavailable, err)
	}

	c.log.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Int("attempt", attempt).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, raw)
		if apiErr.Status == http.StatusUnauthorized && !cl.anonymous {
			c.log.Warn().Str("method", cl.method).Str("path", cl.path).Msg("backend rejected session token, signing out")
			if ts != nil {
				ts.Invalidate(ctx)
			}
		}
		return "", apiErr
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("backend: decode %s %s: %w", cl.method, cl.path, err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("backend: decode %s %s data: %w", cl.method, cl.path, err)
		}
	}
	return env.message(), nil
}
