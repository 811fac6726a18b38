// Package api is the HTTP client for the offers backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/service"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// DefaultTimeout bounds every request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// Client talks to the backend REST API with a cookie session.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	jar         http.CookieJar
	sessions    service.KeyValueStore
	cacheBuster func() string
	timeout     time.Duration
}

var _ service.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithSessionStore persists the login cookie so separate runs share a session.
func WithSessionStore(store service.KeyValueStore) Option {
	return func(c *Client) {
		c.sessions = store
	}
}

// WithCacheBuster replaces the generator of the image "v" parameter.
func WithCacheBuster(fn func() string) Option {
	return func(c *Client) {
		c.cacheBuster = fn
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: api base url %q", common.ErrInvalidConfig, baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		timeout: DefaultTimeout,
		cacheBuster: func() string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
		// A redirect means the session expired and the backend is sending
		// us to its login page.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap classifies the response as common.ErrUnauthorized or common.ErrBackend.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || (e.StatusCode >= 300 && e.StatusCode < 400) {
		return common.ErrUnauthorized
	}
	return common.ErrBackend
}

type successResponse struct {
	Msg     string `json:"msg"`
	Success bool   `json:"success"`
}

// GetConfig fetches templates, programs and currencies.
func (c *Client) GetConfig(ctx context.Context) (model.BackendConfig, error) {
	var cfg model.BackendConfig
	if err := c.doJSON(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return model.BackendConfig{}, err
	}
	return cfg, nil
}

// AddProgram creates a loyalty program.
func (c *Client) AddProgram(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/programs", map[string]string{"name": name}, nil)
}

// DeleteProgram removes a loyalty program.
func (c *Client) DeleteProgram(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/programs/"+strconv.FormatInt(id, 10), nil, nil)
}

// AddCurrency creates a currency.
func (c *Client) AddCurrency(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/currencies", map[string]string{"code": code}, nil)
}

// DeleteCurrency removes a currency.
func (c *Client) DeleteCurrency(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/currencies/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListOffers returns every saved offer.
func (c *Client) ListOffers(ctx context.Context) ([]model.OfferRecord, error) {
	var records []model.OfferRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/searches", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateOffer posts a draft as a new offer.
func (c *Client) CreateOffer(ctx context.Context, draft model.OfferDraft) error {
	var resp successResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/searches", draft, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &StatusError{Method: http.MethodPost, Path: "/api/searches", StatusCode: http.StatusOK, Message: resp.Msg}
	}
	return nil
}

// DeleteOffer removes a saved offer.
func (c *Client) DeleteOffer(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/searches/"+strconv.FormatInt(id, 10), nil, nil)
}

// ImageURL is the address of an offer's rendered image. The "v" parameter
// defeats caches that remember an earlier miss.
func (c *Client) ImageURL(id int64) string {
	u := c.endpoint("/api/generate/" + strconv.FormatInt(id, 10))
	q := u.Query()
	q.Set("v", c.cacheBuster())
	u.RawQuery = q.Encode()
	return u.String()
}

// OpenImage starts downloading an offer image. The size is -1 when unknown.
func (c *Client) OpenImage(ctx context.Context, id int64) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(id), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch image %d: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, 0, statusError(req, resp)
	}
	return resp.Body, resp.ContentLength, nil
}

// DownloadImage writes an offer image to w.
func (c *Client) DownloadImage(ctx context.Context, id int64, w io.Writer) (int64, error) {
	body, _, err := c.OpenImage(ctx, id)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("failed to read image %d: %w", id, err)
	}
	return n, nil
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u
}

// doJSON sends body as JSON and decodes the response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path).String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("Backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(common.ErrBackend, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(req, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, common.ErrInvalidPayload, err)
	}
	return nil
}

func statusError(req *http.Request, resp *http.Response) error {
	e := &StatusError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return e
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload successResponse
	if json.Unmarshal(data, &payload) == nil && payload.Msg != "" {
		e.Message = payload.Msg
	} else if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		e.Message = strings.TrimSpace(string(data))
	}
	return e
}
