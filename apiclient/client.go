// Package apiclient issues requests against the recruitment backend, attaching the
// session's bearer token and transparently re-authenticating once when it is rejected.
//
// A 401 on a protected request starts (or joins) a single in-flight refresh against the
// refresh endpoint. On success the original request is resubmitted exactly once with the
// new token; on failure the session is logged out and the refresh error is returned.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRefreshTimeout = 10 * time.Second
	defaultRefreshPath    = "/refresh"

	requestIDHeader = "X-Request-ID"
)

// Session is the client's view of the session store. The client reads tokens through it
// and calls back to update the access token or end the session; it never owns them.
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(accessToken string)
	Logout()
}

// Doer is implemented by *Client.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

var _ Doer = (*Client)(nil)

// Client sends requests to the backend on behalf of a Session.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        Session
	refresher      Refresher
	refreshPath    string
	refreshTimeout time.Duration
	refreshGroup   singleflight.Group
	logger         zerolog.Logger
	metrics        *metrics.Collector
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRefresher replaces the default refresh endpoint call.
func WithRefresher(r Refresher) Option {
	return func(c *Client) {
		c.refresher = r
	}
}

func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithRefreshTimeout bounds the refresh call so a hanging backend cannot stall every
// request waiting on it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.refreshTimeout = d
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, session Session, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient.New: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient.New: base URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("apiclient.New: base URL must include a host")
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		session: session,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if c.refreshPath == "" {
		c.refreshPath = defaultRefreshPath
	}
	if c.refreshTimeout == 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	if c.refresher == nil {
		c.refresher = &endpointRefresher{client: c}
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// pendingRequest tracks one logical call across its optional resubmission.
type pendingRequest struct {
	req     *Request
	id      string
	retried bool
}

// Do sends req. Responses other than 401 are returned unchanged: 2xx as (*Response, nil),
// other statuses as (*Response, *StatusError), transport failures as *NetworkError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	call := &pendingRequest{req: req, id: uuid.NewString()}
	logger := c.logger.With().Str("request_id", call.id).Str("request", req.String()).Logger()

	resp, sentWith, err := c.sendAuthorized(ctx, call)
	if !c.shouldReauthenticate(call, err) {
		return resp, err
	}

	outcome, refreshErr := c.refresh(ctx, sentWith)
	if refreshErr != nil {
		logger.Debug().Err(refreshErr).Msg("Refresh failed, not retrying")
		return nil, refreshErr
	}
	if outcome == refreshUnavailable {
		return resp, err
	}

	call.retried = true
	logger.Debug().Msg("Retrying with refreshed access token")
	resp, _, err = c.sendAuthorized(ctx, call)
	return resp, err
}

func (c *Client) shouldReauthenticate(call *pendingRequest, err error) bool {
	if err == nil || call.req.Anonymous || call.retried {
		return false
	}
	return apperrors.Is(err, ErrUnauthorized)
}

// sendAuthorized sends the call with the session's current access token and reports
// which token it used.
func (c *Client) sendAuthorized(ctx context.Context, call *pendingRequest) (*Response, string, error) {
	var bearer string
	if !call.req.Anonymous {
		bearer = c.session.AccessToken()
	}
	resp, err := c.send(ctx, call.req, bearer, call.id)
	return resp, bearer, err
}

// send performs a single round trip with no refresh handling.
func (c *Client) send(ctx context.Context, req *Request, bearer, requestID string) (*Response, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", req, ErrInvalidRequest, err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if requestID != "" {
		httpReq.Header.Set(requestIDHeader, requestID)
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, time.Since(start))
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, time.Since(start))
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("read body: %w", err)}
	}
	c.metrics.ObserveRequest(req.Method, httpResp.StatusCode, time.Since(start))

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}
	if !resp.isSuccess() {
		return resp, &StatusError{Method: req.Method, Path: req.Path, Response: resp}
	}
	return resp, nil
}

func (c *Client) resolve(req *Request) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", req, ErrInvalidRequest, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for key, values := range req.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
