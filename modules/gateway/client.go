package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/common/logger"
	"github.com/guarzo/hrmapi/common/model"
)

// RefreshPath is the endpoint the default refresher posts to.
const RefreshPath = "/api/v1/auth/refresh"

// Gateway issues API requests with bearer-token injection and a single
// refresh-and-retry cycle on 401.
type Gateway struct {
	baseURL    string
	httpClient common.HttpClient
	tokens     common.TokenStore
	authClient common.AuthClient
	logger     *logger.Logger
	now        func() time.Time

	refreshGroup singleflight.Group

	calls           atomic.Int64
	refreshes       atomic.Int64
	refreshFailures atomic.Int64
	retries         atomic.Int64
	failures        atomic.Int64
}

// Stats is a snapshot of the gateway counters.
type Stats struct {
	Calls           int64
	Refreshes       int64
	RefreshFailures int64
	Retries         int64
	Failures        int64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithAuthClient replaces the built-in refresher, which posts to RefreshPath.
func WithAuthClient(authClient common.AuthClient) Option {
	return func(g *Gateway) { g.authClient = authClient }
}

// WithLogger sets the logger. Tokens are never logged.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithClock overrides time.Now, used to compute token expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// New creates a Gateway for the API at baseURL.
func New(baseURL string, httpClient common.HttpClient, tokens common.TokenStore, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.NewWithWriter(io.Discard, 0)
	}
	if g.authClient == nil {
		g.authClient = g
	}
	return g
}

// BaseURL returns the API origin requests are resolved against.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Stats returns the current counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		Calls:           g.calls.Load(),
		Refreshes:       g.refreshes.Load(),
		RefreshFailures: g.refreshFailures.Load(),
		Retries:         g.retries.Load(),
		Failures:        g.failures.Load(),
	}
}

// Send issues one logical request. A 401 on an authenticated request triggers at most
// one refresh and one retry; the retry's outcome is final.
//
// Non-2xx outcomes return *common.RequestError. When no response is obtained the error
// is *common.TransportError.
func (g *Gateway) Send(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	urlStr, err := g.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get(HeaderAccept) == "" {
		header.Set(HeaderAccept, contentTypeJSON)
	}
	if header.Get(HeaderRequestID) == "" {
		header.Set(HeaderRequestID, uuid.NewString())
	}

	var sentToken string
	if !req.SkipAuth {
		if access, ok := g.tokens.AccessToken(); ok {
			sentToken = access
			header.Set(HeaderAuthorization, "Bearer "+access)
		}
	}

	g.calls.Add(1)
	status, respHeader, data, err := g.execute(ctx, method, urlStr, header, req.Body)
	if err != nil {
		g.failures.Add(1)
		return nil, err
	}

	if status == http.StatusUnauthorized && !req.SkipAuth && !req.SkipRefresh {
		if tok, ok := g.refresh(ctx, sentToken); ok {
			header.Set(HeaderAuthorization, "Bearer "+tok.AccessToken)
			g.retries.Add(1)
			status, respHeader, data, err = g.execute(ctx, method, urlStr, header, req.Body)
			if err != nil {
				g.failures.Add(1)
				return nil, err
			}
		}
	}

	body := parseBody(data)
	if status < 200 || status >= 300 {
		g.failures.Add(1)
		return nil, common.NewRequestError(status, body)
	}

	return &Response{
		StatusCode: status,
		Header:     respHeader,
		Body:       body,
	}, nil
}

// GetJSON issues a GET and decodes the parsed body into out (nil skips decoding).
func (g *Gateway) GetJSON(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return g.doJSON(ctx, http.MethodGet, path, nil, out, opts...)
}

// PostJSON serializes body as JSON, issues a POST and decodes the result into out.
func (g *Gateway) PostJSON(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return g.doJSON(ctx, http.MethodPost, path, body, out, opts...)
}

// PatchJSON serializes body as JSON, issues a PATCH and decodes the result into out.
func (g *Gateway) PatchJSON(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return g.doJSON(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete issues a DELETE. A successful response carries no value.
func (g *Gateway) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return g.doJSON(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// RefreshToken exchanges a refresh token for a new pair at RefreshPath. It is the
// refresher used when no AuthClient is configured.
func (g *Gateway) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, common.ErrNoRefreshToken
	}

	var env model.Response[model.TokenPair]
	err := g.PostJSON(ctx, RefreshPath, model.RefreshRequest{RefreshToken: refreshToken}, &env, WithSkipAuth())
	if err != nil {
		return nil, err
	}
	if !env.Data.Complete() {
		return nil, common.ErrIncompleteTokenPair
	}
	return env.Data.OAuth2Token(g.now()), nil
}

func (g *Gateway) doJSON(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	req := Request{Method: method, Path: path}
	for _, opt := range opts {
		opt(&req)
	}

	if method == http.MethodPost || method == http.MethodPatch {
		header := http.Header{}
		header.Set(HeaderContentType, contentTypeJSON)
		// the JSON default wins; caller headers only fill keys it left unset
		for k, vs := range req.Header {
			if _, set := header[k]; !set {
				header[k] = vs
			}
		}
		req.Header = header

		if body != nil {
			b, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			req.Body = b
		}
	}

	resp, err := g.Send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// refresh runs the refresh cycle for a request that was sent with sentToken.
// Concurrent callers holding the same refresh token share one refresh call.
func (g *Gateway) refresh(ctx context.Context, sentToken string) (*oauth2.Token, bool) {
	refreshToken, ok := g.tokens.RefreshToken()
	if !ok {
		g.logger.Warn("unauthorized response and no refresh token stored")
		return nil, false
	}

	// another request already replaced the pair since this one was sent
	if current, ok := g.tokens.AccessToken(); ok && sentToken != "" && current != sentToken {
		return &oauth2.Token{AccessToken: current, RefreshToken: refreshToken}, true
	}

	ch := g.refreshGroup.DoChan(refreshToken, func() (interface{}, error) {
		// a flight for this token may have finished between the checks above and now
		if current, ok := g.tokens.RefreshToken(); ok && current != refreshToken {
			access, _ := g.tokens.AccessToken()
			return &oauth2.Token{AccessToken: access, RefreshToken: current}, nil
		}

		g.refreshes.Add(1)
		tok, err := g.authClient.RefreshToken(context.WithoutCancel(ctx), refreshToken)
		if err == nil && (tok == nil || tok.AccessToken == "" || tok.RefreshToken == "") {
			err = common.ErrIncompleteTokenPair
		}
		if err == nil {
			if setErr := g.tokens.SetTokens(tok.AccessToken, tok.RefreshToken); setErr != nil {
				err = fmt.Errorf("failed to persist refreshed tokens: %w", setErr)
			}
		}
		if err != nil {
			g.refreshFailures.Add(1)
			return nil, err
		}
		return tok, nil
	})

	select {
	case <-ctx.Done():
		g.logger.Warn("gave up waiting for token refresh", "error", ctx.Err())
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			g.logger.Warn("token refresh failed", "error", res.Err)
			return nil, false
		}
		g.logger.Info("access token refreshed", "shared", res.Shared)
		return res.Val.(*oauth2.Token), true
	}
}

// execute does the low-level HTTP exchange and reads the whole body.
func (g *Gateway) execute(ctx context.Context, method, urlStr string, header http.Header, body []byte) (int, http.Header, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = header.Clone()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, &common.TransportError{Method: method, URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		// an unreadable body is treated like an unparseable one
		g.logger.Warn("failed to read response body", "method", method, "url", urlStr, "error", readErr)
		data = nil
	}

	g.logger.Debug("api request",
		"method", method,
		"url", urlStr,
		"status", resp.StatusCode,
		"request_id", header.Get(HeaderRequestID),
	)
	return resp.StatusCode, resp.Header, data, nil
}

// buildURL joins baseURL and path and merges query parameters.
func (g *Gateway) buildURL(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		raw = g.baseURL + path
	}

	fullURL, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := fullURL.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		fullURL.RawQuery = q.Encode()
	}
	return fullURL.String(), nil
}

// parseBody returns data when it is valid JSON and "{}" otherwise.
func parseBody(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return []byte("{}")
	}
	return trimmed
}
