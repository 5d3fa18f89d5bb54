// Package wordpress is the REST client for the headless WordPress CMS: JWT
// credential exchange, the current user's profile, posts, artists and
// countries. Every request runs through a chain of interceptors.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client is the content and identity API of the CMS.
type Client interface {
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	CurrentUser(ctx context.Context) (*User, error)
	ListPosts(ctx context.Context, q PostQuery) (*PostPage, error)
	Countries(ctx context.Context) ([]Post, error)
	Country(ctx context.Context, slug string) (*Post, error)
	UpdateFields(ctx context.Context, id int, acf ACF) (*Post, error)
}

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL      *url.URL
	hc           *http.Client
	interceptors []Interceptor
	invoke       Invoker
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithInterceptors appends interceptors to the chain. The first one given
// runs outermost.
func WithInterceptors(ics ...Interceptor) Option {
	return func(c *HTTPClient) { c.interceptors = append(c.interceptors, ics...) }
}

// New builds a client for the REST root at baseURL, e.g.
// "https://example.com/wp-json".
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}

	c := &HTTPClient{baseURL: u, hc: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	c.invoke = chain(c.roundTrip, c.interceptors...)
	return c, nil
}

// roundTrip is the innermost invoker. Statuses of 400 and above come back as
// *HTTPError with the body consumed.
func (c *HTTPClient) roundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	defer resp.Body.Close()

	he := &HTTPError{Status: resp.StatusCode, Method: req.Method, URL: req.URL.Path}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var wpErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wpErr) == nil {
		he.Code, he.Message = wpErr.Code, wpErr.Message
	}
	return nil, he
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	u.RawQuery = q.Encode()
	return u.String()
}

// do sends a request and decodes the JSON response into out when out is
// not nil. The response headers are returned for callers that need them.
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, in, out any) (http.Header, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.invoke(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %s %s: %w", ErrBadResponse, method, path, err)
		}
	}
	return resp.Header, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	in := map[string]string{"username": username, "password": password}
	var out AuthResponse
	if _, err := c.do(Anonymous(ctx), http.MethodPost, "/jwt-auth/v1/token", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	q := url.Values{"context": {"edit"}}
	if _, err := c.do(ctx, http.MethodGet, "/wp/v2/users/me", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (q PostQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Locale != "" {
		v.Set("lang", q.Locale.String())
	}
	if len(q.Categories) > 0 {
		ids := make([]string, len(q.Categories))
		for i, id := range q.Categories {
			ids[i] = strconv.Itoa(id)
		}
		v.Set("categories", strings.Join(ids, ","))
	}
	return v
}

// ListPosts fetches one page of posts. Totals come from the X-WP-Total and
// X-WP-TotalPages headers; a missing header leaves the value at zero.
func (c *HTTPClient) ListPosts(ctx context.Context, q PostQuery) (*PostPage, error) {
	var posts []Post
	h, err := c.do(ctx, http.MethodGet, "/wp/v2/posts", q.values(), nil, &posts)
	if err != nil {
		return nil, err
	}

	page := &PostPage{Posts: posts}
	page.Total, _ = strconv.Atoi(h.Get("X-WP-Total"))
	page.TotalPages, _ = strconv.Atoi(h.Get("X-WP-TotalPages"))
	return page, nil
}

func (c *HTTPClient) Countries(ctx context.Context) ([]Post, error) {
	var out []Post
	q := url.Values{"per_page": {"100"}}
	if _, err := c.do(ctx, http.MethodGet, "/wp/v2/countries", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Country looks a country up by slug. ErrNotFound when nothing matches.
func (c *HTTPClient) Country(ctx context.Context, slug string) (*Post, error) {
	var out []Post
	q := url.Values{"slug": {slug}}
	if _, err := c.do(ctx, http.MethodGet, "/wp/v2/countries", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("country %q: %w", slug, ErrNotFound)
	}
	return &out[0], nil
}

// UpdateFields writes custom fields of post id and returns the updated post.
func (c *HTTPClient) UpdateFields(ctx context.Context, id int, acf ACF) (*Post, error) {
	in := map[string]any{"acf": acf}
	var out Post
	path := "/wp/v2/posts/" + strconv.Itoa(id)
	if _, err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)
