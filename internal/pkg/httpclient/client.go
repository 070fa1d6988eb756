package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// MethodView is the non-standard verb one gateway uses for confirm and status lookups.
const MethodView = "VIEW"

// Client wraps resty for calls to payment gateways and the relay.
// Non-2xx answers are not errors: callers inspect Response.StatusCode.
type Client struct {
	r *resty.Client
}

// Response is the status and raw body of a finished call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into a generic map, keeping numbers as json.Number.
func (r *Response) JSON() (map[string]any, error) {
	out := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// New creates a client with a 30s timeout and no retries.
// Charge creation is not idempotent on every gateway, so retrying is opt-in.
func New() *Client {
	r := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "Checkout-Integration/1.0")

	return &Client{r: r}
}

// WithTimeout sets a custom timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.r.SetTimeout(d)
	return c
}

// WithRetry enables retries on transport errors.
func (c *Client) WithRetry(count int, wait, maxWait time.Duration) *Client {
	c.r.SetRetryCount(count).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxWait)
	return c
}

// RequestOption customizes a single request.
type RequestOption func(*resty.Request)

// Header sets a request header.
func Header(key, value string) RequestOption {
	return func(r *resty.Request) {
		if value != "" {
			r.SetHeader(key, value)
		}
	}
}

// Bearer sets "Authorization: Bearer <token>".
func Bearer(token string) RequestOption {
	return func(r *resty.Request) {
		if token != "" {
			r.SetAuthToken(token)
		}
	}
}

// BasicAuth sets HTTP basic credentials.
func BasicAuth(user, pass string) RequestOption {
	return func(r *resty.Request) {
		r.SetBasicAuth(user, pass)
	}
}

// Query adds a query parameter.
func Query(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetQueryParam(key, value)
	}
}

// Do sends method to url with an optional JSON body. Any verb is accepted,
// including MethodView.
func (c *Client) Do(ctx context.Context, method, url string, body any, opts ...RequestOption) (*Response, error) {
	req := c.r.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, opts...)
}

// Post sends a POST request with JSON body.
func (c *Client) Post(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, opts...)
}

