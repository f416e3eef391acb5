package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Header names the gateway manages.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderRequestID     = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// Request describes one logical call to the API.
type Request struct {
	Method string
	// Path is appended to the base URL, unless it is already an absolute http(s) URL.
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// SkipAuth sends the request without a bearer token. Login and refresh use it.
	SkipAuth bool
	// SkipRefresh surfaces a 401 as-is instead of refreshing and retrying.
	SkipRefresh bool
}

// RequestOption adjusts a Request built by the verb helpers.
type RequestOption func(*Request)

// WithSkipAuth omits the Authorization header.
func WithSkipAuth() RequestOption {
	return func(r *Request) { r.SkipAuth = true }
}

// WithSkipRefresh disables refresh-and-retry on 401.
func WithSkipRefresh() RequestOption {
	return func(r *Request) { r.SkipRefresh = true }
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// WithQuery adds query parameters; existing values for a key are kept.
func WithQuery(values url.Values) RequestOption {
	return func(r *Request) {
		if len(values) == 0 {
			return
		}
		if r.Query == nil {
			r.Query = url.Values{}
		}
		for k, vs := range values {
			for _, v := range vs {
				r.Query.Add(k, v)
			}
		}
	}
}

// Response is a successful (2xx) outcome.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body is the parsed JSON body, or "{}" when the server sent none or sent something
	// that is not JSON.
	Body []byte
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out interface{}) error {
	return json.Unmarshal(r.Body, out)
}
