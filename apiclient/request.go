package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
)

// Request describes one backend call. Body is kept as bytes so the request can be
// resubmitted verbatim after a token refresh.
type Request struct {
	Method string
	Path   string // relative to the client's base URL
	Query  url.Values
	Header http.Header
	Body   []byte

	// Anonymous requests carry no bearer token and never trigger a refresh.
	Anonymous bool
}

func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Header: make(http.Header)}
}

// NewJSONRequest encodes v as the JSON request body.
func NewJSONRequest(method, path string, v any) (*Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("NewJSONRequest %s %s: %w: %w", method, path, apperrors.ErrInvalidRequest, err)
	}
	req := NewRequest(method, path)
	req.Header.Set("Content-Type", "application/json")
	req.Body = body
	return req, nil
}

// NewFormRequest encodes form as an application/x-www-form-urlencoded body.
func NewFormRequest(method, path string, form url.Values) *Request {
	req := NewRequest(method, path)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Body = []byte(form.Encode())
	return req
}

func (r *Request) String() string {
	return r.Method + " " + r.Path
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("Response.DecodeJSON: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("Response.DecodeJSON: %w", err)
	}
	return nil
}

func (r *Response) isSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// detail extracts the backend's {"detail": ...} message, falling back to the raw body.
func (r *Response) detail() string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(r.Body, &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(body.Detail, &msg); err == nil {
			return msg
		}
		return string(body.Detail)
	}
	return strings.TrimSpace(string(r.Body))
}
