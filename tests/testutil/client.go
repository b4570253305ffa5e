package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope is the JSON body every API response is wrapped in.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"request_id"`
	} `json:"error"`
}

// Response is a recorded API call.
type Response struct {
	Code     int
	Header   http.Header
	Envelope Envelope
}

// Decode unmarshals the data member into v.
func (r *Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NotEmpty(t, r.Envelope.Data, "response has no data")
	require.NoError(t, json.Unmarshal(r.Envelope.Data, v))
}

// ErrorCode returns the error code, or "" on success.
func (r *Response) ErrorCode() string {
	if r.Envelope.Error == nil {
		return ""
	}
	return r.Envelope.Error.Code
}

// APIClient drives an http.Handler in-process. Token and CompanyID, when
// set, are sent with every request.
type APIClient struct {
	Handler   http.Handler
	Token     string
	CompanyID string
}

// As returns a copy of the client acting with another token and company.
func (c APIClient) As(token, companyID string) *APIClient {
	c.Token = token
	c.CompanyID = companyID
	return &c
}

// Do sends a request with an optional JSON body.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.CompanyID != "" {
		req.Header.Set("X-Company-ID", c.CompanyID)
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)

	resp := &Response{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Envelope),
			"Failed to parse response body: %s", w.Body.String())
	}
	return resp
}

// Get is shorthand for Do(t, GET, path, nil).
func (c *APIClient) Get(t *testing.T, path string) *Response {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil)
}

// Post is shorthand for Do(t, POST, path, body).
func (c *APIClient) Post(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.Do(t, http.MethodPost, path, body)
}
