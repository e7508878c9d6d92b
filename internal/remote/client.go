package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the hosted auth/data service. The auth API lives under
// /auth/v1 and the row API under /rest/v1; every request carries the public
// API key, bearer requests additionally carry the caller's access token.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New creates a client for the given service endpoint. An empty baseURL or
// apiKey yields a client that reports itself unconfigured; operations on it
// fail fast instead of dialing nowhere.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether endpoint and key are both present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

var errNotConfigured = &AuthError{Status: http.StatusServiceUnavailable, Code: "not_configured", Message: "remote service endpoint or key is missing"}

// do issues a JSON request and decodes the response body into dest (when
// dest is non-nil and the response has a body). Non-2xx responses are
// classified by classify.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, dest interface{}) error {
	if !c.Configured() {
		return errNotConfigured
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// remoteError is the union of error body shapes the service produces.
type remoteError struct {
	Code             interface{} `json:"code"`
	ErrorCode        string      `json:"error_code"`
	Msg              string      `json:"msg"`
	Message          string      `json:"message"`
	ErrorField       string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// classify reads an error response and normalizes it. Zero-row lookups from
// the row API become ErrNoRows; everything else becomes an *AuthError.
func classify(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)

	var re remoteError
	_ = json.Unmarshal(b, &re)

	code := re.ErrorCode
	if code == "" {
		if s, ok := re.Code.(string); ok {
			code = s
		}
	}
	if code == pgrstNoRows {
		return ErrNoRows
	}

	msg := re.Msg
	if msg == "" {
		msg = re.Message
	}
	if msg == "" {
		msg = re.ErrorDescription
	}
	if msg == "" {
		msg = re.ErrorField
	}
	if msg == "" {
		msg = strings.TrimSpace(string(b))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &AuthError{Status: resp.StatusCode, Code: code, Message: msg}
}
