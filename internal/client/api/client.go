// Package api is the HTTP client for the backend. Every authenticated request
// goes through a transport that attaches the current bearer token and reports
// authentication rejections to the session layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hkondo/secretbase/internal/client/session"
	"github.com/hkondo/secretbase/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// authTransport decorates every outgoing request with the session's bearer
// token. When the server answers 401 or 403 the stored session is invalidated
// before the response is handed back, so the UI learns about the expiry even
// if the caller ignores the error.
type authTransport struct {
	base    http.RoundTripper
	session *session.Manager
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.session.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_ = t.session.Invalidate(req.Context())
	}
	return resp, nil
}

func NewClient(baseURL string, sess *session.Manager, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		session: sess,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{base: http.DefaultTransport, session: sess},
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// mapError translates an HTTP status into one of the package sentinels,
// keeping the server's message as context.
func mapError(status int, body []byte) error {
	var er errorResponse
	msg := http.StatusText(status)
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", msg, ErrUnavailable)
	}
}

// do issues one request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("cannot encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return mapError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("cannot decode response: %w", err)
		}
	}
	return nil
}
