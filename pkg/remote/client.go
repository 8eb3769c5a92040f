package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ClientConfig configures the HTTP client for the hosted notification API.
type ClientConfig struct {
	BaseURL string        `env:"NOTIFICATIONS_API_URL,required"`
	Timeout time.Duration `env:"NOTIFICATIONS_API_TIMEOUT" envDefault:"15s"`
}

// TokenSource supplies the current credential token per request, so token
// rotation takes effect without rebuilding the client.
type TokenSource func() string

// Client implements Service over the VerifiedTutors HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets the bearer token supplier.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) { c.token = ts }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, limit int) (ListResult, error) {
	endpoint := c.baseURL + "/notifications"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var result ListResult
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

func (c *Client) MarkRead(ctx context.Context, ids ...string) error {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	return c.do(ctx, http.MethodPatch, c.baseURL+"/notifications/read", body, nil)
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, c.baseURL+"/notifications/read-all", nil, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/notifications/" + url.PathEscape(id)
	err := c.do(ctx, http.MethodDelete, endpoint, nil, nil)

	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUnexpectedStatus, e.code)
}

func (e *statusError) Unwrap() error { return ErrUnexpectedStatus }

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
