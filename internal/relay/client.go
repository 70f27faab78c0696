package relay

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/techiral/go-content-backend/internal/config"
)

// Client forwards chat-completion requests to the OpenAI-compatible upstream.
// It is a read-only value after construction and safe for concurrent use.
type Client struct {
	cfg  config.UpstreamConfig
	http *http.Client
}

// NewClient builds a relay client from upstream configuration. The HTTP
// client carries no timeout of its own: buffered callers bound the call with
// a context deadline, and streaming relays must stay open for as long as the
// upstream keeps emitting.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{cfg: cfg, http: &http.Client{}}
}

// ChatCompletions forwards body verbatim to {base}/chat/completions and
// returns the raw upstream response. The caller owns resp.Body and decides
// whether to stream or buffer it.
//
// Errors: ErrMissingCredential when no API key is configured (no outbound
// call is made), *TransportError when the provider is unreachable. A
// non-success upstream status is NOT an error here; the response is
// returned as-is so the relay can pass status and body through unmodified.
func (c *Client) ChatCompletions(ctx context.Context, body io.Reader) (*http.Response, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	// Identification headers recommended by the provider.
	req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	req.Header.Set("X-Title", c.cfg.SiteTitle)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// Secondary proxies read-only GET queries to the secondary provider with the
// server-held credential appended as the `key` query parameter.
type Secondary struct {
	cfg  config.SecondaryConfig
	http *http.Client
}

// NewSecondary builds the read-only passthrough client.
func NewSecondary(cfg config.SecondaryConfig) *Secondary {
	return &Secondary{cfg: cfg, http: &http.Client{}}
}

// Get forwards the endpoint path and caller query to the secondary provider.
// The endpoint is a provider-relative path such as "search" or "videos";
// leading slashes are tolerated.
func (s *Secondary) Get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", s.cfg.APIKey)

	u := s.cfg.BaseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}
