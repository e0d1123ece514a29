// Package httpprobe provides an audit.Auditor implementation that issues a
// plain HTTP GET against the target, preferring HTTPS and falling back to HTTP.
package httpprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"moderation/pkg/audit"
)

// Client probes targets over HTTP. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the probe requests
}

// New constructs a Client that uses the provided http.Client. The caller
// controls timeouts and redirect policy through it.
func New(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Audit probes the target, trying https first and falling back to http when
// the secure endpoint is unreachable. A response in the 2xx or 3xx range marks
// the target accessible; any other status, or failure to connect over either
// scheme, marks it inaccessible.
func (c *Client) Audit(ctx context.Context, target string) (audit.Result, error) {
	var lastErr error
	for _, scheme := range []string{"https", "http"} {
		res, err := c.probe(ctx, scheme+"://"+target)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return audit.Result{}, fmt.Errorf("probe aborted: %w", ctx.Err())
		}
		lastErr = err
	}

	return audit.Result{
		Accessible: false,
		Reason:     fmt.Sprintf("target unreachable: %v", lastErr),
	}, nil
}

func (c *Client) probe(ctx context.Context, url string) (audit.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return audit.Result{}, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return audit.Result{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	// Drain so the connection can be reused; the body content is irrelevant.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	res := audit.Result{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		Server:     resp.Header.Get("Server"),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		res.Accessible = true
	} else {
		res.Reason = fmt.Sprintf("status %d", resp.StatusCode)
	}

	return res, nil
}

// Ensure Client conforms to the audit.Auditor interface at compile time.
var _ audit.Auditor = (*Client)(nil)
