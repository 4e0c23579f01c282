// Package fetch issues HTTP GET requests and follows redirects itself, so the
// redirect bound and error reporting stay under the caller's control.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects = 10
	// DefaultUserAgent is the User-Agent header sent when none is configured
	DefaultUserAgent = "gadgetfetch/1.0"

	// drainLimit caps how much of a discarded body is read so the
	// connection can be reused.
	drainLimit = 64 << 10
)

// Fetcher performs GET requests with manual redirect handling.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets an overall timeout per request. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithTransport replaces the client's round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// New creates a Fetcher. The underlying client never follows redirects.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of the first 200 response reached from rawURL.
// The caller owns the returned stream and must close it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	current, err := url.Parse(rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	for redirects := 0; ; {
		resp, err := f.get(ctx, current)
		if err != nil {
			return nil, &TransportError{URL: current.String(), Err: err}
		}

		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		location := resp.Header.Get("Location")
		discard(resp)

		if !isRedirect(resp.StatusCode) || location == "" {
			return nil, &DownloadFailedError{
				URL:        current.String(),
				StatusCode: resp.StatusCode,
				Status:     statusText(resp),
			}
		}

		if redirects >= MaxRedirects {
			return nil, &TooManyRedirectsError{URL: current.String(), Redirects: redirects + 1}
		}
		redirects++

		next, err := current.Parse(location)
		if err != nil {
			return nil, &TransportError{URL: location, Err: fmt.Errorf("invalid redirect location: %w", err)}
		}
		current = next
	}
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	return f.client.Do(req)
}

func isRedirect(code int) bool {
	return code >= 300 && code < 400
}

// discard drains and closes a response body that will not be used.
func discard(resp *http.Response) {
	_, _ = io.CopyN(io.Discard, resp.Body, drainLimit)
	resp.Body.Close()
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
