package fetch

import (
	"fmt"
)

// TooManyRedirectsError is returned when a redirect chain exceeds MaxRedirects.
type TooManyRedirectsError struct {
	URL       string // last URL that answered with a redirect
	Redirects int
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("too many redirects (%d) while fetching %s", e.Redirects, e.URL)
}

// DownloadFailedError is returned for any terminal status other than 200.
type DownloadFailedError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("unable to download: %s (status code: %d)", e.Status, e.StatusCode)
}

// TransportError wraps a failure below HTTP: DNS, TLS, connection resets,
// or a Location header that cannot be turned into a request.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
