package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectServer answers /hop/N with a redirect to /hop/N-1 and /hop/0 with 200.
func redirectServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if n == 0 {
			fmt.Fprint(w, "payload")
			return
		}
		// Alternate between relative and absolute locations.
		if n%2 == 0 {
			w.Header().Set("Location", fmt.Sprintf("/hop/%d", n-1))
		} else {
			w.Header().Set("Location", fmt.Sprintf("http://%s/hop/%d", r.Host, n-1))
		}
		w.WriteHeader(http.StatusFound)
		fmt.Fprint(w, "redirect body that must be drained")
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchRedirectBound(t *testing.T) {
	tests := []struct {
		name      string
		hops      int
		wantErr   bool
		wantCalls int32
	}{
		{name: "direct", hops: 0, wantCalls: 1},
		{name: "one_redirect", hops: 1, wantCalls: 2},
		{name: "ten_redirects", hops: 10, wantCalls: 11},
		{name: "eleven_redirects", hops: 11, wantErr: true, wantCalls: 11},
		{name: "twenty_redirects", hops: 20, wantErr: true, wantCalls: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			server := redirectServer(t, &requests)

			body, err := New().Fetch(context.Background(), fmt.Sprintf("%s/hop/%d", server.URL, tt.hops))
			if tt.wantErr {
				var tooMany *TooManyRedirectsError
				require.ErrorAs(t, err, &tooMany)
				assert.Equal(t, MaxRedirects+1, tooMany.Redirects)
				assert.Nil(t, body)
			} else {
				require.NoError(t, err)
				defer body.Close()
				data, err := io.ReadAll(body)
				require.NoError(t, err)
				assert.Equal(t, "payload", string(data))
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&requests))
		})
	}
}

func TestFetchTerminalStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		location   string
	}{
		{name: "404_not_found", statusCode: http.StatusNotFound},
		{name: "500_server_error", statusCode: http.StatusInternalServerError},
		{name: "redirect_without_location", statusCode: http.StatusFound},
		{name: "204_no_content", statusCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			body, err := New().Fetch(context.Background(), server.URL+"/asset.xz")
			assert.Nil(t, body)

			var failed *DownloadFailedError
			require.ErrorAs(t, err, &failed)
			assert.Equal(t, tt.statusCode, failed.StatusCode)
			assert.Contains(t, err.Error(), fmt.Sprintf("(status code: %d)", tt.statusCode))
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	_, err := New().Fetch(context.Background(), serverURL)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, serverURL, transport.URL)
}

func TestFetchTransportErrorMidChain(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, deadURL+"/gone", http.StatusMovedPermanently)
	}))
	defer server.Close()

	_, err := New().Fetch(context.Background(), server.URL)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, deadURL+"/gone", transport.URL)
}

func TestFetchUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	body, err := New(WithUserAgent("gadgetfetch/test")).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	body.Close()

	assert.Equal(t, "gadgetfetch/test", got)
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New().Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := New().Fetch(context.Background(), "://missing-scheme")

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}
