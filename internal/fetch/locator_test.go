// Unit tests for version discovery.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeServer answers HEAD requests for /cldr/<n>/core.zip with 200 for
// versions in [lo, hi] and 404 otherwise.
func probeServer(t *testing.T, lo, hi int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n int
		if _, err := fmt.Sscanf(r.URL.Path, "/cldr/%d/core.zip", &n); err != nil || n < lo || n > hi {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocate(t *testing.T) {
	t.Run("returns highest confirmed version and its URL", func(t *testing.T) {
		srv := probeServer(t, 29, 42)

		loc := &Locator{
			Template:  srv.URL + "/cldr/%d/core.zip",
			Start:     29,
			MaxProbes: 100,
		}
		got, err := loc.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, got.Number)
		assert.Equal(t, srv.URL+"/cldr/42/core.zip", got.URL)
	})

	t.Run("single confirmed version", func(t *testing.T) {
		srv := probeServer(t, 29, 29)

		loc := &Locator{Template: srv.URL + "/cldr/%d/core.zip", Start: 29, MaxProbes: 10}
		got, err := loc.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 29, got.Number)
	})

	t.Run("first probe failing cleanly is ErrNoVersionFound", func(t *testing.T) {
		srv := probeServer(t, 10, 20)

		loc := &Locator{Template: srv.URL + "/cldr/%d/core.zip", Start: 29, MaxProbes: 10}
		_, err := loc.Locate(context.Background())
		assert.ErrorIs(t, err, ErrNoVersionFound)
	})

	t.Run("remembers redirected URL", func(t *testing.T) {
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/cldr/29/core.zip":
				http.Redirect(w, r, srv.URL+"/mirror/29/core.zip", http.StatusFound)
			case "/mirror/29/core.zip":
				w.WriteHeader(http.StatusOK)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(srv.Close)

		loc := &Locator{Template: srv.URL + "/cldr/%d/core.zip", Start: 29, MaxProbes: 10}
		got, err := loc.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 29, got.Number)
		assert.Equal(t, srv.URL+"/mirror/29/core.zip", got.URL,
			"resolved URL must survive the redirect, not the templated one")
	})

	t.Run("transport failure is fatal, not treated as not-found", func(t *testing.T) {
		srv := probeServer(t, 29, 42)
		srv.Close() // probes now fail at the transport level

		loc := &Locator{Template: srv.URL + "/cldr/%d/core.zip", Start: 29, MaxProbes: 10}
		_, err := loc.Locate(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoVersionFound)
	})

	t.Run("probe cap exceeded is ErrTooManyProbes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		loc := &Locator{Template: srv.URL + "/cldr/%d/core.zip", Start: 29, MaxProbes: 5}
		_, err := loc.Locate(context.Background())
		assert.ErrorIs(t, err, ErrTooManyProbes)
	})
}
