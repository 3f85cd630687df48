// Package fetch locates and retrieves the CLDR distribution archive.
//
// Discovery probes sequential integer versions of a URL template with HEAD
// requests; retrieval streams the winning URL into a spooled temporary file
// and exposes it as a random-access zip archive.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Defaults for version discovery against the Unicode release area.
const (
	DefaultTemplate = "https://unicode.org/Public/cldr/%d/core.zip"
	DefaultStart    = 29

	// DefaultMaxProbes bounds discovery so a misbehaving mirror that answers
	// 200 for every version cannot keep the probe loop running forever.
	DefaultMaxProbes = 256
)

// Discovery errors.
var (
	// ErrNoVersionFound means the very first probe returned a clean
	// non-success status: there is no archive to fetch.
	ErrNoVersionFound = errors.New("no published version found")

	// ErrTooManyProbes means every probe up to the cap succeeded, which
	// indicates a server that does not 404 on missing versions.
	ErrTooManyProbes = errors.New("version probe cap exceeded")
)

// Version is a discovered archive version: the confirmed version number and
// the resolved (post-redirect) URL it was confirmed at.
type Version struct {
	Number int
	URL    string
}

// Locator discovers the most recent published archive version.
// The zero value is not usable; fill in Template, Start and MaxProbes or use
// NewLocator for the defaults.
type Locator struct {
	Client    *http.Client
	Template  string // URL template with one %d version placeholder
	Start     int    // first version to probe
	MaxProbes int    // probe count cap
}

// NewLocator returns a Locator with the default template, start version and
// probe cap.
func NewLocator(client *http.Client) *Locator {
	return &Locator{
		Client:    client,
		Template:  DefaultTemplate,
		Start:     DefaultStart,
		MaxProbes: DefaultMaxProbes,
	}
}

// Locate probes template(start), template(start+1), ... with HEAD requests
// until one fails, and returns the last version that succeeded together with
// its resolved URL.
//
// A transport-level probe failure aborts discovery: it is indistinguishable
// from a flaky network and must not be read as "version does not exist".
// A non-200 on the very first probe returns ErrNoVersionFound.
func (l *Locator) Locate(ctx context.Context) (Version, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	var last Version
	for current := l.Start; current < l.Start+l.MaxProbes; current++ {
		url := fmt.Sprintf(l.Template, current)

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return Version{}, fmt.Errorf("probe version %d: %w", current, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return Version{}, fmt.Errorf("probe version %d: %w", current, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if last.URL == "" {
				return Version{}, fmt.Errorf("%w: first probe at version %d returned status %d",
					ErrNoVersionFound, current, resp.StatusCode)
			}
			return last, nil
		}

		// Remember the resolved URL, not the templated one: the server may
		// have redirected the probe elsewhere.
		last = Version{Number: current, URL: resp.Request.URL.String()}
	}

	return Version{}, fmt.Errorf("%w: %d consecutive versions confirmed starting at %d",
		ErrTooManyProbes, l.MaxProbes, l.Start)
}
