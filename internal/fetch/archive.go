package fetch

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
)

// ErrMemberNotFound means an expected member path is absent from the archive.
var ErrMemberNotFound = errors.New("archive member not found")

// copyChunkSize bounds the buffer used when spooling the download.
const copyChunkSize = 32 * 1024

// Archive is an opened CLDR distribution: a zip reader over a spooled
// temporary file, tagged with the version it was fetched at.
type Archive struct {
	Version int

	spool     *os.File
	reader    *zip.Reader
	closeOnce sync.Once
	closeErr  error
}

// FetchArchive downloads the archive at v.URL into a spooled temporary file
// and opens it for random access. The caller owns the returned Archive and
// must Close it; Close removes the spool.
func FetchArchive(ctx context.Context, client *http.Client, v Version) (*Archive, error) {
	if client == nil {
		client = http.DefaultClient
	}

	spool, err := os.CreateTemp("", "cldr-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create spool: %w", err)
	}
	// Until the Archive is handed to the caller, this function owns the spool.
	discard := func() {
		spool.Close()
		os.Remove(spool.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.URL, nil)
	if err != nil {
		discard()
		return nil, fmt.Errorf("fetch archive: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		discard()
		return nil, fmt.Errorf("fetch archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		discard()
		return nil, fmt.Errorf("fetch archive %s: status %d", v.URL, resp.StatusCode)
	}

	if _, err := io.CopyBuffer(spool, resp.Body, make([]byte, copyChunkSize)); err != nil {
		discard()
		return nil, fmt.Errorf("spool archive: %w", err)
	}
	if err := spool.Sync(); err != nil {
		discard()
		return nil, fmt.Errorf("flush spool: %w", err)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		discard()
		return nil, fmt.Errorf("rewind spool: %w", err)
	}

	info, err := spool.Stat()
	if err != nil {
		discard()
		return nil, fmt.Errorf("stat spool: %w", err)
	}
	reader, err := zip.NewReader(spool, info.Size())
	if err != nil {
		discard()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	return &Archive{Version: v.Number, spool: spool, reader: reader}, nil
}

// Members lists the member paths in archive order.
func (a *Archive) Members() []string {
	names := make([]string, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Open returns a reader over the named member. The caller must close it.
// Returns ErrMemberNotFound when the path is absent.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	for _, f := range a.reader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open member %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
}

// Close releases the zip reader and removes the spooled file. Close is safe
// to call more than once; only the first call does the work.
func (a *Archive) Close() error {
	a.closeOnce.Do(func() {
		name := a.spool.Name()
		closeErr := a.spool.Close()
		removeErr := os.Remove(name)
		a.closeErr = errors.Join(closeErr, removeErr)
	})
	return a.closeErr
}
