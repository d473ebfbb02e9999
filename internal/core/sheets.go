package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

var (
	sheetIDPattern  = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	sheetGIDPattern = regexp.MustCompile(`[#&?]gid=([0-9]+)`)
)

// SheetRef identifies one tab of a Google Sheets document.
type SheetRef struct {
	ID  string
	GID string
}

// ParseSheetURL extracts the document id and tab gid from a share link.
// The gid defaults to "0", the first tab.
func ParseSheetURL(url string) (SheetRef, error) {
	m := sheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return SheetRef{}, fmt.Errorf("%w: %q", ErrInvalidSheetURL, url)
	}
	ref := SheetRef{ID: m[1], GID: "0"}
	if g := sheetGIDPattern.FindStringSubmatch(url); g != nil {
		ref.GID = g[1]
	}
	return ref, nil
}

// ExportURL returns the CSV export link of the tab.
func (r SheetRef) ExportURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", r.ID, r.GID)
}

// SheetFetcher downloads CSV text from an export URL. Implementations must
// fail with ErrFileTooLarge when the body exceeds limit bytes.
type SheetFetcher interface {
	Fetch(ctx context.Context, url string, limit int64) ([]byte, error)
}

// DefaultSheetFetchTimeout bounds a single export download.
const DefaultSheetFetchTimeout = 30 * time.Second

// HTTPSheetFetcher fetches sheet exports over HTTP.
type HTTPSheetFetcher struct {
	Client *http.Client
}

// NewHTTPSheetFetcher creates a fetcher whose requests time out after timeout.
func NewHTTPSheetFetcher(timeout time.Duration) *HTTPSheetFetcher {
	if timeout <= 0 {
		timeout = DefaultSheetFetchTimeout
	}
	return &HTTPSheetFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPSheetFetcher) Fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetFetch, err)
	}
	req.Header.Set("Accept", "text/csv")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSheetFetch, resp.StatusCode)
	}

	return readLimited(resp.Body, limit)
}

// readLimited reads r fully, failing once more than limit bytes arrive.
// A limit of zero or less disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fileTooLarge(int64(len(data)), limit)
	}
	return data, nil
}
