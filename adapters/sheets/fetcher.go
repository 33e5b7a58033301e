package sheets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"clientportal/internal/errors"
	"clientportal/ports"
)

const (
	gvizURLFormat   = "https://docs.google.com/spreadsheets/d/%s/gviz/tq"
	exportURLFormat = "https://docs.google.com/spreadsheets/d/%s/export"

	maxBodyBytes = 20 << 20 // 20 MiB guard on sheet downloads
)

// Fetcher retrieves published CSV exports over HTTP. It tries the gviz query
// endpoint first and falls back to the plain export endpoint; both return
// the same CSV under the decoder's quoting rules.
type Fetcher struct {
	client  *http.Client
	baseURL string // Overridden in tests
}

// NewFetcher creates a published-sheet fetcher with the given timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// NewFetcherWithBase creates a fetcher that targets a custom base URL,
// used by tests against httptest servers.
func NewFetcherWithBase(client *http.Client, baseURL string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: client, baseURL: baseURL}
}

var _ ports.SheetSource = (*Fetcher)(nil)

// FetchCSV retrieves the published CSV export for (sheetID, gid)
func (f *Fetcher) FetchCSV(ctx context.Context, sheetID string, gid int) (string, error) {
	text, err := f.fetch(ctx, f.gvizURL(sheetID, gid))
	if err == nil {
		return text, nil
	}

	log.Printf("[sheets] gviz fetch failed for %s gid=%d, trying export endpoint: %v", sheetID, gid, err)
	text, exportErr := f.fetch(ctx, f.exportURL(sheetID, gid))
	if exportErr != nil {
		return "", errors.Wrapf(err, "sheet fetch failed for %s gid=%d", sheetID, gid)
	}
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build sheet request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.SheetFetch(err.Error()), "sheet request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.SheetFetch(fmt.Sprintf("sheet fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrap(err, "failed to read sheet body")
	}
	return string(body), nil
}

func (f *Fetcher) gvizURL(sheetID string, gid int) string {
	base := f.baseURL
	if base == "" {
		base = fmt.Sprintf(gvizURLFormat, url.PathEscape(sheetID))
	}
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("gid", fmt.Sprintf("%d", gid))
	return base + "?" + q.Encode()
}

func (f *Fetcher) exportURL(sheetID string, gid int) string {
	base := f.baseURL
	if base == "" {
		base = fmt.Sprintf(exportURLFormat, url.PathEscape(sheetID))
	}
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", fmt.Sprintf("%d", gid))
	return base + "?" + q.Encode()
}
