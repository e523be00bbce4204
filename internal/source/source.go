// Package source obtains workbook bytes from local files and Google Sheets.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
)

// DefaultMaxBytes caps a single workbook.
const DefaultMaxBytes int64 = 10 << 20

var (
	// ErrInvalidSheetURL indicates a link without a spreadsheet ID.
	ErrInvalidSheetURL = errors.New("invalid Google Sheets URL")
	// ErrTooLarge indicates a workbook above the size cap.
	ErrTooLarge = errors.New("workbook exceeds size limit")
)

// StatusError reports a non-2xx response from a remote source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// SheetID extracts the spreadsheet ID from a Google Sheets link.
func SheetID(url string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidSheetURL, url)
	}
	return m[1], nil
}

// ExportURL builds the download link of a spreadsheet in format.
func ExportURL(id, format string) string {
	if format == "" {
		format = "xlsx"
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=%s", id, format)
}

// Fetcher downloads workbooks over HTTP.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewFetcher returns a fetcher using client, or http.DefaultClient when nil.
func NewFetcher(client *http.Client, maxBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{Client: client, MaxBytes: maxBytes}
}

// FetchSheet downloads the xlsx export of the spreadsheet behind a Google
// Sheets link.
func (f *Fetcher) FetchSheet(ctx context.Context, sheetURL string) ([]byte, error) {
	id, err := SheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, ExportURL(id, "xlsx"))
}

// Fetch downloads url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return ReadCapped(resp.Body, f.MaxBytes)
}

// Fetch downloads url with the default client and size cap.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	return NewFetcher(nil, 0).Fetch(ctx, url)
}

// ReadFile reads a local workbook, enforcing the default size cap.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCapped(f, DefaultMaxBytes)
}

// ReadCapped reads r fully, failing with ErrTooLarge past limit bytes.
func ReadCapped(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return data, nil
}
