// Package catalog retrieves and parses the package metadata catalog that maps
// published packages to the service they belong to.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docindex/internal/errors"
	"git.home.luguber.info/inful/docindex/internal/retry"
)

// Record is one catalog row. Hide is compared literally to "true" downstream;
// the stricter behavior is intentional and compatibility-sensitive.
type Record struct {
	Package     string
	ServiceName string
	Hide        string
}

// Fetcher retrieves the catalog over HTTP with a fixed-interval retry policy.
type Fetcher struct {
	httpClient *http.Client
	policy     retry.Policy
}

// NewFetcher creates a Fetcher. A nil client falls back to a 30s-timeout default.
func NewFetcher(httpClient *http.Client, policy retry.Policy) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{httpClient: httpClient, policy: policy}
}

// FetchMetadata GETs the catalog CSV from uri and parses it into records.
// All attempts exhausting yields a fatal catalog error; the catalog is
// mandatory input and the pipeline must not proceed without it.
func (f *Fetcher) FetchMetadata(ctx context.Context, uri string) ([]Record, error) {
	var records []Record
	attempt := 0
	err := f.policy.Do(ctx, func() error {
		attempt++
		recs, err := f.fetchOnce(ctx, uri)
		if err != nil {
			slog.Warn("Catalog fetch attempt failed", "attempt", attempt, "uri", uri, "error", err)
			return err
		}
		records = recs
		return nil
	})
	if err != nil {
		return nil, errors.FetchError(err, uri)
	}
	slog.Info("Catalog fetched", "uri", uri, "records", len(records))
	return records, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, uri string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return parseCSV(resp.Body)
}

// parseCSV reads header-keyed rows. Column order is not assumed; only the
// Package, ServiceName, and Hide columns are consulted.
func parseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // catalog rows occasionally omit trailing columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	if _, ok := cols["Package"]; !ok {
		return nil, fmt.Errorf("catalog header missing Package column")
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, Record{
			Package:     field(row, "Package"),
			ServiceName: field(row, "ServiceName"),
			Hide:        field(row, "Hide"),
		})
	}
	return records, nil
}
