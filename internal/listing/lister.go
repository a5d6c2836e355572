// Package listing enumerates published documentation artifacts from a
// paginated blob container listing endpoint.
package listing

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"git.home.luguber.info/inful/docindex/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NameTransform rewrites a blob prefix into an artifact name via a regex
// capture rewrite, e.g. `^dotnet/(.*)/$` with replacement `$1`.
type NameTransform struct {
	pattern *regexp.Regexp
	replace string
}

// NewNameTransform compiles the pattern; an invalid pattern is a config error.
func NewNameTransform(pattern, replace string) (NameTransform, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return NameTransform{}, fmt.Errorf("compile name transform pattern: %w", err)
	}
	return NameTransform{pattern: re, replace: replace}, nil
}

// Apply rewrites one blob prefix name.
func (t NameTransform) Apply(name string) string {
	return t.pattern.ReplaceAllString(name, t.replace)
}

// enumerationResults mirrors the listing endpoint's XML body.
type enumerationResults struct {
	XMLName xml.Name `xml:"EnumerationResults"`
	Blobs   struct {
		BlobPrefixes []blobPrefix `xml:"BlobPrefix"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

type blobPrefix struct {
	Name string `xml:"Name"`
}

// Lister walks the continuation-token pagination protocol, one request in
// flight at a time. Listing failures are fatal: without the full artifact
// set no partial index is safe to publish.
type Lister struct {
	httpClient *http.Client
}

// NewLister creates a Lister. A nil client falls back to a 30s-timeout default.
func NewLister(httpClient *http.Client) *Lister {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Lister{httpClient: httpClient}
}

// ListArtifacts accumulates transformed artifact names across all pages in
// arrival order. No deduplication is performed; duplicate names across pages
// are preserved and downstream mapping treats them as idempotent re-writes.
func (l *Lister) ListArtifacts(ctx context.Context, listingURL string, transform NameTransform) ([]string, error) {
	var artifacts []string
	marker := ""
	pages := 0

	for {
		url := listingURL
		if marker != "" {
			url = listingURL + "&marker=" + marker
		}

		page, err := l.fetchPage(ctx, url)
		if err != nil {
			return nil, errors.ListingError(err, url)
		}
		pages++

		for _, prefix := range page.Blobs.BlobPrefixes {
			artifacts = append(artifacts, transform.Apply(prefix.Name))
		}

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}

	slog.Info("Artifact listing complete", "artifacts", len(artifacts), "pages", pages)
	return artifacts, nil
}

func (l *Lister) fetchPage(ctx context.Context, url string) (*enumerationResults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var page enumerationResults
	if err := xml.Unmarshal(stripBOM(body), &page); err != nil {
		return nil, fmt.Errorf("parse listing XML: %w", err)
	}
	return &page, nil
}

// stripBOM removes a leading UTF-8 byte-order-mark if present. The listing
// provider is inconsistent about emitting one. Bodies shorter than the BOM or
// without that exact prefix pass through unchanged.
func stripBOM(body []byte) []byte {
	if bytes.HasPrefix(body, utf8BOM) {
		return body[len(utf8BOM):]
	}
	return body
}
