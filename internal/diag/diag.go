// Package diag collects recoverable findings produced during a run so they can
// be surfaced as a batch instead of interleaved with processing output.
package diag

import (
	"fmt"
	"log/slog"
)

// Kind enumerates diagnostic categories.
type Kind string

const (
	// MissingServiceName marks an artifact without a usable catalog match.
	MissingServiceName Kind = "missing_service_name"
	// AmbiguousMetadata marks an artifact matched by more than one catalog row.
	AmbiguousMetadata Kind = "ambiguous_metadata"
	// HiddenArtifact notes an artifact excluded because its catalog row hides it.
	HiddenArtifact Kind = "hidden_artifact"
	// UnresolvedEntryPoint notes that no language handler is registered.
	UnresolvedEntryPoint Kind = "unresolved_entry_point"
)

// Diagnostic is a single recoverable finding.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject"` // artifact name or language tag
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Subject, d.Message)
}

// Collector accumulates diagnostics in emission order. It is not safe for
// concurrent use; the pipeline is single-threaded by design.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(kind Kind, subject, message string) {
	c.items = append(c.items, Diagnostic{Kind: kind, Subject: subject, Message: message})
}

// Items returns the collected diagnostics in emission order.
func (c *Collector) Items() []Diagnostic {
	return c.items
}

// CountByKind returns the number of diagnostics of the given kind.
func (c *Collector) CountByKind(kind Kind) int {
	n := 0
	for _, d := range c.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Merge appends all diagnostics from another collector.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// LogSummary emits the batch to the default logger at the end of a run.
func (c *Collector) LogSummary() {
	if len(c.items) == 0 {
		return
	}
	slog.Info("Run completed with diagnostics", "count", len(c.items))
	for _, d := range c.items {
		slog.Warn("Diagnostic", "kind", string(d.Kind), "subject", d.Subject, "message", d.Message)
	}
}
