// Package tocmap joins listed artifacts against the metadata catalog to
// decide which service each artifact is displayed under.
package tocmap

import (
	"strings"

	"git.home.luguber.info/inful/docindex/internal/catalog"
	"git.home.luguber.info/inful/docindex/internal/diag"
)

// OtherService is the reserved catch-all group for artifacts without a usable
// catalog match.
const OtherService = "Other"

// BuildServiceMap assigns each artifact to a service. It is a pure function:
// identical inputs always yield an identical map and diagnostic set.
//
// Policy, per artifact:
//   - no catalog match: grouped under Other, MissingServiceName diagnostic
//   - first match hides it (Hide literally "true"): excluded everywhere
//   - first match has an empty ServiceName: Other, MissingServiceName
//   - more than one match: AmbiguousMetadata diagnostic, first match wins
//   - otherwise: the first match's ServiceName, whitespace-trimmed
//
// Duplicate artifact entries (the lister does not deduplicate) are idempotent:
// only the first occurrence is consulted.
func BuildServiceMap(metadata []catalog.Record, artifacts []string) (map[string]string, *diag.Collector) {
	diags := diag.NewCollector()
	serviceMap := make(map[string]string)
	seen := make(map[string]struct{}, len(artifacts))

	for _, artifact := range artifacts {
		if _, dup := seen[artifact]; dup {
			continue
		}
		seen[artifact] = struct{}{}

		matches := matchRecords(metadata, artifact)
		if len(matches) == 0 {
			serviceMap[artifact] = OtherService
			diags.Add(diag.MissingServiceName, artifact, "no catalog entry; grouped under "+OtherService)
			continue
		}

		first := matches[0]
		if first.Hide == "true" {
			diags.Add(diag.HiddenArtifact, artifact, "hidden by catalog entry")
			continue
		}

		if len(matches) > 1 {
			diags.Add(diag.AmbiguousMetadata, artifact, "multiple catalog entries; first match wins")
		}

		service := strings.TrimSpace(first.ServiceName)
		if service == "" {
			serviceMap[artifact] = OtherService
			diags.Add(diag.MissingServiceName, artifact, "catalog entry lacks a service name; grouped under "+OtherService)
			continue
		}
		serviceMap[artifact] = service
	}

	return serviceMap, diags
}

// matchRecords returns all catalog rows whose Package equals the artifact, in
// catalog order. First-match tie-breaking relies on that order being stable.
func matchRecords(metadata []catalog.Record, artifact string) []catalog.Record {
	var matches []catalog.Record
	for _, rec := range metadata {
		if rec.Package == artifact {
			matches = append(matches, rec)
		}
	}
	return matches
}
