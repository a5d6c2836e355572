package render

import (
	"sort"
	"strings"
	"unicode"
)

// ServiceGroup is one service with its artifacts in sorted order.
type ServiceGroup struct {
	Name      string
	Slug      string
	Artifacts []string
}

// TocDocument is the fully-built, immutable grouping that rendering walks.
// Building it is pure; all file I/O happens in a later single write pass.
type TocDocument struct {
	Language string
	Services []ServiceGroup
}

// BuildDocument sorts the artifact→service map into a TocDocument. Ordering
// is the strict total order (ServiceName, ArtifactName), both ascending by
// Go's default string comparison, so reruns are byte-identical.
func BuildDocument(serviceMap map[string]string, language string) *TocDocument {
	type pair struct{ service, artifact string }
	pairs := make([]pair, 0, len(serviceMap))
	for artifact, service := range serviceMap {
		pairs = append(pairs, pair{service: service, artifact: artifact})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].service != pairs[j].service {
			return pairs[i].service < pairs[j].service
		}
		return pairs[i].artifact < pairs[j].artifact
	})

	doc := &TocDocument{Language: language}
	for _, p := range pairs {
		n := len(doc.Services)
		if n == 0 || doc.Services[n-1].Name != p.service {
			doc.Services = append(doc.Services, ServiceGroup{Name: p.service, Slug: ServiceSlug(p.service)})
			n++
		}
		doc.Services[n-1].Artifacts = append(doc.Services[n-1].Artifacts, p.artifact)
	}
	return doc
}

// ServiceSlug derives the filesystem-safe page name for a service: trimmed,
// all whitespace removed, lowercased. Distinct services that collide to the
// same slug share a page; that limitation is accepted rather than merged
// silently at the grouping level.
func ServiceSlug(name string) string {
	trimmed := strings.TrimSpace(name)
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
	return strings.ToLower(stripped)
}
