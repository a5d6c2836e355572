// Package render writes the table-of-contents tree consumed by the static
// site tool: a root navigation file, the API TOC, and one page per service.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docindex/internal/errors"
)

// tocEntry is one navigation row in api/toc.yml.
type tocEntry struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// rootEntry is the single top-level navigation row in <root>/toc.yml.
type rootEntry struct {
	Name     string `yaml:"name"`
	Href     string `yaml:"href"`
	Homepage string `yaml:"homepage"`
}

// Renderer performs the deterministic write pass over a finished TocDocument.
// Callers must clear the output directory first; rendering into a dirty tree
// is an explicit precondition violation, not something the renderer repairs.
type Renderer struct {
	outputRoot string
}

// NewRenderer creates a renderer rooted at outputRoot.
func NewRenderer(outputRoot string) *Renderer {
	return &Renderer{outputRoot: filepath.Clean(outputRoot)}
}

// APIDir returns the api/ subdirectory of the output root.
func (r *Renderer) APIDir() string {
	return filepath.Join(r.outputRoot, "api")
}

// RenderToc writes the output tree for doc. For a given document the produced
// files are byte-identical across reruns.
func (r *Renderer) RenderToc(doc *TocDocument) error {
	apiDir := r.APIDir()
	if err := os.MkdirAll(apiDir, 0755); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "create api directory")
	}

	entries := make([]tocEntry, 0, len(doc.Services))
	for _, svc := range doc.Services {
		entries = append(entries, tocEntry{Name: svc.Name, Href: svc.Slug + ".md"})

		var page strings.Builder
		for _, artifact := range svc.Artifacts {
			fmt.Fprintf(&page, "#### %s\n", artifact)
		}
		pagePath := filepath.Join(apiDir, svc.Slug+".md")
		if err := os.WriteFile(pagePath, []byte(page.String()), 0644); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write service page").
				WithContext("path", pagePath)
		}
	}

	tocData, err := yaml.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, errors.CategoryRender, errors.SeverityFatal, "marshal api toc")
	}
	if err := os.WriteFile(filepath.Join(apiDir, "toc.yml"), tocData, 0644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write api toc")
	}

	root := []rootEntry{{
		Name:     fmt.Sprintf("Azure SDK for %s APIs", doc.Language),
		Href:     "api/",
		Homepage: "api/index.md",
	}}
	rootData, err := yaml.Marshal(root)
	if err != nil {
		return errors.Wrap(err, errors.CategoryRender, errors.SeverityFatal, "marshal root toc")
	}
	if err := os.WriteFile(filepath.Join(r.outputRoot, "toc.yml"), rootData, 0644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write root toc")
	}

	return nil
}

// Clean removes the output root so a subsequent render starts from an empty
// tree. Appending into a non-cleared directory duplicates headings.
func (r *Renderer) Clean() error {
	if err := os.RemoveAll(r.outputRoot); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "clean output directory")
	}
	return nil
}
