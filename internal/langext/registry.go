// Package langext is the per-language extension point. Languages register a
// handler under their tag; a missing handler is the normal "no extension"
// case, not a lookup failure.
package langext

import (
	"strings"

	"git.home.luguber.info/inful/docindex/internal/render"
)

// Handler customizes a run for one SDK language.
type Handler interface {
	// Name returns the display name used in navigation titles.
	Name() string
	// BeforeRender may adjust the built document before the write pass.
	BeforeRender(doc *render.TocDocument) error
}

var registry = map[string]Handler{}

// Register installs a handler for a language tag. Later registrations for the
// same tag replace earlier ones.
func Register(tag string, h Handler) {
	registry[normalize(tag)] = h
}

// Lookup returns the handler for a language tag, if one is registered.
func Lookup(tag string) (Handler, bool) {
	h, ok := registry[normalize(tag)]
	return h, ok
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// goHandler is the default extension for the Go SDK. It currently only
// supplies the display name; repository onboarding hooks attach here.
type goHandler struct{}

func (goHandler) Name() string { return "Go" }

func (goHandler) BeforeRender(doc *render.TocDocument) error { return nil }

func init() {
	Register("go", goHandler{})
}
