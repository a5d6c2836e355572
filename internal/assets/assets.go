// Package assets resolves the SDK repository files that become fixed pages in
// the generated tree: the root README as the documentation homepage and the
// contribution guide as an auxiliary API-section page.
package assets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docindex/internal/config"
	"git.home.luguber.info/inful/docindex/internal/errors"
)

// Resolver locates a checkout of the SDK repository, cloning it when only a
// URL is configured.
type Resolver struct {
	cfg config.RepoConfig
}

// NewResolver creates a resolver for the configured repository.
func NewResolver(cfg config.RepoConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns a local path containing the repository root. A configured
// path wins over a clone URL. Clones are shallow and single-branch; the only
// files consumed are README.md and CONTRIBUTING.md.
func (r *Resolver) Resolve(workDir string) (string, error) {
	if r.cfg.Path != "" {
		if _, err := os.Stat(r.cfg.Path); err != nil {
			return "", errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "configured repo path not accessible").
				WithContext("path", r.cfg.Path)
		}
		return r.cfg.Path, nil
	}
	if r.cfg.URL == "" {
		return "", errors.New(errors.CategoryConfig, errors.SeverityError, "repo requires either path or url")
	}

	repoPath := filepath.Join(workDir, "sdk-repo")
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	cloneOptions := &git.CloneOptions{URL: r.cfg.URL, Depth: 1, SingleBranch: true}
	if r.cfg.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + r.cfg.Branch)
	}
	slog.Debug("Cloning SDK repository", "url", r.cfg.URL, "branch", r.cfg.Branch, "path", repoPath)
	if _, err := git.PlainClone(repoPath, false, cloneOptions); err != nil {
		return "", errors.Wrap(err, errors.CategoryNetwork, errors.SeverityError, "clone SDK repository").
			WithContext("url", r.cfg.URL)
	}
	return repoPath, nil
}

// CopyPages places README.md into apiDir/index.md and CONTRIBUTING.md into
// apiDir/CONTRIBUTING.md. A missing source file is reported, not fatal: the
// index itself is still publishable without a homepage body.
func CopyPages(repoRoot, apiDir string) error {
	pages := []struct{ src, dst string }{
		{src: "README.md", dst: "index.md"},
		{src: "CONTRIBUTING.md", dst: "CONTRIBUTING.md"},
	}
	for _, p := range pages {
		data, err := os.ReadFile(filepath.Join(repoRoot, p.src))
		if err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityWarning, "read repository page").
				WithContext("file", p.src)
		}
		if err := os.WriteFile(filepath.Join(apiDir, p.dst), data, 0644); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "write repository page").
				WithContext("file", p.dst)
		}
	}
	return nil
}
