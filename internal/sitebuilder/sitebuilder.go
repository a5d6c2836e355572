// Package sitebuilder wraps the external static site tool. The tool is an
// opaque collaborator: init prepares the output scaffold, build renders the
// populated tree. Neither step belongs to the indexing core.
package sitebuilder

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Builder shells out to the configured site tool (docfx by default).
type Builder struct {
	command string
}

// NewBuilder creates a builder for the given command name.
func NewBuilder(command string) *Builder {
	if command == "" {
		command = "docfx"
	}
	return &Builder{command: command}
}

// Enabled determines if the external tool should be invoked.
// Enabled when DOCINDEX_RUN_BUILDER=1 and the binary exists in PATH, unless DOCINDEX_SKIP_BUILDER=1.
func (b *Builder) Enabled() bool {
	if os.Getenv("DOCINDEX_SKIP_BUILDER") == "1" {
		return false
	}
	if os.Getenv("DOCINDEX_RUN_BUILDER") != "1" {
		return false
	}
	_, err := exec.LookPath(b.command)
	return err == nil
}

// Init runs `<tool> init` in the output directory before the tree is populated.
func (b *Builder) Init(outputDir string) error {
	return b.run(outputDir, "init", "-q")
}

// Build runs `<tool> build` against the tool's config once the tree is populated.
func (b *Builder) Build(outputDir, configPath string) error {
	args := []string{"build"}
	if configPath != "" {
		args = append(args, configPath)
	}
	return b.run(outputDir, args...)
}

func (b *Builder) run(dir string, args ...string) error {
	cmd := exec.Command(b.command, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Info("Running site builder", "command", b.command, "args", args, "dir", dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s command failed: %w", b.command, err)
	}
	return nil
}
