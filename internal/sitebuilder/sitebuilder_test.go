package sitebuilder

import "testing"

func TestNewBuilderDefaultsCommand(t *testing.T) {
	if NewBuilder("").command != "docfx" {
		t.Error("empty command must default to docfx")
	}
	if NewBuilder("hugo").command != "hugo" {
		t.Error("explicit command must be kept")
	}
}

func TestEnabledGating(t *testing.T) {
	b := NewBuilder("true") // a binary guaranteed to exist in PATH

	t.Setenv("DOCINDEX_RUN_BUILDER", "")
	t.Setenv("DOCINDEX_SKIP_BUILDER", "")
	if b.Enabled() {
		t.Error("builder must be opt-in")
	}

	t.Setenv("DOCINDEX_RUN_BUILDER", "1")
	if !b.Enabled() {
		t.Error("builder must run when opted in and binary exists")
	}

	t.Setenv("DOCINDEX_SKIP_BUILDER", "1")
	if b.Enabled() {
		t.Error("skip flag must win over run flag")
	}

	t.Setenv("DOCINDEX_SKIP_BUILDER", "")
	missing := NewBuilder("docindex-no-such-binary")
	if missing.Enabled() {
		t.Error("builder must stay disabled when the binary is absent")
	}
}
