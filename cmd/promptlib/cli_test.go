// ABOUTME: In-process tests for promptlib CLI commands.
// ABOUTME: Tests full workflows from add to delete against a temp sqlite store.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/harper/promptlib/internal/transfer"
)

type fakeClipboard struct {
	copied string
	ok     bool
}

func (f *fakeClipboard) CopyText(text string) bool {
	f.copied = text
	return f.ok
}

type env struct {
	t         *testing.T
	dir       string
	clipboard *fakeClipboard
	stdin     string
	now       time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("PROMPTLIB_STORAGE_DRIVER", "sqlite")
	return &env{
		t:         t,
		dir:       dir,
		clipboard: &fakeClipboard{ok: true},
		now:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

// run executes one command in-process, like a fresh process invocation.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	app := &App{
		clipboard: e.clipboard,
		now:       func() time.Time { return e.now },
		in:        strings.NewReader(e.stdin),
	}
	root := newRootCmd(app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		_ = app.close()
	}
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

// idFor extracts the id prefix printed next to title in list output.
func idFor(t *testing.T, listOut, title string) string {
	t.Helper()
	for _, line := range strings.Split(listOut, "\n") {
		if strings.Contains(line, title) {
			fields := strings.Fields(line)
			if len(fields) > 0 {
				return fields[0]
			}
		}
	}
	t.Fatalf("no line with %q in:\n%s", title, listOut)
	return ""
}

func TestAddListShowDelete(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("add", "Code Review", "--content", "Review this diff carefully")
	if !strings.Contains(out, "Saved prompt") {
		t.Errorf("expected 'Saved prompt' in output: %s", out)
	}

	out = e.mustRun("list")
	if !strings.Contains(out, "Code Review") {
		t.Errorf("expected title in list: %s", out)
	}
	id := idFor(t, out, "Code Review")

	out = e.mustRun("show", id)
	if !strings.Contains(out, "Review this diff") {
		t.Errorf("expected content in show output: %s", out)
	}

	e.stdin = "n\n"
	out = e.mustRun("rm", id)
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("expected cancel: %s", out)
	}

	e.stdin = "y\n"
	out = e.mustRun("rm", id)
	if !strings.Contains(out, "Deleted prompt") {
		t.Errorf("expected delete confirmation: %s", out)
	}

	out = e.mustRun("list")
	if !strings.Contains(out, "No prompts yet") {
		t.Errorf("expected empty library: %s", out)
	}
}

func TestAddRejectsBlankContent(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("add", "Title", "--content", "   ")
	if err == nil {
		t.Fatal("expected error for blank content")
	}
	if !strings.Contains(err.Error(), "missing title or content") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAddFromFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "prompt.txt")
	if err := os.WriteFile(path, []byte("from a file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e.mustRun("add", "Filed", "--file", path)
	out := e.mustRun("list", "--search", "FROM A")
	if !strings.Contains(out, "Filed") {
		t.Errorf("expected search hit: %s", out)
	}
}

func TestAddFromEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("editor script needs a POSIX shell")
	}
	e := newEnv(t)
	script := filepath.Join(e.dir, "editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'written in the editor' > \"$1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	e.mustRun("add", "Edited")
	out := e.mustRun("list", "--search", "in the editor")
	if !strings.Contains(out, "Edited") {
		t.Errorf("expected editor content to be saved: %s", out)
	}
}

func TestRateAndFilter(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Alpha", "--content", "a")
	e.mustRun("add", "Beta", "--content", "b")
	id := idFor(t, e.mustRun("list"), "Beta")

	out := e.mustRun("rate", id, "9")
	if !strings.Contains(out, "★★★★★") {
		t.Errorf("expected clamped five stars: %s", out)
	}

	out = e.mustRun("list", "--rating", "5")
	if !strings.Contains(out, "Beta") || strings.Contains(out, "Alpha") {
		t.Errorf("expected only Beta: %s", out)
	}

	out = e.mustRun("list", "--rating", "3")
	if !strings.Contains(out, "No matches.") {
		t.Errorf("expected no matches: %s", out)
	}

	if _, err := e.run("list", "--rating", "lots"); err == nil {
		t.Error("expected error for bad rating filter")
	}
	if _, err := e.run("rate", id, "high"); err == nil {
		t.Error("expected error for non-numeric rating")
	}
}

func TestListSortAndLimit(t *testing.T) {
	e := newEnv(t)
	for _, title := range []string{"Charlie", "alpha", "Bravo"} {
		e.mustRun("add", title, "--content", "x")
	}

	out := e.mustRun("list", "--sort", "titleAsc", "--limit", "2")
	a := strings.Index(out, "alpha")
	b := strings.Index(out, "Bravo")
	if a < 0 || b < 0 || a > b {
		t.Errorf("expected alpha before Bravo: %s", out)
	}
	if strings.Contains(out, "Charlie") {
		t.Errorf("expected limit to drop Charlie: %s", out)
	}
}

func TestCopy(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Clip", "--content", "copy me")
	id := idFor(t, e.mustRun("list"), "Clip")

	out := e.mustRun("copy", id)
	if e.clipboard.copied != "copy me" {
		t.Errorf("expected content on clipboard, got %q", e.clipboard.copied)
	}
	if !strings.Contains(out, "Copied") {
		t.Errorf("expected success message: %s", out)
	}

	e.clipboard.ok = false
	out = e.mustRun("copy", id)
	if !strings.Contains(out, "copy me") {
		t.Errorf("expected fallback print: %s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	e := newEnv(t)
	wd := t.TempDir()
	t.Chdir(wd)

	out := e.mustRun("export")
	if !strings.Contains(out, "Nothing to export yet.") {
		t.Errorf("expected empty export message: %s", out)
	}

	e.mustRun("add", "One", "--content", "1")
	e.mustRun("add", "Two", "--content", "2")
	e.mustRun("export")

	path := filepath.Join(wd, "prompt-library-2024-01-15.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	var envelope transfer.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if envelope.Schema != transfer.Schema || len(envelope.Prompts) != 2 {
		t.Errorf("unexpected envelope: %+v", envelope)
	}

	out = e.mustRun("import", path)
	if !strings.Contains(out, "Imported: 0 added, 0 updated.") {
		t.Errorf("expected no-op import: %s", out)
	}

	// A fresh library picks everything up.
	t.Setenv("XDG_DATA_HOME", filepath.Join(e.dir, "other-data"))
	out = e.mustRun("import", path)
	if !strings.Contains(out, "Imported: 2 added, 0 updated.") {
		t.Errorf("expected two added: %s", out)
	}
}

func TestImportBadFile(t *testing.T) {
	e := newEnv(t)

	bad := filepath.Join(e.dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run("import", bad); err == nil || !strings.Contains(err.Error(), "could not parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	empty := filepath.Join(e.dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"prompts":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := e.mustRun("import", empty)
	if !strings.Contains(out, "Nothing to import.") {
		t.Errorf("expected nothing to import: %s", out)
	}
}

func TestMarkdownExportImport(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Markdown Me", "--content", "# Heading\n\nbody")

	mdDir := filepath.Join(e.dir, "md")
	e.mustRun("export", "--format", "md", "--output", mdDir)

	entries, err := os.ReadDir(mdDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one markdown file, got %v (%v)", entries, err)
	}

	out := e.mustRun("import", mdDir)
	if !strings.Contains(out, "Imported: 0 added, 0 updated.") {
		t.Errorf("expected no-op markdown import: %s", out)
	}
}

func TestTheme(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("theme")
	if strings.TrimSpace(out) != "dark" {
		t.Errorf("expected default dark, got %q", out)
	}
	e.mustRun("theme", "toggle")
	out = e.mustRun("theme")
	if strings.TrimSpace(out) != "light" {
		t.Errorf("expected light after toggle, got %q", out)
	}
	if _, err := e.run("theme", "neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestConfigInitAndPath(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("config", "path")
	want := filepath.Join(e.dir, "config", "promptlib", "config.yaml")
	if strings.TrimSpace(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}

	e.mustRun("config", "init")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, err := e.run("config", "init"); err == nil {
		t.Error("expected refusal to overwrite")
	}
}

func TestDriverFlag(t *testing.T) {
	e := newEnv(t)

	e.mustRun("--driver", "memory", "add", "Ephemeral", "--content", "gone")
	out := e.mustRun("--driver", "memory", "list")
	if !strings.Contains(out, "No prompts yet") {
		t.Errorf("expected memory driver to start empty: %s", out)
	}

	if _, err := e.run("--driver", "floppy", "list"); err == nil {
		t.Error("expected error for unknown driver")
	}
}
