package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

const talk = `---
title: Talk
---

# Opening

Welcome.

# Closing

Thanks.
`

type testEnv struct {
	dir    string
	stdin  *strings.Reader
	stdout *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("KIRLENT_CONFIG", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "talk.md"), []byte(talk), 0o644))
	return &testEnv{dir: dir, stdin: strings.NewReader(""), stdout: &bytes.Buffer{}}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("kirlent"), kong.Exit(func(int) { t.Fatal("kong exited") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return kctx.Run(&Global{Stdin: e.stdin, Stdout: e.stdout}, cli)
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, "kirlent slides", ProgramName("slides <args> ..."))
	assert.Equal(t, "kirlent", ProgramName(""))
}

func TestSlidesToFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "slides", "--slide-size", "a4", "talk.md", "talk.html"))

	f, err := os.Open(filepath.Join(env.dir, "talk.html"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("section.slide").Length())
	assert.Equal(t, "Talk", doc.Find("title").Text())
}

func TestRevealToStdout(t *testing.T) {
	env := newTestEnv(t)
	env.stdin = strings.NewReader(talk)
	require.NoError(t, env.run(t, "revealjs", "--transition", "fade"))
	assert.Contains(t, env.stdout.String(), "<!DOCTYPE html>")
	assert.Contains(t, env.stdout.String(), "Welcome.")
}

func TestWriterHelp(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "impressjs", "--help"))
	out := env.stdout.String()
	assert.Contains(t, out, "kirlent impressjs [options]")
	assert.Contains(t, out, "--transition-duration")
	assert.NotContains(t, out, "--xml-declaration")
}

func TestRetiredOption(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "html5", "--compact-lists", "talk.md")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), "no such option: --compact-lists")
}

func TestTooManyArguments(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "html5", "talk.md", "a.html", "b.html")
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestConfigDefaults(t *testing.T) {
	env := newTestEnv(t)
	cfg := "writers:\n  html5:\n    title: From config\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "kirlent.yaml"), []byte(cfg), 0o644))

	require.NoError(t, env.run(t, "html5", "talk.md"))
	assert.Contains(t, env.stdout.String(), "<title>From config</title>")

	env.stdout.Reset()
	require.NoError(t, env.run(t, "html5", "--title", "From flag", "talk.md"))
	assert.Contains(t, env.stdout.String(), "<title>From flag</title>")
}

func TestStrictConfigRejectsUnknownOption(t *testing.T) {
	env := newTestEnv(t)
	cfg := "strict: true\nwriters:\n  slides:\n    no_such_option: 1\n"
	path := filepath.Join(env.dir, "strict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	err := env.run(t, "--config", path, "slides", "talk.md")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMissingConfigFile(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "--config", filepath.Join(env.dir, "absent.yaml"), "slides", "talk.md")
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestTree(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "tree", "talk.md"))
	out := env.stdout.String()
	assert.True(t, strings.HasPrefix(out, "<document"))
	assert.Contains(t, out, "<section")
	assert.Contains(t, out, `"Welcome."`)
}

func TestTreeMissingSource(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(t, "tree", "absent.md")
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestWriters(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "writers"))
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "html5"))
	assert.True(t, strings.HasPrefix(lines[3], "slides"))
}

func TestPreviewServerFromConfig(t *testing.T) {
	env := newTestEnv(t)
	cfg := "preview:\n  addr: 127.0.0.1:0\n  writer: revealjs\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "kirlent.yaml"), []byte(cfg), 0o644))

	cli := &CLI{}
	p := &PreviewCmd{Source: "talk.md", Options: []string{"--transition", "zoom"}}
	srv, err := p.server(&Global{Stdout: env.stdout}, cli)
	require.NoError(t, err)
	require.NotNil(t, srv)

	p = &PreviewCmd{Source: "talk.md", Options: []string{"--help"}}
	srv, err = p.server(&Global{Stdout: env.stdout}, cli)
	require.NoError(t, err)
	assert.Nil(t, srv)
	assert.Contains(t, env.stdout.String(), "kirlent revealjs [options]")

	p = &PreviewCmd{Source: "talk.md", Writer: "pdf"}
	_, err = p.server(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
