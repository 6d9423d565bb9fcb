package main

// Notes:
// - Shared fixtures for the command tests. The environment is fully
//   injected, so no test reads the real process environment or XDG dirs.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	eventpage "github.com/alnah/go-eventpage"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and drafts
// ---------------------------------------------------------------------------

const showDraft = `---
lang: "ja"
name: "[軽音|けいおん]ライブ"
type: "show"
time: "scheduled"
place: "104"
---
## 出演

演奏します`

const articleDraft = "---\nlang: \"en\"\nname: \"Notice\"\ntype: \"article\"\n---\nWelcome"

const malformedDraft = "---\nname: \"x\"\n"

// newTestEnv returns an environment backed by buffers and the given
// variables.
func newTestEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(key string) string { return vars[key] },
		Environ: func() []string {
			kv := make([]string, 0, len(vars))
			for k, v := range vars {
				kv = append(kv, k+"="+v)
			}
			sort.Strings(kv)
			return kv
		},
		AssetLoader: eventpage.NewAssetLoader(),
	}
	return env, stdout, stderr
}

// writeDraft writes content under dir and returns the path.
func writeDraft(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 -- test temp file
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func newTestConverter(t *testing.T) *eventpage.Converter {
	t.Helper()

	conv, err := eventpage.NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() unexpected error: %v", err)
	}
	return conv
}

// ---------------------------------------------------------------------------
// Mock Implementations - Renderer pool
// ---------------------------------------------------------------------------

// fakePDFRenderer returns fixed bytes and records the page it printed.
type fakePDFRenderer struct {
	mu        sync.Mutex
	pages     []string
	sourceDir string
	err       error
}

func (f *fakePDFRenderer) Render(_ context.Context, page, sourceDir string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.pages = append(f.pages, page)
	f.sourceDir = sourceDir
	return []byte("%PDF-1.7 fake"), nil
}

// fakeRendererPool hands out one shared fake renderer.
type fakeRendererPool struct {
	renderer   *fakePDFRenderer
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (p *fakeRendererPool) Acquire(_ context.Context) (PDFRenderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.renderer, nil
}

func (p *fakeRendererPool) Release(PDFRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakeRendererPool) Size() int { return 1 }

var _ RendererPool = (*fakeRendererPool)(nil)
