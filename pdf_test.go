package eventpage

// Notes:
// - The Chrome-backed rodRenderer is replaced by fakeRenderer; tests cover
//   what PDFRenderer hands to the browser, not Chrome's PDF output.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRenderer records the HTML file it was asked to print.
type fakeRenderer struct {
	html   string
	size   PageSize
	err    error
	closed bool
}

func (f *fakeRenderer) RenderFromFile(_ context.Context, filePath string, size PageSize) ([]byte, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- test temp file
	if err != nil {
		return nil, err
	}
	f.html = string(content)
	f.size = size
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7"), nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

var _ fileRenderer = (*fakeRenderer)(nil)

func newTestRenderer(t *testing.T, fake *fakeRenderer, opts ...RendererOption) *PDFRenderer {
	t.Helper()

	r, err := NewPDFRenderer(opts...)
	if err != nil {
		t.Fatalf("NewPDFRenderer() unexpected error: %v", err)
	}
	r.renderer = fake
	return r
}

// ---------------------------------------------------------------------------
// TestPageSize_Validate - Paper size names
// ---------------------------------------------------------------------------

func TestPageSize_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size    PageSize
		wantErr bool
	}{
		{size: PageSizeA4},
		{size: PageSizeLetter},
		{size: "A4"},
		{size: "Letter"},
		{size: "", wantErr: true},
		{size: "legal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			t.Parallel()

			err := tt.size.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPageSize) {
					t.Errorf("Validate(%q) error = %v, want ErrInvalidPageSize", tt.size, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) unexpected error: %v", tt.size, err)
			}
		})
	}
}

func TestNewPDFRenderer_InvalidPageSize(t *testing.T) {
	t.Parallel()

	_, err := NewPDFRenderer(WithPageSize("legal"))
	if !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("NewPDFRenderer() error = %v, want ErrInvalidPageSize", err)
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestPDFRenderer_Render - What reaches the browser
// ---------------------------------------------------------------------------

func TestPDFRenderer_Render(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	r := newTestRenderer(t, fake, WithPageSize("Letter"))

	got, err := r.Render(context.Background(), "<html><body><p>hi</p></body></html>", "")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if string(got) != "%PDF-1.7" {
		t.Errorf("Render() = %q, want fake PDF bytes", got)
	}
	if !strings.Contains(fake.html, "<p>hi</p>") {
		t.Errorf("renderer received %q, want page HTML", fake.html)
	}
	if fake.size != PageSizeLetter {
		t.Errorf("renderer size = %q, want %q", fake.size, PageSizeLetter)
	}
}

func TestPDFRenderer_Render_RewritesImagePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fake := &fakeRenderer{}
	r := newTestRenderer(t, fake)

	page := `<html><body><img src="images/stage.jpg"><img src="https://example.com/a.png"></body></html>`
	if _, err := r.Render(context.Background(), page, dir); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	wantLocal := "file://" + filepath.ToSlash(filepath.Join(dir, "images", "stage.jpg"))
	if !strings.Contains(fake.html, wantLocal) {
		t.Errorf("renderer received %q, want %q", fake.html, wantLocal)
	}
	if !strings.Contains(fake.html, "https://example.com/a.png") {
		t.Errorf("absolute URL should be untouched, got %q", fake.html)
	}
}

func TestPDFRenderer_Render_Errors(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		r := newTestRenderer(t, &fakeRenderer{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Render(ctx, "<html></html>", "")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Render() error = %v, want context.Canceled", err)
		}
	})

	t.Run("renderer failure propagates", func(t *testing.T) {
		t.Parallel()

		r := newTestRenderer(t, &fakeRenderer{err: ErrPDFGeneration})
		_, err := r.Render(context.Background(), "<html></html>", "")
		if !errors.Is(err, ErrPDFGeneration) {
			t.Errorf("Render() error = %v, want ErrPDFGeneration", err)
		}
	})
}

func TestPDFRenderer_Close(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	r := newTestRenderer(t, fake)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !fake.closed {
		t.Error("Close() did not close the underlying renderer")
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Paper dimensions
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size       PageSize
		wantWidth  float64
		wantHeight float64
	}{
		{size: PageSizeA4, wantWidth: 8.27, wantHeight: 11.69},
		{size: PageSizeLetter, wantWidth: 8.5, wantHeight: 11},
		{size: "unknown", wantWidth: 8.27, wantHeight: 11.69},
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			t.Parallel()

			opts := buildPDFOptions(tt.size)
			if *opts.PaperWidth != tt.wantWidth || *opts.PaperHeight != tt.wantHeight {
				t.Errorf("buildPDFOptions(%q) = %vx%v, want %vx%v",
					tt.size, *opts.PaperWidth, *opts.PaperHeight, tt.wantWidth, tt.wantHeight)
			}
			if !opts.PrintBackground {
				t.Error("PrintBackground should be true")
			}
		})
	}
}
