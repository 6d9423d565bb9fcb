package eventpage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-eventpage/internal/fileutil"
	"github.com/alnah/go-eventpage/internal/pipeline"
	"github.com/alnah/go-eventpage/internal/process"
)

// PageSize names a supported paper size.
type PageSize string

// Supported paper sizes.
const (
	PageSizeA4     PageSize = "a4"
	PageSizeLetter PageSize = "letter"
)

// paperInches maps page sizes to width and height in inches.
var paperInches = map[PageSize][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
}

// marginInches is the fallback margin; print styles usually set @page margins.
const marginInches = 0.4

// Validate checks that s names a supported paper size. Case-insensitive.
func (s PageSize) Validate() error {
	if _, ok := paperInches[PageSize(strings.ToLower(string(s)))]; !ok {
		return fmt.Errorf("%w: %q (must be a4 or letter)", ErrInvalidPageSize, s)
	}
	return nil
}

// fileRenderer prints a local HTML file. Swapped for a fake in tests.
type fileRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, size PageSize) ([]byte, error)
	Close() error
}

var _ fileRenderer = (*rodRenderer)(nil)

// rendererConfig holds the values collected from renderer options.
type rendererConfig struct {
	timeout  time.Duration
	pageSize PageSize
}

// PDFRenderer prints full HTML pages to PDF with headless Chrome.
// The browser is started on first use. A PDFRenderer renders one page at a
// time; use RendererPool for parallel work.
type PDFRenderer struct {
	cfg      rendererConfig
	renderer fileRenderer
}

// NewPDFRenderer creates a PDFRenderer. Defaults to A4 and a 30s timeout.
func NewPDFRenderer(opts ...RendererOption) (*PDFRenderer, error) {
	r := &PDFRenderer{
		cfg: rendererConfig{
			timeout:  defaultTimeout,
			pageSize: PageSizeA4,
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.cfg.pageSize.Validate(); err != nil {
		return nil, err
	}
	r.cfg.pageSize = PageSize(strings.ToLower(string(r.cfg.pageSize)))

	if r.renderer == nil {
		r.renderer = newRodRenderer(r.cfg.timeout)
	}
	return r, nil
}

// Render prints page to PDF. Relative image paths are resolved against
// sourceDir when it is set, so local drafts keep their pictures.
func (r *PDFRenderer) Render(ctx context.Context, page, sourceDir string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sourceDir != "" {
		var err error
		page, err = pipeline.RewriteImagePaths(page, sourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting image paths: %w", err)
		}
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return r.renderer.RenderFromFile(ctx, tmpPath, r.cfg.pageSize)
}

// Close releases browser resources.
func (r *PDFRenderer) Close() error {
	if r.renderer != nil {
		return r.renderer.Close()
	}
	return nil
}

// rodRenderer implements fileRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close closes the browser and kills any Chrome processes left behind.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.kill()
	return err
}

func (r *rodRenderer) kill() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, size PageSize) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF for the given paper size.
func buildPDFOptions(size PageSize) *proto.PagePrintToPDF {
	dims, ok := paperInches[size]
	if !ok {
		dims = paperInches[PageSizeA4]
	}
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(dims[0]),
		PaperHeight:     floatPtr(dims[1]),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
