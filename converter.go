package eventpage

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
	"sync"

	"github.com/alnah/go-eventpage/internal/assets"
	"github.com/alnah/go-eventpage/internal/fileutil"
	"github.com/alnah/go-eventpage/internal/pipeline"
)

// DefaultLang is the document language when no lang directive is present.
const DefaultLang = pipeline.DefaultLang

// Converter turns event-page drafts into article HTML.
// Create with NewConverter. A Converter holds no mutable state after
// construction and is safe for concurrent use.
type Converter struct {
	cfg       converterConfig
	loader    AssetLoader
	assembler *pipeline.Assembler
	page      *template.Template
	css       string
}

// converterConfig holds the values collected from options.
type converterConfig struct {
	labels     Labels
	links      LinkTemplates
	styleInput string
}

// pageData feeds the page template.
type pageData struct {
	Lang    string
	Title   string
	CSS     template.CSS
	Article template.HTML
}

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NewConverter creates a Converter with the built-in labels, link table and
// default style. Use options to override them.
// Returns an error if the style or the page template cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			labels:     DefaultLabels(),
			links:      DefaultLinkTemplates(),
			styleInput: DefaultStyle,
		},
		loader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := c.loader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	c.page, err = template.New(assets.PageTemplateName).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page template: %v", ErrPageRender, err)
	}

	c.assembler = pipeline.NewAssembler(toPipelineLabels(c.cfg.labels), pipeline.Links(c.cfg.links))
	return c, nil
}

// Convert parses a draft and returns its plain title and article HTML.
//
// It fails with ErrMalformedDocument when the draft lacks two --- delimiters,
// and with ErrUnknownKind, ErrUnknownTime or ErrUnknownLang when a header
// label cannot be found. No partial result is returned on failure.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(md string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(md) == "" {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, ErrEmptyDocument)
	}
	md = newlineNormalizer.Replace(md)

	front, body, err := pipeline.SplitDocument(md)
	if err != nil {
		return nil, err
	}

	attrs, slides := pipeline.ParseFrontmatter(front)

	article, err := c.assembler.Assemble(attrs, slides, body)
	if err != nil {
		return nil, err
	}

	return &Result{
		Title:      pipeline.StripRuby(attrs.Title),
		Article:    article,
		Attributes: fromPipelineAttributes(attrs),
		Slides:     fromPipelineSlides(slides),
	}, nil
}

// Page wraps a conversion result into a standalone HTML document using the
// converter's style.
func (c *Converter) Page(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("%w: nil result", ErrPageRender)
	}

	lang := res.Attributes.Lang
	if lang == "" {
		lang = DefaultLang
	}

	var buf bytes.Buffer
	err := c.page.Execute(&buf, pageData{
		Lang:  lang,
		Title: res.Title,
		CSS:   template.CSS(c.css), // #nosec G203 -- style comes from embedded assets or a user-chosen file
		// #nosec G203 -- article markup is produced by the converter, text is escaped
		Article: template.HTML(res.Article),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// Style returns the resolved CSS used by Page.
func (c *Converter) Style() string {
	return c.css
}

// resolveStyle resolves the style input (name or path) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.css = string(content)
		return nil
	}

	css, err := c.loader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.css = css
	return nil
}

var (
	defaultOnce      sync.Once
	defaultConverter *Converter
	defaultErr       error
)

// Convert converts md with the built-in labels and link table.
func Convert(md string) (*Result, error) {
	defaultOnce.Do(func() {
		defaultConverter, defaultErr = NewConverter()
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultConverter.Convert(md)
}
