package eventpage

import (
	"maps"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// WithLabels merges l over the built-in labels.
// Entries absent from l keep their default values.
func WithLabels(l Labels) Option {
	return func(c *Converter) {
		c.cfg.labels = c.cfg.labels.Merge(l)
	}
}

// WithLinkTemplates overrides entries of the link table.
// Keys outside the table are added as-is.
func WithLinkTemplates(links LinkTemplates) Option {
	return func(c *Converter) {
		merged := maps.Clone(c.cfg.links)
		maps.Copy(merged, links)
		c.cfg.links = merged
	}
}

// WithStyle selects the page style by built-in name or CSS file path.
// An empty value keeps the default style.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		if nameOrPath != "" {
			c.cfg.styleInput = nameOrPath
		}
	}
}

// WithAssetLoader sets a custom loader for styles and the page template.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// RendererOption configures a PDFRenderer.
type RendererOption func(*PDFRenderer)

// defaultTimeout bounds page loading when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) RendererOption {
	if d <= 0 {
		panic("eventpage: WithTimeout duration must be positive")
	}
	return func(r *PDFRenderer) {
		r.cfg.timeout = d
	}
}

// WithPageSize sets the paper size. Validated by NewPDFRenderer.
func WithPageSize(size PageSize) RendererOption {
	return func(r *PDFRenderer) {
		r.cfg.pageSize = size
	}
}
