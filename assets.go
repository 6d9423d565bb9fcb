package eventpage

import (
	"github.com/alnah/go-eventpage/internal/assets"
)

// Names of the built-in styles and page template.
const (
	// DefaultStyle is the screen style used by Page.
	DefaultStyle = assets.DefaultStyleName

	// PrintStyle is the A4 style used for PDF export.
	PrintStyle = assets.PrintStyleName
)

// AssetLoader defines the contract for loading CSS styles and the page
// template. Implement it to serve assets from somewhere other than the
// binary.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader for the assets embedded in the binary.
func NewAssetLoader() AssetLoader {
	return assets.NewEmbeddedLoader()
}

// StyleNames lists the built-in style names.
func StyleNames() []string {
	return assets.StyleNames()
}
