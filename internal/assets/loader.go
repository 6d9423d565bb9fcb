package assets

// AssetLoader loads CSS styles and HTML templates by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// Built-in asset names.
const (
	DefaultStyleName = "default"
	PrintStyleName   = "print"
	PageTemplateName = "page"
)
