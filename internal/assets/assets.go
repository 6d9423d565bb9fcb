package assets

import (
	"io/fs"
	"slices"
	"strings"
)

// defaultLoader is shared by the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// StyleNames lists the embedded style names in sorted order.
func StyleNames() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
