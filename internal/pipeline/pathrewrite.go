package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteImagePaths converts relative img[src] values in a rendered page to
// absolute file:// URLs rooted at sourceDir, so a page printed from a temp
// file still finds the draft's slide and figure images.
// If sourceDir is empty, returns the HTML unchanged.
//
// Left as they are:
//   - anchors (site-relative links belong to the published site, not disk)
//   - URLs with a scheme, protocol-relative URLs and absolute paths
//   - paths escaping sourceDir
func RewriteImagePaths(page, sourceDir string) (string, error) {
	if sourceDir == "" {
		return page, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(page)
	if err != nil {
		return "", err
	}

	rewriteImages(doc, absSourceDir)

	return renderHTML(doc, isFragment)
}

// parseHTML parses either a full document or an article fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders doc; fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteImages(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			absPath := filepath.Join(sourceDir, attr.Val)
			if !isPathUnderDir(absPath, sourceDir) {
				continue
			}
			n.Attr[i].Val = pathToFileURL(absPath)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, sourceDir)
	}
}

// isRelativePath reports whether path is a plain relative filesystem path.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "#") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir reports whether absPath stays inside dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
