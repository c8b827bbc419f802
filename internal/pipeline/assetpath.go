package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// assetAttrs lists the attribute rewritten per element.
var assetAttrs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// RewriteRelativePaths turns relative img[src] and a[href] references into
// absolute file:// URLs under sourceDir, so a document rendered from a temp
// file still finds its images. References that would escape sourceDir are
// left alone. Content is returned unchanged when nothing was rewritten.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.ContainsAny(htmlContent, "<") {
		return htmlContent, nil
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, fragment, err := parseDocument(htmlContent)
	if err != nil {
		return "", err
	}

	if rewritten := rewriteAssets(doc, root); rewritten == 0 {
		return htmlContent, nil
	}
	return renderDocument(doc, fragment)
}

// parseDocument parses a full document, or a fragment in <body> context.
func parseDocument(content string) (doc *html.Node, fragment bool, err error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err = html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	doc = &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		doc.AppendChild(n)
	}
	return doc, true, nil
}

func renderDocument(doc *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		err := html.Render(&b, doc)
		return b.String(), err
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// rewriteAssets walks the tree and returns the number of attributes changed.
func rewriteAssets(n *html.Node, root string) int {
	count := 0
	if n.Type == html.ElementNode {
		if key, ok := assetAttrs[n.DataAtom]; ok {
			for i := range n.Attr {
				if n.Attr[i].Key != key {
					continue
				}
				if resolved, ok := resolveAsset(n.Attr[i].Val, root); ok {
					n.Attr[i].Val = resolved
					count++
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += rewriteAssets(c, root)
	}
	return count
}

// resolveAsset maps a relative reference to a file:// URL under root.
// Anything with a scheme, a host, a leading slash or a leading "#" is not
// relative; neither is a reference whose cleaned path leaves root.
func resolveAsset(ref, root string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return "", false
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return "", false
	}

	p := filepath.Join(root, filepath.FromSlash(ref))
	if !withinDir(p, root) {
		return "", false
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String(), true
}

// withinDir reports whether p is dir itself or below it.
func withinDir(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
