// =============================================================================
// Donation Stats - HTML Parser Module
// =============================================================================
//
// This module loads the HTML snapshot of the fundraising page and provides
// the small set of tree queries the extractor needs:
//   - Candidates: every element carrying a marker, lazily, in document order
//   - Closest:    the nearest enclosing ancestor carrying a marker
//   - FindFirst:  the first descendant carrying a marker
//   - Text:       the visible text of an element
//
// Markers match on tag name plus one class token, the same way a CSS
// selector such as "div.rounded-full" would.
//
// =============================================================================

package htmlparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoDocument is returned when the input contains no markup at all.
var ErrNoDocument = errors.New("document is empty")

// =============================================================================
// MARKER
// =============================================================================

// Marker identifies an element by tag name and a single class token.
// An empty Tag matches any element; an empty Class matches any class list.
type Marker struct {
	Tag   string
	Class string
}

// String renders the marker as a CSS-like selector.
func (m Marker) String() string {
	if m.Class == "" {
		return m.Tag
	}
	return m.Tag + "." + m.Class
}

// Matches reports whether n is an element carrying the marker.
func (m Marker) Matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if m.Tag != "" && !strings.EqualFold(n.Data, m.Tag) {
		return false
	}
	if m.Class == "" {
		return true
	}
	return HasClass(n, m.Class)
}

// HasClass reports whether the element's class attribute contains class as
// a whitespace separated token.
func HasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and parses the HTML document at filePath.
//
// RETURNS:
//   - The document root node.
//   - An error wrapping os.ErrNotExist when the file is missing, or any
//     other read or parse failure.
func Load(filePath string) (*html.Node, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	doc, err := Parse(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return doc, nil
}

// Parse parses an HTML document from r.
func Parse(r io.Reader) (*html.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDocument
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// =============================================================================
// TREE QUERIES
// =============================================================================

// Candidates yields every descendant of root carrying marker, in document
// order. The walk is lazy: it stops as soon as the consumer stops ranging.
func Candidates(root *html.Node, marker Marker) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		walk(root, marker, yield)
	}
}

// walk is a pre-order traversal; it returns false once yield asks to stop.
func walk(n *html.Node, marker Marker, yield func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if marker.Matches(c) && !yield(c) {
			return false
		}
		if !walk(c, marker, yield) {
			return false
		}
	}
	return true
}

// Closest returns the nearest ancestor of n carrying marker, or nil.
// The node itself is not considered.
func Closest(n *html.Node, marker Marker) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if marker.Matches(p) {
			return p
		}
	}
	return nil
}

// FindFirst returns the first descendant of root carrying marker, or nil.
func FindFirst(root *html.Node, marker Marker) *html.Node {
	for n := range Candidates(root, marker) {
		return n
	}
	return nil
}

// Text returns the visible text of n: every descendant text node trimmed of
// surrounding whitespace and concatenated. Script and style contents are
// skipped. A nil node has no text.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var builder strings.Builder
	collectText(n, &builder)
	return builder.String()
}

func collectText(n *html.Node, builder *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		builder.WriteString(strings.TrimSpace(n.Data))
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}
