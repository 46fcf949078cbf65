package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skippedTags are removed from the text rendering entirely, content
// included.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"head":     true,
}

// lineBreakTags end the current output line before and after their content.
var lineBreakTags = map[string]bool{
	"p":       true,
	"div":     true,
	"section": true,
	"article": true,
	"header":  true,
	"footer":  true,
	"h1":      true,
	"h2":      true,
	"h3":      true,
	"h4":      true,
	"h5":      true,
	"h6":      true,
	"ul":      true,
	"ol":      true,
	"li":      true,
	"table":   true,
	"tr":      true,
	"br":      true,
}

// DocumentText renders a saved confirmation document as readable plain
// text: markup noise is stripped, whitespace is collapsed and block
// boundaries become line breaks. Table rows come out as one line per row.
func DocumentText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	var lines []string
	var current strings.Builder
	flush := func() {
		line := strings.TrimSpace(current.String())
		current.Reset()
		if line != "" {
			lines = append(lines, line)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			return
		case html.TextNode:
			text := strings.Join(strings.Fields(n.Data), " ")
			if text == "" {
				return
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(text)
			return
		case html.ElementNode:
			tag := strings.ToLower(n.Data)
			if skippedTags[tag] {
				return
			}
			if lineBreakTags[tag] {
				flush()
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if lineBreakTags[tag] {
				flush()
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}
