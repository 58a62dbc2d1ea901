// Package htmltext prepares WordPress-rendered HTML for embedding: dropping
// active content and extracting plain-text excerpts.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removeSelector matches elements that must never reach the rendered page.
const removeSelector = "script, style, noscript, iframe, object, embed, form, input, button, select, textarea"

// Sanitize strips active content from an HTML fragment: script/style/iframe
// and friends are removed, on* event attributes and javascript: URLs dropped.
// Returns the fragment unchanged when it cannot be parsed.
func Sanitize(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	doc.Find(removeSelector).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			node.Attr = cleanAttrs(node.Attr)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return out
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "src") && isScriptURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func isScriptURL(val string) bool {
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(val)), "javascript:")
}

// Text flattens an HTML fragment to whitespace-normalized plain text.
func Text(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns the first maxWords words of the fragment's text, appending
// an ellipsis when truncated.
func Excerpt(fragment string, maxWords int) string {
	words := strings.Fields(Text(fragment))
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}
