// Package htmltext reduces server-rendered HTML fragments to plain text.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the text content of fragment with entities decoded and runs
// of whitespace collapsed to single spaces. Input that cannot be parsed is
// returned trimmed.
func Text(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// FirstImage returns the src of the first <img> in fragment, if any.
func FirstImage(fragment string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", false
	}
	return doc.Find("img").First().Attr("src")
}
