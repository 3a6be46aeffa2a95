package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strategy pulls one optional value out of a document
type strategy[T any] func(doc *goquery.Document) (T, bool)

// firstOf applies strategies in order and returns the first hit
func firstOf[T any](doc *goquery.Document, strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(doc); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// candidates yields positional values found on the page, away team first
type candidates func(doc *goquery.Document) []string

// at turns a positional candidate list into a strategy for a single slot
func at(c candidates, idx int) strategy[string] {
	return func(doc *goquery.Document) (string, bool) {
		found := c(doc)
		if idx >= len(found) {
			return "", false
		}
		v := strings.TrimSpace(found[idx])
		return v, v != ""
	}
}

// texts collects the trimmed text of every element in a selection
func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
