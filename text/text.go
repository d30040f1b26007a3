package text

import (
	"fmt"
	"strings"
	"unicode"
)

// Text is minimally structured text extracted from a document: a run
// of Parts, each carrying the size and weight it was rendered at.
type Text []Part

// Part is a maximal stretch of Text sharing one size and weight.
type Part struct {
	Size float64
	// style bitmask; bit 0 is bold
	Weight  int
	Content string
}

// String flattens the Text, dropping the sizing information.
func (t Text) String() string {
	var b strings.Builder
	for _, p := range t {
		b.WriteString(p.Content)
	}
	return b.String()
}

// DebugString renders the Text with a [size|weight] annotation at
// every part boundary.
func (t Text) DebugString() string {
	var b strings.Builder
	for _, p := range t {
		fmt.Fprintf(&b, "[%.1f|%b]", p.Size, p.Weight)
		b.WriteString(p.Content)
	}
	return b.String()
}

// Size returns the dominant rendered size: the largest part size,
// nudged by weight so bold outranks regular text of the same size.
func (t Text) Size() float64 {
	var ms float64
	for _, p := range t {
		ms = max(ms, p.Size+float64(p.Weight)/100)
	}
	return ms
}

// TrimSpace trims whitespace from both ends of the Text, dropping
// parts emptied by the trim.
func (t Text) TrimSpace() Text {
	if len(t) == 0 {
		return t
	}

	pp := append(Text(nil), t...)
	pp[0].Content = strings.TrimLeftFunc(pp[0].Content, unicode.IsSpace)
	pp[len(pp)-1].Content = strings.TrimRightFunc(pp[len(pp)-1].Content, unicode.IsSpace)

	var trimmed Text
	for _, p := range pp {
		if len(p.Content) > 0 {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed
}

// Split cuts the Text at every occurrence of sep. Sizing survives the
// cut: a piece spanning parts of different sizes keeps its part
// boundaries.
func (t Text) Split(sep string) []Text {
	var parts []Text
	var current Builder

	for _, p := range t {
		for i, line := range strings.Split(p.Content, sep) {
			if i > 0 {
				parts = append(parts, current.text)
				current = Builder{}
			}
			current.add(p.Size, p.Weight, line, noWhitespace)
		}
	}
	if len(current.text) > 0 {
		parts = append(parts, current.text)
	}
	return parts
}
