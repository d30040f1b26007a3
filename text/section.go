package text

import (
	"strconv"
	"strings"
)

// Sectioned arranges the text into a hierarchy of sections. Document
// outline metadata is unreliable in practice, so the split works from
// rendered size and positioning alone: a line set off by blank lines
// and larger than what follows opens a section.
func (t Text) Sectioned() Content {
	var (
		content Content
		body    Builder
	)

	lines := t.Split("\n")
	for i, line := range lines {
		line = line.TrimSpace()
		// Bare numbers are page numbers, drop them.
		if _, err := strconv.Atoi(line.String()); err == nil {
			continue
		}

		if isHeading(lines, i) {
			content.appendText(body.Text())
			body = Builder{}
			content.appendSection(line)
		} else {
			body.Add(line)
		}

		body.Add(Text{{Content: "\n"}})
	}

	content.appendText(body.Text())
	return content
}

// Content is an ordered mix of body Text and nested *Section values.
type Content []interface {
	String() string
	DebugString() string
}

// appendText adds body text to the most recent open section, or to
// the top level when no section has been opened yet.
func (c *Content) appendText(body Text) {
	for i := len(*c) - 1; i >= 0; i-- {
		if s, ok := (*c)[i].(*Section); ok {
			s.Content.appendText(body)
			return
		}
	}
	*c = append(*c, body.TrimSpace())
}

// appendSection opens a new section, nesting under the most recent
// section whose title renders larger than this one.
func (c *Content) appendSection(title Text) {
	n := title.Size()
	for i := len(*c) - 1; i >= 0; i-- {
		if s, ok := (*c)[i].(*Section); ok {
			if n < s.Title.Size() {
				s.Content.appendSection(title)
				return
			}
		}
	}
	*c = append(*c, &Section{Title: title})
}

func (c Content) String() string {
	var b strings.Builder
	for _, s := range c {
		b.WriteString(s.String())
	}
	return b.String()
}

func (c Content) DebugString() string {
	var b strings.Builder
	for _, s := range c {
		b.WriteString(s.DebugString())
	}
	return b.String()
}

// Headings returns the section titles in document order, with nesting
// rendered as tab indentation.
func (c Content) Headings() []string { return c.headings(0) }

func (c Content) headings(depth int) []string {
	var hh []string
	prefix := strings.Repeat("\t", depth)
	for _, v := range c {
		if s, ok := v.(*Section); ok {
			hh = append(hh, prefix+s.Title.String())
			hh = append(hh, s.Content.headings(depth+1)...)
		}
	}
	return hh
}

// Sections filters the content down to the named sections, keeping
// enclosing sections that contain a match.
func (c Content) Sections(names []string) Content {
	want := map[string]bool{}
	for _, name := range names {
		want[name] = true
	}
	return c.sections(want)
}

func (c Content) sections(names map[string]bool) Content {
	var cc Content
	for _, v := range c {
		s, ok := v.(*Section)
		if !ok {
			continue
		}
		if names[s.Title.String()] {
			cc = append(cc, s)
		} else if inner := s.Content.sections(names); len(inner) > 0 {
			cc = append(cc, &Section{Title: s.Title, Content: inner})
		}
	}
	return cc
}

// A Section is a titled run of content, possibly holding subsections.
type Section struct {
	Title   Text
	Content Content
}

func (s Section) String() string {
	var b strings.Builder
	if t := s.Title.String(); len(t) > 0 {
		b.WriteString("\n\n")
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	for _, c := range s.Content {
		b.WriteString(c.String())
	}
	return b.String()
}

func (s Section) DebugString() string { return s.debugString(0) }

func (s Section) debugString(depth int) string {
	var b strings.Builder
	if t := s.Title.DebugString(); len(t) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("#", depth+1))
		b.WriteRune(' ')
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	for _, c := range s.Content {
		if d, ok := c.(interface{ debugString(int) string }); ok {
			b.WriteString(d.debugString(depth + 1))
		} else {
			b.WriteString(c.DebugString())
		}
	}
	return b.String()
}

// isHeading guesses whether line i opens a section. Heuristics tuned
// on real documents; expect both misses and false positives.
func isHeading(lines []Text, i int) bool {
	line := lines[i].TrimSpace()
	content := line.String()
	if content == "" || len(content) < 4 {
		return false
	}

	// A heading stands alone: blank line above, content below.
	if i > 0 && lines[i-1].TrimSpace().String() != "" {
		return false
	}
	var next Text
	for j := i + 1; j < len(lines); j++ {
		if lines[j].TrimSpace().String() != "" {
			next = lines[j]
			break
		}
	}
	if next.String() == "" {
		return false
	}

	switch strings.ToLower(content) {
	case "table of contents":
		return false
	}

	return line.Size() > next.Size()
}
