package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContentAppendText(t *testing.T) {
	first := Text{{Size: 1, Content: "opening paragraph"}}
	var c Content
	c.appendText(first)

	if diff := cmp.Diff(Content{first}, c); diff != "" {
		t.Error("content mismatch (-want +got):", diff)
	}

	second := Text{{Size: 1, Content: "following paragraph"}}
	c.appendText(second)

	if diff := cmp.Diff(Content{first, second}, c); diff != "" {
		t.Error("content mismatch (-want +got):", diff)
	}
}

func TestSectioned(t *testing.T) {
	doc := Text{
		{Size: 20, Content: "Introduction\n"},
		{Size: 10, Content: "\nBody text of the introduction.\n"},
	}

	c := doc.Sectioned()

	if got := c.Headings(); len(got) != 1 || got[0] != "Introduction" {
		t.Errorf("Headings() = %q, want [Introduction]", got)
	}
	if got := c.String(); got != "\n\nIntroduction\n\nBody text of the introduction." {
		t.Errorf("String() = %q", got)
	}
}

func TestSectionedDropsPageNumbers(t *testing.T) {
	doc := Text{{Size: 10, Content: "first page\n42\nsecond page"}}
	c := doc.Sectioned()
	if got := c.String(); got != "first page\nsecond page" {
		t.Errorf("String() = %q", got)
	}
}
