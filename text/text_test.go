package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextSplit(t *testing.T) {
	testCases := map[string]struct {
		input Text
		want  []Text
	}{
		"nil": {},
		"empty part": {
			input: Text{{Size: 1, Weight: 1, Content: ""}},
			want:  []Text{{{Size: 1, Weight: 1, Content: ""}}},
		},
		"no separator": {
			input: Text{{Size: 1, Weight: 1, Content: "abc"}},
			want:  []Text{{{Size: 1, Weight: 1, Content: "abc"}}},
		},
		"sizes survive": {
			input: Text{{Size: 1, Weight: 1, Content: "a"}, {Size: 2, Weight: 2, Content: "bc"}},
			want:  []Text{{{Size: 1, Weight: 1, Content: "a"}, {Size: 2, Weight: 2, Content: "bc"}}},
		},
		"separator inside one part": {
			input: Text{{Size: 1, Weight: 1, Content: "a\nb"}, {Size: 2, Weight: 2, Content: "c"}},
			want: []Text{
				{{Size: 1, Weight: 1, Content: "a"}},
				{{Size: 1, Weight: 1, Content: "b"}, {Size: 2, Weight: 2, Content: "c"}},
			},
		},
		"separators across parts": {
			input: Text{{Size: 1, Weight: 1, Content: "a\nb"}, {Size: 2, Weight: 2, Content: "c\nd"}},
			want: []Text{
				{{Size: 1, Weight: 1, Content: "a"}},
				{{Size: 1, Weight: 1, Content: "b"}, {Size: 2, Weight: 2, Content: "c"}},
				{{Size: 2, Weight: 2, Content: "d"}},
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := tc.input.Split("\n")
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error("split mismatch (-want +got):", diff)
			}
		})
	}
}

func TestTextTrimSpace(t *testing.T) {
	testCases := map[string]struct {
		input Text
		want  Text
	}{
		"whitespace only": {
			input: Text{{Size: 1, Weight: 1, Content: " \n\t "}},
			want:  nil,
		},
		"single part": {
			input: Text{{Size: 1, Weight: 1, Content: " a "}},
			want:  Text{{Size: 1, Weight: 1, Content: "a"}},
		},
		"inner whitespace kept": {
			input: Text{{Size: 1, Weight: 1, Content: " a "}, {Size: 2, Weight: 2, Content: " b "}, {Size: 3, Weight: 3, Content: " c "}},
			want:  Text{{Size: 1, Weight: 1, Content: "a "}, {Size: 2, Weight: 2, Content: " b "}, {Size: 3, Weight: 3, Content: " c"}},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := tc.input.TrimSpace()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error("trim mismatch (-want +got):", diff)
			}
		})
	}
}

func TestTextSize(t *testing.T) {
	txt := Text{
		{Size: 10, Weight: 0, Content: "regular"},
		{Size: 10, Weight: 1, Content: "bold"},
	}
	if got := txt.Size(); got != 10.01 {
		t.Errorf("Size() = %v, want 10.01", got)
	}
}
