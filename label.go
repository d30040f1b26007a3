// Page labels: the PageLabels number tree in the document catalog.

package pdf

import (
	"strconv"
	"strings"

	"github.com/pagemark/pdf/internal/numtree"
)

// PageLabel returns the display label of the page at the given
// zero-based index, such as "iv" or "A-2". Pages outside any labeled
// range, and documents without a PageLabels tree, get the ordinal
// page number in decimal.
func (r *Reader) PageLabel(index int) string {
	if r.labels == nil {
		r.labels = newPageLabeler(r.Trailer().Key("Root").Key("PageLabels"))
	}
	return r.labels.label(index)
}

type pageLabeler struct {
	tree *numtree.Tree
}

func newPageLabeler(v Value) *pageLabeler {
	var entries []numtree.Entry
	collectNums(v, &entries, 0)
	t, err := numtree.New(entries)
	if err != nil {
		// out-of-order keys, ignore the tree
		t = &numtree.Tree{}
	}
	return &pageLabeler{tree: t}
}

// collectNums gathers the Nums pairs of a number tree, descending
// through intermediate Kids nodes.
func collectNums(v Value, entries *[]numtree.Entry, depth int) {
	if depth >= maxTreeDepth {
		return
	}
	kids := v.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		collectNums(kids.Index(i), entries, depth+1)
	}
	nums := v.Key("Nums")
	for i := 0; i+1 < nums.Len(); i += 2 {
		key := nums.Index(i)
		if key.Kind() != IntegerKind {
			continue
		}
		*entries = append(*entries, numtree.Entry{Key: int(key.Int64()), Value: nums.Index(i + 1)})
	}
}

func (l *pageLabeler) label(index int) string {
	e, ok := l.tree.Lookup(index)
	if !ok {
		return strconv.Itoa(index + 1)
	}
	rng, _ := e.Value.(Value)

	start := 1
	if st := rng.Key("St"); st.Kind() == IntegerKind {
		start = int(st.Int64())
	}
	n := start + index - e.Key

	var num string
	switch rng.Key("S").Name() {
	case "D":
		num = strconv.Itoa(n)
	case "R":
		num = strings.ToUpper(toRoman(n))
	case "r":
		num = toRoman(n)
	case "A":
		num = toAlpha(n)
	case "a":
		num = strings.ToLower(toAlpha(n))
	}
	return rng.Key("P").Text() + num
}

var romanPairs = []struct {
	value int
	sym   string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// toRoman formats n in lowercase subtractive roman numerals.
func toRoman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range romanPairs {
		for n >= p.value {
			b.WriteString(p.sym)
			n -= p.value
		}
	}
	return b.String()
}

// toAlpha formats n in the bijective base-26 lettering style:
// 1..26 are A..Z, 27 is AA, 52 is AZ, 53 is BA.
func toAlpha(n int) string {
	if n <= 0 {
		return ""
	}
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('A' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}
