package text

import (
	"math"
	"sort"
	"strings"

	"github.com/pagemark/pdf/internal/state"
)

// defaultScaleWeight biases the fixed character width toward longer
// samples, which measure average glyph width more reliably than short
// ones.
const defaultScaleWeight = 1.25

// A LayoutOption adjusts how Layout places runs on the grid.
type LayoutOption func(*layoutConfig)

type layoutConfig struct {
	spaceVertically bool
	scaleWeight     float64
}

// SpaceVertically controls whether large vertical gaps between lines
// produce blank output lines. It is on by default.
func SpaceVertically(on bool) LayoutOption {
	return func(c *layoutConfig) { c.spaceVertically = on }
}

// ScaleWeight sets the exponent weighting longer runs when estimating
// the fixed character width.
func ScaleWeight(w float64) LayoutOption {
	return func(c *layoutConfig) { c.scaleWeight = w }
}

// Layout renders the runs on a fixed-width character grid that
// approximates their rendered placement: runs sharing a rounded y
// coordinate form one line, columns derive from x offsets, and blank
// lines fill large vertical gaps.
func Layout(rr []state.Run, opts ...LayoutOption) string {
	cfg := layoutConfig{spaceVertically: true, scaleWeight: defaultScaleWeight}
	for _, o := range opts {
		o(&cfg)
	}
	byY := make(map[int][]state.Run)
	for _, r := range rr {
		if r.Text == "" {
			continue
		}
		y := int(math.Round(r.Ty))
		byY[y] = append(byY[y], r)
	}
	if len(byY) == 0 {
		return ""
	}

	ys := make([]int, 0, len(byY))
	for y := range byY {
		byY[y] = sortByX(byY[y])
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	charWidth := fixedCharWidth(rr, cfg.scaleWeight)

	var lines []string
	for i, y := range ys {
		var line strings.Builder
		for _, r := range byY[y] {
			col := 0
			if charWidth > 0 {
				col = int(math.Round(r.Tx / charWidth))
			}
			for line.Len() < col {
				line.WriteByte(' ')
			}
			line.WriteString(r.Text)
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))

		if cfg.spaceVertically && i < len(ys)-1 && charWidth > 0 {
			// a line of text is taken to stand two char widths tall
			gap := int(math.Round(float64(y-ys[i+1]) / (charWidth * 2)))
			for j := 0; j < gap-1; j++ {
				lines = append(lines, "")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func sortByX(rr []state.Run) []state.Run {
	sort.SliceStable(rr, func(i, j int) bool { return rr[i].Tx < rr[j].Tx })
	return rr
}

// fixedCharWidth estimates a single character cell width as the
// average run advance per character, weighted by len^scaleWeight.
func fixedCharWidth(rr []state.Run, scaleWeight float64) float64 {
	var totalWidth, totalWeight float64
	for _, r := range rr {
		n := len([]rune(r.Text))
		if n == 0 {
			continue
		}
		width := (r.EndX - r.Tx) / float64(n)
		weight := math.Pow(float64(n), scaleWeight)
		totalWidth += width * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return totalWidth / totalWeight
}
