// Package progress renders the terminal progress bar and samples column
// counters while the worker pool drains the queue.
package progress

import (
	"fmt"
	"math"
	"strings"
)

// Left-block glyphs for partial cells, indexed by eighths.
var blocks = [8]string{"█", "▏", "▎", "▍", "▌", "▋", "▊", "█"}

const (
	fill       = "▒"
	colorGreen = "\x1b[0;32m"
	colorReset = "\x1b[0m"
)

// DefaultWidth is the bar width in cells.
const DefaultWidth = 60

// Render draws a progress bar of width cells at step/total resolution. Each
// cell subdivides into eighths; the remainder cell uses a partial block
// glyph and the rest is padded with the fill glyph. The percentage suffix is
// clamped to 100.00 to hide rounding overshoot.
func Render(step, total, width int, title string) string {
	perc := 100.0
	if total > 0 {
		perc = 100 * float64(step) / float64(total)
	}

	maxTicks := width * 8
	numTicks := int(math.Round(perc / 100 * float64(maxTicks)))
	fullTicks := numTicks / 8
	partTicks := numTicks % 8

	var bar strings.Builder
	bar.WriteString(strings.Repeat(blocks[0], fullTicks))
	padding := width - fullTicks
	if partTicks > 0 {
		bar.WriteString(blocks[partTicks])
		padding--
	}
	bar.WriteString(strings.Repeat(fill, padding))

	if perc > 100 {
		perc = 100
	}

	var disp strings.Builder
	if title != "" {
		disp.WriteString(title + ": ")
	}
	disp.WriteString(colorGreen)
	disp.WriteString(bar.String())
	disp.WriteString(colorReset)
	fmt.Fprintf(&disp, " %6.2f %%", perc)
	return disp.String()
}
