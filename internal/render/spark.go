package render

import "strings"

// sparkGlyphs are the eighth-block characters used for sparklines, in
// ascending order.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last maxWidth values of a window as a unicode
// sparkline scaled to the window's own maximum.
func Sparkline(values []float64, maxWidth int) string {
	if len(values) == 0 || maxWidth <= 0 {
		return ""
	}
	if len(values) > maxWidth {
		values = values[len(values)-maxWidth:]
	}
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(sparkGlyphs)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkGlyphs) {
			idx = len(sparkGlyphs) - 1
		}
		b.WriteRune(sparkGlyphs[idx])
	}
	return b.String()
}

// Bar renders a horizontal gauge of width cells filled proportionally
// to value/max.
func Bar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 {
		filled = int(value / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
