package card

import (
	"strings"
	"unicode/utf8"
)

// charWidth is the average glyph advance as a share of the font size.
const charWidth = 0.6

// ellipsis marks text cut for lack of room.
const ellipsis = "..."

// EstimateWidth returns the approximate rendered width of s.
func EstimateWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * charWidth * size
}

// Wrap breaks text into lines no wider than width by the width estimate.
// Explicit newlines always break; each segment is wrapped on its own. A
// word wider than width gets a line to itself. Blank segments are dropped.
func Wrap(text string, size, width float64) []string {
	var lines []string
	for _, segment := range strings.Split(text, "\n") {
		lines = append(lines, wrapSegment(segment, size, width)...)
	}
	return lines
}

func wrapSegment(segment string, size, width float64) []string {
	words := strings.Fields(segment)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if EstimateWidth(candidate, size) <= width {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// Truncate shortens s rune by rune until it fits width with an ellipsis
// appended. Text that already fits is returned unchanged and ok is true.
func Truncate(s string, size, width float64) (out string, ok bool) {
	if EstimateWidth(s, size) <= width {
		return s, true
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cut := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if EstimateWidth(cut, size) <= width {
			return cut, false
		}
	}
	return ellipsis, false
}
