package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// HelpWidth is the column command help text is wrapped to.
const HelpWidth = 80

// Wrap80 wraps help text to HelpWidth.
func Wrap80(text string) string {
	return Wrap(text, HelpWidth)
}

// Wrap collapses runs of whitespace and breaks text on word boundaries so no
// line exceeds width, unless a single word is longer.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	return wordwrap.String(strings.Join(words, " "), width)
}
