package printers

import (
	"encoding/json"

	"github.com/fatih/color"
)

// JSON writes v indented to the color output.
func JSON(v any) error {
	enc := json.NewEncoder(color.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
