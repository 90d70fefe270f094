package outwriter

import (
	"os"

	"github.com/kimbotto/distaf/internal/contract"
	"golang.org/x/term"
)

// Bounds for the name column of text tables.
const (
	minNameWidth = 15
	maxNameWidth = 60
)

// terminalWidth returns the configured width override, the detected terminal width,
// or 80 when neither is available.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detected
}

// GetMaxNameWidth calculates the maximum width for node names in table output
// based on terminal width and which optional columns are shown.
func GetMaxNameWidth(cfg *contract.Config) int {
	// Operational + Design + Label + Capped with borders/padding
	baseWidth := 45
	if cfg.Detail {
		baseWidth += 12 // Track column
	}
	// Table borders, separators and padding
	baseWidth += 10

	available := terminalWidth(cfg) - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
