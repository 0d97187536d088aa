package outwriter

import (
	"os"

	"github.com/huangsam/farmstat/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableKeyWidth calculates the maximum width for distribution keys in table output
// based on terminal width.
func GetMaxTableKeyWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Count + Sum columns with borders and padding
	baseWidth := 40

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
