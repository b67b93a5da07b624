package outwriter

import (
	"os"

	"github.com/huangsam/kpitrend/internal/contract"
	"golang.org/x/term"
)

// getMaxNameWidth calculates the maximum width for metric names in table output
// based on terminal width.
func getMaxNameWidth(cfg *contract.Config) int {
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

	// Average + Entry + Trend columns with borders and padding
	available := termWidth - 45
	if available < 10 {
		return 10
	}
	if available > 30 {
		return 30
	}
	return available
}
