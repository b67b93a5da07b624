package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/kpitrend/schema"
)

// Color variables for console output.
var (
	IncreasingColor = color.New(color.FgGreen, color.Bold) // IncreasingColor marks metrics above average.
	DecreasingColor = color.New(color.FgRed, color.Bold)   // DecreasingColor marks metrics below average.
	TopTierColor    = color.New(color.FgGreen, color.Bold)
	SecondTierColor = color.New(color.FgCyan)
	ThirdTierColor  = color.New(color.FgYellow)
	BottomTierColor = color.New(color.FgRed)
	AdvisoryColor   = color.New(color.FgYellow) // AdvisoryColor marks non-fatal notices.
)

// GetColorDirection returns a colored direction word for console output.
func GetColorDirection(d schema.Direction) string {
	if d == schema.Increasing {
		return IncreasingColor.Sprint(string(d))
	}
	return DecreasingColor.Sprint(string(d))
}

// GetColorTierMessage returns the tier message colored by how good the tier is.
func GetColorTierMessage(tier schema.Tier, msg string) string {
	switch tier {
	case schema.TopTier:
		return TopTierColor.Sprint(msg)
	case schema.SecondTier:
		return SecondTierColor.Sprint(msg)
	case schema.ThirdTier:
		return ThirdTierColor.Sprint(msg)
	default:
		return BottomTierColor.Sprint(msg)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetSheetDBFilePath returns the path to the SQLite DB file for the KPI sheet.
func GetSheetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".kpitrend_sheet.db"
	}
	return filepath.Join(homeDir, ".kpitrend_sheet.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".kpitrend_runs.db"
	}
	return filepath.Join(homeDir, ".kpitrend_runs.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
