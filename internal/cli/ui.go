package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary accents
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleSuccess     = lipgloss.NewStyle().Foreground(colorGreen)
	styleError       = lipgloss.NewStyle().Foreground(colorRed)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess reports a completed operation.
func printSuccess(format string, args ...any) {
	fmt.Println(styleSuccess.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// printError reports a failed operation.
func printError(format string, args ...any) {
	fmt.Println(styleError.Render("✗") + " " + fmt.Sprintf(format, args...))
}

// printWarning reports a recoverable problem.
func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a file the command produced.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value with aligned keys.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints a one-line solve summary: colored node count and whether
// the extraction came from the cache.
func printStats(nodes int, cached bool) {
	parts := []string{fmt.Sprintf("%d nodes", nodes)}
	if cached {
		parts = append(parts, styleSuccess.Render("cached"))
	} else {
		parts = append(parts, "computed")
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}
