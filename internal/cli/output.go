package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Output destinations. Tests replace them with buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"})
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFD54F"})
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"})
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"})
)

// colorEnabled reports whether styled output should be used.
func colorEnabled() bool {
	if globalNoColor {
		return false
	}
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func styled(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", styled(styleSuccess, "✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", styled(styleWarning, "⚠"), msg)
}

// printError prints an error to stderr. Errors are printed even in quiet mode.
func printError(err error) {
	fmt.Fprintf(stderr, "%s %v\n", styled(styleError, "✗"), err)
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "\n  %s\n", styled(styleHeader, title))
}

// printSeparator prints a separator line
func printSeparator() {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, styled(styleMuted, "────────────────────────────────────────"))
}

// printTemplates prints the available template names, indented.
func printTemplates(names []string) {
	if globalQuiet || len(names) == 0 {
		return
	}
	printHeader("Available Templates")
	for _, name := range names {
		fmt.Fprintf(stdout, "    %s\n", name)
	}
}

// printPreview prints a rendered file in preview mode.
func printPreview(path string, content []byte) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, styled(styleHeader, path))
	printSeparator()
	fmt.Fprint(stdout, string(content))
	if len(content) > 0 && content[len(content)-1] != '\n' {
		fmt.Fprintln(stdout)
	}
	printSeparator()
}
