package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette (256-color codes).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths, versions and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleFailed      = lipgloss.NewStyle().Foreground(colorRed)
	styleSelected    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconArrow = "→"
	iconPick  = "▸"
)

// statusIcons maps a status line kind to its icon and icon color.
var statusIcons = map[string]struct {
	icon  string
	color lipgloss.Color
}{
	"success": {"✓", colorGreen},
	"error":   {"✗", colorRed},
	"warning": {"!", colorYellow},
	"info":    {"›", colorGray},
}

func printStatus(kind, msg string) {
	s := statusIcons[kind]
	fmt.Println(lipgloss.NewStyle().Foreground(s.color).Render(s.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printStatus("success", fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { printStatus("error", fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printStatus("info", fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	printStatus("warning", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path written or resolved by a command.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printSummary prints resolution counts on a single line, e.g.
// "3 resolved · 1 failed · 1.2s".
func printSummary(resolved, failed int, elapsed time.Duration) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d resolved", resolved))}
	if failed > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d failed", failed)))
	}
	parts = append(parts, StyleDim.Render(elapsed.Round(time.Millisecond).String()))
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
