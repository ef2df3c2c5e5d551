package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(28)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	errStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
)

// printCheck prints one status line: a label, a marker and a detail.
func printCheck(label string, result checkResult, detail string) {
	var marker string
	switch result {
	case checkOK:
		marker = okStyle.Render("✓")
	case checkWarn:
		marker = warnStyle.Render("⚠")
	default:
		marker = errStyle.Render("✗")
	}
	fmt.Printf("%s %s %s\n", labelStyle.Render(label), marker, detail)
}
