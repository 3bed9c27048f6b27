// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for the HWID manager.
// This file defines the shared lipgloss styles.
package tui // import "github.com/toeirei/hwidmanager/internal/tui"

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/hwidmanager/internal/core"
)

// colorPalette defines the core colors used in the TUI.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
	colorInfo      = lipgloss.Color("33")
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	mainTitleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 0, 1, 0)

	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	// Table
	headerCellStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	itemStyle         = lipgloss.NewStyle()
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	// Modal Dialogs
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorHighlight).
			Padding(1, 2).
			Width(60)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.Color("237")). // Dark gray
			Padding(0, 3).
			MarginTop(1)

	activeButtonStyle = buttonStyle.
				Background(colorHighlight).
				Underline(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Italic(true)

	toastStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorWhite)
)

// toastStyleFor colors a notification by its kind.
func toastStyleFor(kind core.Kind) lipgloss.Style {
	switch kind {
	case core.KindSuccess:
		return toastStyle.Background(colorSuccess)
	case core.KindError:
		return toastStyle.Background(colorError)
	default:
		return toastStyle.Background(colorInfo)
	}
}
