// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/model"
)

func (m mainModel) updateConfirm(msg tea.Msg) (mainModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y":
		m.handler.Remove(m.ctx, m.pending.ID)
		m.closeConfirm()
	case "n", "q", "esc":
		m.closeConfirm()
	case "right", "tab", "l":
		m.confirmCursor = 1
	case "left", "shift+tab", "h":
		m.confirmCursor = 0
	case "enter":
		if m.confirmCursor == 1 {
			m.handler.Remove(m.ctx, m.pending.ID)
		}
		m.closeConfirm()
	}
	return m, nil
}

func (m *mainModel) closeConfirm() {
	m.pending = model.Entry{}
	m.confirmCursor = 0
	m.state = listView
}

// viewConfirmation renders the modal dialog for confirming a removal.
func (m mainModel) viewConfirmation() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.confirm_title")))
	b.WriteString("\n")
	b.WriteString(i18n.T("tui.confirm_question", m.pending.HWID, m.pending.PlayerName))
	b.WriteString("\n")

	yes, no := buttonStyle, activeButtonStyle
	if m.confirmCursor == 1 {
		yes, no = activeButtonStyle, buttonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		no.Render(i18n.T("tui.confirm_no")), "  ", yes.Render(i18n.T("tui.confirm_yes")))
	b.WriteString(buttons)
	b.WriteString("\n" + helpStyle.Render("\n"+i18n.T("tui.confirm_help")))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(b.String()),
	)
}
