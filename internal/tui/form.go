// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/hwidmanager/internal/core"
	"github.com/toeirei/hwidmanager/internal/i18n"
)

// updateForm handles the add form. Enter submits from either field; a
// rejected submission keeps the form open with its contents.
func (m mainModel) updateForm(msg tea.Msg) (mainModel, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.hwidInput.Blur()
			m.playerInput.Blur()
			m.state = listView
			return m, nil
		case "tab", "shift+tab", "up", "down":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.hwidInput.Blur()
				cmd = m.playerInput.Focus()
			} else {
				m.focusIndex = 0
				m.playerInput.Blur()
				cmd = m.hwidInput.Focus()
			}
			return m, cmd
		case "enter":
			in := &core.AddInput{HWID: m.hwidInput.Value(), PlayerName: m.playerInput.Value()}
			if _, ok := m.handler.Add(m.ctx, in); ok {
				m.hwidInput.SetValue(in.HWID)
				m.playerInput.SetValue(in.PlayerName)
				m.hwidInput.Blur()
				m.playerInput.Blur()
				m.focusIndex = 0
				m.cursor = 0
				m.state = listView
			}
			return m, nil
		}
	}

	if m.focusIndex == 0 {
		m.hwidInput, cmd = m.hwidInput.Update(msg)
	} else {
		m.playerInput, cmd = m.playerInput.Update(msg)
	}
	return m, cmd
}

// viewForm renders the two form fields.
func (m mainModel) viewForm() string {
	label := func(text string, focused bool) string {
		if focused && m.state == formView {
			return focusedStyle.Render(text)
		}
		return helpStyle.Render(text)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(i18n.T("tui.form_title")),
		label(i18n.T("tui.hwid_label"), m.focusIndex == 0),
		m.hwidInput.View(),
		"",
		label(i18n.T("tui.player_label"), m.focusIndex == 1),
		m.playerInput.View(),
	)
	return paneStyle.Render(body)
}
