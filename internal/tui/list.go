// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/view"
)

// Column widths of the HWID table.
const (
	colHWIDWidth   = 28
	colPlayerWidth = 18
	colDateWidth   = 24
)

func (m mainModel) updateList(msg tea.Msg) (mainModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.handler.SearchTerm() != "" {
			m.handler.Search("")
			m.searchInput.SetValue("")
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
	case "a":
		m.state = formView
		m.focusIndex = 0
		m.playerInput.Blur()
		return m, m.hwidInput.Focus()
	case "/":
		m.state = searchView
		m.searchInput.SetValue(m.handler.SearchTerm())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "c":
		if e, ok := m.selected(); ok {
			m.handler.Copy(e.HWID)
		}
	case "d", "delete":
		if e, ok := m.selected(); ok {
			m.pending = e
			m.confirmCursor = 0
			m.state = confirmView
		}
	}
	return m, nil
}

func (m mainModel) updateSearch(msg tea.Msg) (mainModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.searchInput.SetValue("")
			m.handler.Search("")
			m.searchInput.Blur()
			m.state = listView
			return m, nil
		case "enter", "down":
			m.searchInput.Blur()
			m.state = listView
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.handler.SearchTerm() {
		m.handler.Search(m.searchInput.Value())
		m.cursor = 0
	}
	return m, cmd
}

// viewMain renders the header, the form, the search box and the table.
func (m mainModel) viewMain() string {
	v := m.handler.View()

	header := lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("tui.title")),
		helpStyle.Render(i18n.T("tui.subtitle")),
	)

	sections := []string{header, "", m.viewForm()}

	search := m.searchInput.View()
	sections = append(sections, paneStyle.Render(search))

	sections = append(sections, helpStyle.Render(totalLine(v)), m.viewTable(v))

	if m.toast != nil {
		t := toastStyleFor(m.toast.kind).Render(m.toast.kind.Title() + ": " + m.toast.msg)
		sections = append(sections, "", t)
	}

	var help string
	switch m.state {
	case formView:
		help = i18n.T("tui.help_form")
	case searchView:
		help = i18n.T("tui.help_search")
	default:
		help = i18n.T("tui.help_list")
	}
	width := m.width - 4
	if width < 0 {
		width = 0
	}
	footer := footerStyle.Render(alignFooter(help, i18n.T("tui.footer"), width-2))
	sections = append(sections, "", footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m mainModel) viewTable(v view.Model) string {
	switch v.State {
	case view.StateEmpty:
		return paneStyle.Render(helpStyle.Render(i18n.T("tui.empty")))
	case view.StateNoMatches:
		return paneStyle.Render(helpStyle.Render(i18n.T("tui.no_matches")))
	}

	var b strings.Builder
	b.WriteString(headerCellStyle.Render(row(
		i18n.T("tui.col_hwid"), i18n.T("tui.col_player"),
		i18n.T("tui.col_added"), i18n.T("tui.col_seen"),
	)))
	for i, e := range v.Rows {
		b.WriteString("\n")
		line := row(e.HWID, e.PlayerName, e.DateAdded, e.LastSeen)
		if m.state == listView && m.cursor == i {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
	}
	return paneStyle.Render(b.String())
}

// totalLine counts the list, or the matching rows while a search is active.
func totalLine(v view.Model) string {
	if v.Filtered() {
		return i18n.T("tui.filtered", len(v.Rows), v.Total, v.SearchTerm)
	}
	return i18n.T("tui.total", v.Total)
}

// row lays out the four table columns.
func row(hwid, player, added, seen string) string {
	return fmt.Sprintf("%s %s %s %s",
		cell(hwid, colHWIDWidth), cell(player, colPlayerWidth),
		cell(added, colDateWidth), cell(seen, colDateWidth))
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}
