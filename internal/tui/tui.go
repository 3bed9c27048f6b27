// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for the HWID manager.
// This file, tui.go, holds the top-level model and the program entry point.
package tui // import "github.com/toeirei/hwidmanager/internal/tui"

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/hwidmanager/internal/core"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/registry"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 3 * time.Second

// viewState represents which part of the UI has the keyboard.
type viewState int

const (
	listView viewState = iota
	formView
	searchView
	confirmView
)

// toast is a transient notification.
type toast struct {
	kind core.Kind
	msg  string
	seq  int
}

// toastExpiredMsg hides the toast with the matching sequence number.
type toastExpiredMsg struct{ seq int }

// inbox collects notifications emitted by the handler during one update.
type inbox struct{ pending []toast }

func (b *inbox) Notify(kind core.Kind, msg string) {
	b.pending = append(b.pending, toast{kind: kind, msg: msg})
}

// mainModel is the single screen of the TUI: the add form, the search box
// and the HWID table, plus the delete confirmation dialog.
type mainModel struct {
	ctx     context.Context
	handler *core.Handler
	inbox   *inbox

	state       viewState
	hwidInput   textinput.Model
	playerInput textinput.Model
	searchInput textinput.Model
	focusIndex  int // 0 hwid, 1 player

	cursor        int
	pending       model.Entry // entry awaiting delete confirmation
	confirmCursor int         // 0 for No, 1 for Yes

	toast    *toast
	toastSeq int
	initCmd  tea.Cmd

	width, height int
}

func newMainModel(ctx context.Context, store *registry.Store, cb core.Clipboard) mainModel {
	box := &inbox{}
	return mainModel{
		ctx:         ctx,
		handler:     core.NewHandler(store, box, cb),
		inbox:       box,
		hwidInput:   newInput(i18n.T("tui.hwid_placeholder")),
		playerInput: newInput(i18n.T("tui.player_placeholder")),
		searchInput: newInput(i18n.T("tui.search_placeholder")),
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.Prompt = "> "
	ti.Cursor.Style = focusedStyle
	return ti
}

// Init initializes the model.
func (m mainModel) Init() tea.Cmd {
	return m.initCmd
}

// Update routes messages to the handler for the active view.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case toastExpiredMsg:
		if m.toast != nil && m.toast.seq == msg.seq {
			m.toast = nil
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case formView:
		m, cmd = m.updateForm(msg)
	case searchView:
		m, cmd = m.updateSearch(msg)
	case confirmView:
		m, cmd = m.updateConfirm(msg)
	default:
		m, cmd = m.updateList(msg)
	}
	m.clampCursor()
	return m, tea.Batch(cmd, m.flush())
}

// flush turns pending notifications into the visible toast. Only the most
// recent one is shown.
func (m *mainModel) flush() tea.Cmd {
	if len(m.inbox.pending) == 0 {
		return nil
	}
	last := m.inbox.pending[len(m.inbox.pending)-1]
	m.inbox.pending = m.inbox.pending[:0]
	m.toastSeq++
	last.seq = m.toastSeq
	m.toast = &last
	seq := last.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m *mainModel) clampCursor() {
	n := len(m.handler.View().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the entry under the cursor, if any.
func (m mainModel) selected() (model.Entry, bool) {
	rows := m.handler.View().Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Entry{}, false
	}
	return rows[m.cursor], true
}

// View renders the active view.
func (m mainModel) View() string {
	if m.state == confirmView {
		return m.viewConfirmation()
	}
	return docStyle.Render(m.viewMain())
}

// Run starts the TUI on the given store. A non-nil loadErr from
// Store.Load is shown as the first notification.
func Run(ctx context.Context, store *registry.Store, loadErr error) error {
	m := newMainModel(ctx, store, core.SystemClipboard{})
	m.handler.ReportLoadError(loadErr)
	m.initCmd = m.flush()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
