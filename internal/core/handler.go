// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// package core contains the command handlers that sit between the user
// interfaces and the registry, plus backup, restore and migration of the
// HWID list. Handlers never return validation failures to the host; they
// turn them into notifications.
package core

import (
	"context"
	"errors"
	"strings"

	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/logging"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/registry"
	"github.com/toeirei/hwidmanager/internal/view"
)

// AddInput holds the two form fields of the add command. A successful add
// clears both.
type AddInput struct {
	HWID       string
	PlayerName string
}

// Handler runs the user commands against one Store.
type Handler struct {
	store     *registry.Store
	notifier  Notifier
	clipboard Clipboard
	search    string
}

// NewHandler wires a Handler. A nil clipboard means the system clipboard.
func NewHandler(store *registry.Store, notifier Notifier, cb Clipboard) *Handler {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Kind, string) {})
	}
	return &Handler{store: store, notifier: notifier, clipboard: cb}
}

// Store returns the registry the handler operates on.
func (h *Handler) Store() *registry.Store { return h.store }

// Add registers the HWID in the form. On success the form is cleared and the
// new entry is returned with ok set.
func (h *Handler) Add(ctx context.Context, in *AddInput) (e model.Entry, ok bool) {
	hwid := strings.TrimSpace(in.HWID)
	player := strings.TrimSpace(in.PlayerName)

	e, err := h.store.Add(ctx, hwid, player)
	if err != nil {
		h.notifyError(err)
		return model.Entry{}, false
	}
	in.HWID = ""
	in.PlayerName = ""
	h.notifier.Notify(KindSuccess, i18n.T("notify.added"))
	return e, true
}

// Remove deletes the entry with the given id. Removing an unknown id is not
// an error; only a failed save reports ok == false.
func (h *Handler) Remove(ctx context.Context, id string) (ok bool) {
	if _, err := h.store.Remove(ctx, id); err != nil {
		h.notifyError(err)
		return false
	}
	h.notifier.Notify(KindInfo, i18n.T("notify.removed"))
	return true
}

// Copy puts hwid on the clipboard. Clipboard access is best effort: the
// success notification is emitted either way and failures are only logged.
func (h *Handler) Copy(hwid string) {
	if err := h.clipboard.WriteAll(hwid); err != nil {
		logging.Warnf("clipboard write failed: %v", err)
	}
	h.notifier.Notify(KindSuccess, i18n.T("notify.copied"))
}

// Search sets the live search term.
func (h *Handler) Search(term string) { h.search = term }

// SearchTerm returns the live search term.
func (h *Handler) SearchTerm() string { return h.search }

// Clear removes every entry.
func (h *Handler) Clear(ctx context.Context) (ok bool) {
	if err := h.store.Clear(ctx); err != nil {
		h.notifyError(err)
		return false
	}
	h.notifier.Notify(KindInfo, i18n.T("notify.cleared"))
	return true
}

// View projects the current list through the live search term.
func (h *Handler) View() view.Model {
	return view.Render(h.store.Entries(), h.search)
}

// ReportLoadError turns an error from Store.Load into a notification. It
// returns false when err is fatal, i.e. anything except a corrupt slot.
func (h *Handler) ReportLoadError(err error) bool {
	if err == nil {
		return true
	}
	var cerr *registry.CorruptSlotError
	if errors.As(err, &cerr) {
		h.notifier.Notify(KindError, i18n.T("notify.error_corrupt", cerr.QuarantineKey))
		return true
	}
	h.notifier.Notify(KindError, err.Error())
	return false
}

func (h *Handler) notifyError(err error) {
	switch {
	case errors.Is(err, registry.ErrEmptyHWID):
		h.notifier.Notify(KindError, i18n.T("notify.error_empty_hwid"))
	case errors.Is(err, registry.ErrDuplicateHWID):
		h.notifier.Notify(KindError, i18n.T("notify.error_duplicate_hwid"))
	default:
		logging.Errorf("hwid list: %v", err)
		h.notifier.Notify(KindError, i18n.T("notify.error_persist", err))
	}
}
