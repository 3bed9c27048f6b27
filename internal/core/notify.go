// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "github.com/toeirei/hwidmanager/internal/i18n"

// Kind classifies a user-facing notification.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Title returns the localized heading shown with a notification of this kind.
func (k Kind) Title() string {
	switch k {
	case KindSuccess:
		return i18n.T("notify.title_success")
	case KindError:
		return i18n.T("notify.title_error")
	default:
		return i18n.T("notify.title_info")
	}
}

// Notifier receives the notifications emitted by command handlers. How they
// are shown (toast, status line, stderr) is up to the host.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(kind Kind, message string)

func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }
