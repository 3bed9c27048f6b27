// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/hwidmanager/internal/core"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/view"
)

// resolve finds an entry by id, falling back to its HWID.
func (a *app) resolve(ref string) (model.Entry, error) {
	if e, ok := a.store.Get(ref); ok {
		return e, nil
	}
	if e, ok := a.store.FindByHWID(ref); ok {
		return e, nil
	}
	return model.Entry{}, errors.New(i18n.T("cli.not_found", ref))
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <hwid> [player]",
		Short: "Add a HWID to the list",
		Long: `Adds a hardware identifier to the top of the list. The player name is
optional; entries without one are recorded under the unknown player name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, n := a.handler(cmd)
			in := &core.AddInput{HWID: args[0]}
			if len(args) > 1 {
				in.PlayerName = args[1]
			}
			e, ok := h.Add(cmd.Context(), in)
			if !ok {
				return n.err()
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.added", e.HWID, e.PlayerName, e.ID))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|hwid>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove an entry by id or HWID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			h, n := a.handler(cmd)
			if !h.Remove(cmd.Context(), e.ID) {
				return n.err()
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the HWIDs, optionally filtered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, _ := a.handler(cmd)
			h.Search(search)
			v := h.View()

			out := cmd.OutOrStdout()
			if asJSON {
				rows := v.Rows
				if rows == nil {
					rows = []model.Entry{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			switch v.State {
			case view.StateEmpty:
				fmt.Fprintln(out, i18n.T("tui.empty"))
			case view.StateNoMatches:
				fmt.Fprintln(out, i18n.T("tui.no_matches"))
			default:
				fmt.Fprintln(out, renderTable(v.Rows))
			}
			if v.Filtered() {
				fmt.Fprintln(out, i18n.T("tui.filtered", len(v.Rows), v.Total, v.SearchTerm))
			} else {
				fmt.Fprintln(out, i18n.T("tui.total", v.Total))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show entries whose HWID or player name contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the entries as JSON")
	return cmd
}

// renderTable lays out entries for a terminal.
func renderTable(rows []model.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", i18n.T("tui.col_hwid"), i18n.T("tui.col_player"), i18n.T("tui.col_added"), i18n.T("tui.col_seen"))
	for _, e := range rows {
		t.Row(e.ID, e.HWID, e.PlayerName, e.DateAdded, e.LastSeen)
	}
	return t.String()
}

func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id|hwid>",
		Short: "Copy a HWID to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			h, _ := a.handler(cmd)
			h.Copy(e.HWID)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && a.store.Len() > 0 {
				return errors.New(i18n.T("cli.clear_confirm", a.store.Len()))
			}
			h, n := a.handler(cmd)
			if !h.Clear(cmd.Context()) {
				return n.err()
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
