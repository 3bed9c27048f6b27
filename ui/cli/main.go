// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared services every subcommand
// runs against, and the build version reporting.

package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/hwidmanager/buildvars"
	"github.com/toeirei/hwidmanager/internal/config"
	"github.com/toeirei/hwidmanager/internal/core"
	"github.com/toeirei/hwidmanager/internal/db"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/logging"
	"github.com/toeirei/hwidmanager/internal/registry"
	"github.com/toeirei/hwidmanager/internal/slot"
	"github.com/toeirei/hwidmanager/internal/tui"
)

var version = buildvars.VersionOrDefault("dev") // overridden through buildvars at link time
var gitCommit = "dev"                           // set at build time with the short commit SHA
var buildDate = ""                              // set at build time (RFC3339)

// app holds the services shared by the commands of one root command.
type app struct {
	cfg     config.Config
	slot    slot.Slot
	store   *registry.Store
	loadErr error // corrupt-slot report from the initial load, if any
	verbose bool
}

func (a *app) setupDefaultServices(cmd *cobra.Command, _ []string) error {
	explicitPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	a.cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), explicitPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := checkLanguage(a.cfg.Language); err != nil {
		return err
	}
	if explicitPath == nil && !configFileExists() {
		if writeErr := config.WriteConfigFile(&a.cfg, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	}

	i18n.Init(a.cfg.Language)
	logging.Init(a.cfg.Log.Level, cmd.ErrOrStderr())
	if a.verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}
	logging.Debugf("i18n: active locale %s", i18n.GetLang())

	a.slot, err = slot.Open(cmd.Context(), a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("could not open %s storage: %w", a.cfg.Storage.Type, err)
	}
	a.store = registry.New(a.slot,
		registry.WithKey(a.cfg.Storage.Key),
		registry.WithUnknownPlayer(i18n.T("player.unknown")),
		registry.WithTimestampFormat(i18n.FormatTimestamp),
	)

	a.loadErr = a.store.Load(cmd.Context())
	if a.loadErr != nil && !errors.Is(a.loadErr, registry.ErrCorruptSlot) {
		return a.loadErr
	}
	return nil
}

func (a *app) close(*cobra.Command, []string) error {
	if a.slot == nil {
		return nil
	}
	err := a.slot.Close()
	a.slot = nil
	return err
}

// configFileExists reports whether a user config file is already present.
// languageChoices returns the tags of the embedded locales in sorted order.
func languageChoices() []string {
	return slices.Sorted(maps.Keys(i18n.GetAvailableLocales()))
}

// checkLanguage accepts an empty tag or one whose base language has an
// embedded locale, so "pl-PL" passes and "de" does not.
func checkLanguage(tag string) error {
	base := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return nil
	}
	if _, ok := i18n.GetAvailableLocales()[base]; !ok {
		return fmt.Errorf("unsupported language %q (available: %s)", tag, quoteAll(languageChoices()))
	}
	return nil
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func configFileExists() bool {
	path, err := config.GetConfigPath(false)
	if err != nil {
		return true
	}
	_, err = os.Stat(path)
	return err == nil
}

// handler returns a command handler whose notifications go to the command's
// error stream. Any pending corrupt-slot report is emitted first.
func (a *app) handler(cmd *cobra.Command) (*core.Handler, *cliNotifier) {
	n := &cliNotifier{out: cmd.ErrOrStderr()}
	h := core.NewHandler(a.store, n, nil)
	h.ReportLoadError(a.loadErr)
	if n.lastErr != "" {
		logging.Warnf("%s", n.lastErr)
		n.lastErr = ""
	}
	return h, n
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. It is used
// for the application itself as well as fresh instances in tests.
func NewRootCmd() *cobra.Command {
	a := &app{}
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "hwidmanager",
		Short: i18n.T("cli.short"),
		Long: `HWID Manager keeps the list of hardware identifiers collected by the
Minecraft mod: who they belong to, when they were added, and when they were
last seen. The list lives in a single storage slot (a JSON file by default,
or a SQL database or S3 bucket).

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setupDefaultServices,
		PersistentPostRunE: a.close,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeLog, err := tuiLogWriter(a.cfg.Log.File)
			if err != nil {
				return err
			}
			defer closeLog()
			logging.Init(a.cfg.Log.Level, w)
			if a.verbose {
				logging.SetDebug(true)
			}
			return tui.Run(cmd.Context(), a.store, a.loadErr)
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output (debug logs, including storage)")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("language", d["language"].(string), "Interface language ("+quoteAll(languageChoices())+")")
	cmd.PersistentFlags().String("storage.type", d["storage.type"].(string), "Storage backend: file, memory, sqlite, postgres, mysql, s3")
	cmd.PersistentFlags().String("storage.path", d["storage.path"].(string), "Directory of the file backend")
	cmd.PersistentFlags().String("storage.dsn", d["storage.dsn"].(string), "Connection string of the SQL backends")
	cmd.PersistentFlags().String("storage.key", d["storage.key"].(string), "Slot key the HWID list is stored under")
	cmd.PersistentFlags().String("log.level", d["log.level"].(string), "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newCopyCmd(a),
		newClearCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// tuiLogWriter picks the log destination while the TUI owns the terminal.
func tuiLogWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// Skip storage setup.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\ncommit: %s\n", v, c)
			if d != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", d)
			}
		},
	}
}

// compositeVersion renders version, commit and build date on one line.
func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record our version among the dependencies.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/hwidmanager" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
