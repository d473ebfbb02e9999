// Command toolspend runs the tool spend import pipeline from the shell:
// validate a CSV, import a file or Google Sheet, or export the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ToolSpend/internal/config"
	"github.com/JonMunkholm/ToolSpend/internal/core"
	"github.com/JonMunkholm/ToolSpend/internal/database"
	"github.com/JonMunkholm/ToolSpend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app is the state shared by subcommands, filled in by the root's
// PersistentPreRunE.
type app struct {
	cfg     *config.Config
	verbose bool
	persist bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "toolspend",
		Short: "Import and check tool subscription spreadsheets",
		Long: `toolspend runs the same import pipeline as the server.

Settings come from the environment (and a .env file when present); see
the server's configuration for the full list. Imports are kept in memory
unless --db is given, in which case DATABASE_URL is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(".env"); err != nil {
				slog.Warn("ignoring .env file", "error", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if a.verbose {
				level = "debug"
			}
			logging.SetupWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.persist, "db", false, "Store imports in the configured database")

	root.AddCommand(
		newValidateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newResetCmd(a),
	)
	return root
}

// loadEnvFile loads path without overriding variables already set in the
// shell. A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// service builds a core.Service over the selected store. The returned func
// releases it.
func (a *app) service(ctx context.Context) (*core.Service, func(), error) {
	var (
		store core.Store = core.NewMemoryStore(a.cfg.Database.HistoryLimit)
		release          = func() {}
	)
	if a.persist {
		if !a.cfg.Database.Enabled() {
			return nil, nil, fmt.Errorf("--db requires DATABASE_URL")
		}
		s, c, err := database.Open(ctx, a.cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, release = s, c
	}

	sc, err := a.cfg.ServiceConfig()
	if err != nil {
		release()
		return nil, nil, err
	}
	svc, err := core.NewService(ctx, store, core.NewHTTPSheetFetcher(a.cfg.Sheets.FetchTimeout), sc)
	if err != nil {
		release()
		return nil, nil, err
	}
	return svc, release, nil
}

// runImport imports a local file or, for an http(s) source, a Google Sheet.
func runImport(ctx context.Context, svc *core.Service, source string) (*core.ImportResult, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return svc.ImportSheet(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return svc.ImportFile(ctx, source, size, f)
}

// printMessages writes row errors and warnings, one per line.
func printMessages(w io.Writer, r *core.ImportResult) {
	for _, e := range r.Parse.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, e := range r.Validation.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, wn := range r.Parse.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", wn)
	}
}

// userError turns a pipeline error into the message shown to the user.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	msg := core.MapError(err)
	slog.Debug("command failed", "error", err, "code", msg.Code)
	return fmt.Errorf("%s", core.FormatUserError(err))
}
