package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stillpoint/internal/bootstrap"
	"stillpoint/internal/platform/config"
	"stillpoint/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime holds what every subcommand shares. The app is opened lazily so
// that `init` and `--help` never touch storage.
type runtime struct {
	dataDir string
	verbose bool

	log *logger.Logger
	app *bootstrap.App
}

func (r *runtime) open() (*bootstrap.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	cfg, err := config.New(r.dataDir)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if r.verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	r.log = log
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

func (r *runtime) close() {
	if r.app != nil {
		if err := r.app.Close(); err != nil && r.log != nil {
			r.log.Warn("close app", "error", err)
		}
		r.app = nil
	}
	if r.log != nil {
		r.log.Sync()
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "stillpoint",
		Short:         "Daily practice companion: streaks, cycles, stages and journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			rt.close()
		},
	}
	root.PersistentFlags().StringVar(&rt.dataDir, "data-dir", defaultDataDir(), "directory holding .stillpoint state")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newInitCmd(rt))
	root.AddCommand(newStatusCmd(rt))
	root.AddCommand(newCheckInCmd(rt))
	root.AddCommand(newTrackCmd(rt, "teaching", "21-day teaching cycle"))
	root.AddCommand(newTrackCmd(rt, "curriculum", "365-day curriculum cycle"))
	root.AddCommand(newConceptCmd(rt))
	root.AddCommand(newPracticeCmd(rt))
	root.AddCommand(newPrefsCmd(rt))
	root.AddCommand(newJournalCmd(rt))
	root.AddCommand(newExportCmd(rt))
	root.AddCommand(newWipeCmd(rt))
	root.AddCommand(newTUICmd(rt))
	return root
}

func newInitCmd(rt *runtime) *cobra.Command {
	var backend, timezone string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default(rt.dataDir)
			if _, err := os.Stat(cfg.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.ConfigPath)
			}
			cfg.Backend = strings.ToLower(strings.TrimSpace(backend))
			cfg.Timezone = strings.TrimSpace(timezone)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.ConfigPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend: file|sqlite|memory")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the day boundary (default: local)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func newExportCmd(rt *runtime) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all progress as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			payload, err := app.ProgressCLI.Export(context.Background())
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			if err := os.WriteFile(outPath, payload, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newWipeCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all stored progress and journal entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "This deletes all progress and journal entries. Type 'wipe' to confirm: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(line) != "wipe" {
					return fmt.Errorf("aborted")
				}
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			if err := app.ProgressCLI.Wipe(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all data removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func newTUICmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}
