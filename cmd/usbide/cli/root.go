// Package cli implements the usbide command-line interface using Cobra.
// It drives the portable assistant integration: sign-in, authentication
// checks, one-shot exec turns, and workspace-local installs.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/usbide/usbide/internal/codex"
	"github.com/usbide/usbide/internal/config"
	"github.com/usbide/usbide/internal/log"
	"github.com/usbide/usbide/internal/proc"
	"github.com/usbide/usbide/internal/workspace"
)

var (
	rootFlag string
	verbose  bool
)

var (
	ws       workspace.Root
	settings config.Settings
	client   *codex.Client
)

var rootCmd = &cobra.Command{
	Use:   "usbide",
	Short: "Portable assistant workstation",
	Long: `usbide runs the codex assistant from a portable workspace.

All state (assistant home, caches, temp files, the managed CLI install)
stays under the workspace root, so the host machine is left untouched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveRoot()
		if err != nil {
			return err
		}
		ws = workspace.New(dir)
		if err := ws.EnsureDirs(); err != nil {
			return fmt.Errorf("preparing workspace %s: %w", dir, err)
		}

		if err := log.Init(log.Options{
			Verbose:       verbose,
			Interactive:   isatty.IsTerminal(os.Stdout.Fd()),
			Dir:           ws.LogDir(),
			RetentionDays: 7,
		}); err != nil {
			cmd.PrintErrf("Warning: failed to initialize logging: %v\n", err)
		}

		settings = config.Load(ws)
		client = codex.NewClient(ws, settings, proc.NewRunner())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Close()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveRoot picks the workspace root: --root flag, then USBIDE_ROOT, then
// the directory holding the executable (the usual case on a stick).
func resolveRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}
	if env := os.Getenv("USBIDE_ROOT"); env != "" {
		return filepath.Abs(env)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating workspace root: %w", err)
	}
	return filepath.Dir(exe), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "workspace root directory (default: executable's directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
