package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/cmd/cli/app"
	"github.com/crucial707/dosasset/internal/config"
	"github.com/crucial707/dosasset/internal/logging"
)

// NoStore marks commands that run without opening the inventory.
const NoStore = "dosasset/no-store"

// Quiet marks commands whose logs must not reach the terminal.
const Quiet = "dosasset/quiet"

var current *app.App

// RootCmd opens the configured store before every command that needs it.
var RootCmd = &cobra.Command{
	Use:           "dosasset",
	Short:         "DOS-style asset inventory",
	Long:          "Track hardware assets, their owners and status, from the command line, an interactive shell or the HTTP API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var log *zap.Logger
		if cmd.Annotations[Quiet] == "true" && cfg.LogFile == "" {
			log = zap.NewNop()
		} else if log, err = logging.New(cfg.LogFormat, cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}

		if cmd.Annotations[NoStore] == "true" {
			cmd.SetContext(app.NewContext(cmd.Context(), &app.App{Config: cfg, Log: log}))
			return nil
		}

		a, err := app.Open(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		current = a
		cmd.SetContext(app.NewContext(cmd.Context(), a))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			current.Log.Sync()
			return current.Close()
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if current != nil {
			current.Close()
		}
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
