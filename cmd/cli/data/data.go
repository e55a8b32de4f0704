// Package data holds the CLI commands for history, stats, export, import and wipe.
package data

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/dosasset/cmd/cli/app"
	"github.com/crucial707/dosasset/cmd/cli/output"
	"github.com/crucial707/dosasset/internal/command"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/metrics"
)

func InitData(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		historyCmd(),
		statsCmd(),
		exportCmd(),
		importCmd(),
		wipeCmd(),
	)
}

// ==========================
// HISTORY
// ==========================
func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent activity, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			entries := a.Inv.Recent(limit)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history.")
				return nil
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.Timestamp, e.Actor, e.Action, e.Details})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Time", "Actor", "Action", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", inventory.RecentLimit, "entries to show (0 for all)")

	return cmd
}

// ==========================
// STATS
// ==========================
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count assets by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			s := a.Inv.Stats()
			output.RenderTable(cmd.OutOrStdout(),
				[]string{"Total", "Active", "Repair", "Retired", "Lost"},
				[][]interface{}{{s.Total, s.Active, s.Repair, s.Retired, s.Lost}})
			return nil
		},
	}
}

// ==========================
// EXPORT
// ==========================
func exportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:       "export [csv|json]",
		Short:     "Write assets.csv or assets.json",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{export.FormatCSV, export.FormatJSON},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			format := export.FormatJSON
			if len(args) == 1 {
				format = args[0]
			}
			dl := a.Downloader
			if dir != "" {
				dl = export.DirDownloader{Dir: dir}
			}
			if err := command.Download(dl, format, a.Inv.Assets()); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			metrics.IncExport(format, "cli")
			output.SuccessColor.Fprintln(cmd.OutOrStdout(), "Export complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: EXPORT_DIR)")

	return cmd
}

// ==========================
// IMPORT
// ==========================
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.json]",
		Short: "Replace all assets with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			res := export.ReadFile(cmd.Context(), args[0])
			if res.Err != nil {
				return res.Err
			}
			assets, err := export.ParseJSON(res.Text)
			if err != nil {
				return err
			}
			if err := a.Inv.Import(a.Actor(cmd.Context()), assets); err != nil {
				return err
			}
			output.SuccessColor.Fprintf(cmd.OutOrStdout(), "Import complete (%d assets)\n", len(assets))
			return nil
		},
	}
}

// ==========================
// WIPE
// ==========================
func wipeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all assets and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if !yes && !Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), command.WipePrompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := a.Inv.Wipe(a.Actor(cmd.Context())); err != nil {
				return err
			}
			output.WarnColor.Fprintln(cmd.OutOrStdout(), "Data wiped.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// Confirm asks question on w and reads a yes/no answer from r. Anything but y or yes declines.
func Confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

