// Package shell provides the interactive terminal and one-shot command runner.
package shell

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/crucial707/dosasset/cmd/cli/app"
	"github.com/crucial707/dosasset/cmd/cli/data"
	"github.com/crucial707/dosasset/cmd/cli/root"
	"github.com/crucial707/dosasset/internal/command"
)

func InitShell(rootCmd *cobra.Command) {
	rootCmd.AddCommand(shellCmd(), runCmd())
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "shell",
		Short:       "Open the interactive command terminal",
		Long:        "Open a full-screen terminal that accepts the same commands as `run`.\nUse :import FILE.json to replace the assets from a file.",
		Annotations: map[string]string{root.Quiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			ctx := a.Actor(cmd.Context())
			p := tea.NewProgram(newModel(ctx, a.Inv, a.Downloader, a.Log),
				tea.WithAltScreen(), tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}
}

func runCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run COMMAND [key=value]...",
		Short: "Run one terminal command",
		Long:  "Run a single terminal command line, e.g. `dosasset run list status=active`.\n\n" + strings.Join(command.HelpText, "\n"),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			confirm := func(q string) bool {
				return yes || data.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), q)
			}
			d := command.New(a.Inv, a.Downloader, confirm, a.Log)
			d.Execute(a.Actor(cmd.Context()), quoteArgs(args), func(line string) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to confirmations")
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// quoteArgs re-joins shell arguments into a command line, quoting values the
// shell already split on spaces: notes="spare unit" arrives as notes=spare unit.
func quoteArgs(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if ok && strings.ContainsAny(v, " \t") && !strings.Contains(v, `"`) {
			a = k + `="` + v + `"`
		}
		out[i] = a
	}
	return strings.Join(out, " ")
}
