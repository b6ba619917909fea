package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/nvpsel/pkg/console"
	"github.com/charlie0129/nvpsel/pkg/modes"
	"github.com/charlie0129/nvpsel/pkg/nvpmodel"
	"github.com/charlie0129/nvpsel/pkg/tui"
)

// richMenuAvailable decides the presentation variant. The rich menu needs a
// real terminal; everything else gets the single-keystroke console.
func richMenuAvailable(plain, stdoutIsTTY bool, termEnv string) bool {
	if plain || !stdoutIsTTY {
		return false
	}
	return termEnv != "" && termEnv != "dumb"
}

func runInteractive(cmd *cobra.Command) error {
	table, err := modes.Load(configPath)
	if err != nil {
		return err
	}
	client := newClient()

	rich := richMenuAvailable(plainUI, term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("TERM"))
	if !rich {
		logrus.Debug("rich menu unavailable, using plain console")
		return console.New(cmd.OutOrStdout(), console.NewTTYKeyReader(), table, client).Run()
	}

	return runMenuLoop(cmd, table, client)
}

// runMenuLoop runs the rich menu once per iteration so the current mode is
// re-queried before every render; it can change out-of-band.
func runMenuLoop(cmd *cobra.Command, table modes.Table, client *nvpmodel.Client) error {
	out := cmd.OutOrStdout()
	keys := console.NewTTYKeyReader()

	for {
		menu := tui.NewMenu(table, client.CurrentMode())
		final, err := tea.NewProgram(menu).Run()
		if err != nil {
			return fmt.Errorf("failed to run menu: %w", err)
		}

		m := final.(tui.Menu)
		if m.Cancelled() {
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		id := m.Choice()
		name, _ := table.Name(id)
		console.ReportChange(out, client.SetMode(id), name)

		if err := console.AwaitAck(out, keys); err != nil {
			return err
		}
	}
}
