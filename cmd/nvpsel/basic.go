package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/nvpsel/pkg/modes"
)

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		GroupID: gBasic,
		Short:   "List available power modes",
		Long:    `List every power mode defined in the nvpmodel config file. The active mode is marked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := modes.Load(configPath)
			if err != nil {
				return err
			}

			cur := newClient().CurrentMode()
			for _, rec := range table.Records() {
				marker := " "
				if rec.ID == cur {
					marker = color.New(color.Bold, color.FgGreen).Sprint("*")
				}
				cmd.Printf(" %s [%s] %s\n", marker, rec.ID, rec.Name)
			}
			return nil
		},
	}
}

func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get",
		GroupID: gBasic,
		Short:   "Print the current power mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := modes.Load(configPath)
			if err != nil {
				return err
			}

			cur := newClient().CurrentMode()
			if name, ok := table.Name(cur); ok {
				cmd.Printf("%s (%s)\n", cur, name)
			} else {
				cmd.Println(cur)
			}
			return nil
		},
	}
}

func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <mode-id>",
		GroupID: gBasic,
		Short:   "Switch to a power mode without the interactive menu",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := modes.Load(configPath)
			if err != nil {
				return err
			}

			id := args[0]
			name, ok := table.Name(id)
			if !ok {
				return fmt.Errorf("unknown mode id %q (known: %s)", id, strings.Join(table.IDs(), ", "))
			}

			res := newClient().SetMode(id)
			if !res.OK() {
				return fmt.Errorf("failed to switch to mode %s (%s): %v\n%s", id, name, res.Err, res.Output)
			}

			cmd.Printf("switched to mode %s (%s)\n", id, name)
			return nil
		},
	}
}
