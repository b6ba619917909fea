package main

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/nvpsel/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: gAdvanced,
		Short:   "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("nvpsel %s (commit %s)\n", version.Version, version.GitCommit)
		},
	}
}
