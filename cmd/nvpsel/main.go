package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/nvpsel/pkg/nvpmodel"
)

var (
	logLevel     = "info"
	configPath   = "/etc/nvpmodel.conf"
	nvpmodelPath = "nvpmodel"
	plainUI      = false
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func newClient() *nvpmodel.Client {
	return nvpmodel.New(nvpmodelPath)
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nvpsel",
		Short: "nvpsel is an interactive power mode selector for NVIDIA Jetson devices",
		Long: `nvpsel is an interactive power mode selector for NVIDIA Jetson devices.

It reads the available modes from the nvpmodel config file and applies
changes through the nvpmodel utility (via sudo when not run as root).`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "nvpmodel config file path")
	globalFlags.StringVar(&nvpmodelPath, "nvpmodel", nvpmodelPath, "path to the nvpmodel binary")

	cmd.Flags().BoolVar(&plainUI, "plain", false, "force the plain single-keystroke menu")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewListCommand(),
		NewGetCommand(),
		NewSetCommand(),
		NewVersionCommand(),
	)

	return cmd
}
