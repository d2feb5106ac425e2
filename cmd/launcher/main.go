package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jasper-launcher",
		Short:         "Runs the Jasper compose stack on this machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to launcher config (default: launcher.jsonc in the data directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")
	rootCmd.PersistentFlags().Bool("yaml", false, "Print results as YAML")

	rootCmd.AddCommand(
		newRunCommand(),
		newSettingsCommand(),
		newEnvCommand(),
		newComposeCommand(),
		newTokenCommand(),
		newTagsCommand(),
		newImagesCommand(),
		newStatusCommand(),
		newHistoryCommand(),
		newDoctorCommand(),
		newVersionCommand(),
	)
	return rootCmd
}
