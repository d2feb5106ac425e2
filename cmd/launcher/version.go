package main

import (
	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the launcher version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutputFormatter(cmd)
			if out.Structured() {
				return out.Print(map[string]any{
					"version": version.GetVersion(),
					"numeric": version.GetNumericVersion(),
				})
			}
			return out.Print(version.GetVersion())
		},
	}
}
