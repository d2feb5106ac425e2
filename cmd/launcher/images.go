package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/launcher"
)

func newImagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Show the image each service would run with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			l, err := launcher.NewLauncher(ctxOrBackground(cmd), cfg)
			if err != nil {
				return err
			}
			defer l.Close()

			images, err := l.Images()
			if err != nil {
				return err
			}
			out := newOutputFormatter(cmd)
			if out.Structured() {
				return out.Print(images)
			}
			services := make([]string, 0, len(images))
			for name := range images {
				services = append(services, name)
			}
			sort.Strings(services)
			for _, name := range services {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, images[name])
			}
			return nil
		},
	}
}
