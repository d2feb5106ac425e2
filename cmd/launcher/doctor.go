package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jasper-launcher/pkg/capabilities"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that docker and the compose plugin are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reports := capabilities.NewCapabilityFactory(cfg.DockerBinary).Probe(ctxOrBackground(cmd))

			out := newOutputFormatter(cmd)
			if out.Structured() {
				if err := out.Print(reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					status := "ok"
					if !r.Available {
						status = "missing"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-8s %s\n", r.Name, status, r.Version)
				}
			}
			if missing := capabilities.Missing(reports); len(missing) > 0 {
				return fmt.Errorf("missing prerequisites: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
