package main

import (
	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/launcher"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/env"
)

func newEnvCommand() *cobra.Command {
	var (
		reveal bool
		file   string
	)
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Print the environment the next start would pass to docker compose",
		Long: "Print the environment the next start would pass to docker compose.\n" +
			"A fresh session key is issued on every call. Secrets are masked unless --reveal is given.",
		Args: cobra.NoArgs,
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

			vars, err := l.Environment()
			if err != nil {
				return err
			}
			if file != "" {
				return env.Save(file, vars)
			}
			if !reveal {
				vars = vars.Redacted()
			}
			out := newOutputFormatter(cmd)
			if out.Structured() {
				return out.Print(envMap(vars))
			}
			return env.Write(cmd.OutOrStdout(), vars)
		},
	}
	envCmd.Flags().BoolVar(&reveal, "reveal", false, "Print secrets in clear text")
	envCmd.Flags().StringVar(&file, "write", "", "Write the unmasked variables to FILE in .env format")
	return envCmd
}

// envMap keeps variable order for structured output.
func envMap(vars model.Environment) []map[string]string {
	out := make([]map[string]string, 0, len(vars))
	for _, v := range vars {
		out = append(out, map[string]string{"name": v.Name, "value": v.Value})
	}
	return out
}
