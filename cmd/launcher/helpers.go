package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/config"
	"jasper-launcher/pkg/log"
	"jasper-launcher/pkg/yaml"
)

// loadConfig reads the launcher config named by --config, or the default one,
// and initializes logging to stderr at the configured level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	log.InitLog(cfg.LogLevel, os.Stderr)
	return cfg, nil
}

// OutputFormatter prints results as JSON, YAML or a human readable fallback.
type OutputFormatter struct {
	w        io.Writer
	jsonMode bool
	yamlMode bool
}

// newOutputFormatter creates a formatter from the --json and --yaml flags.
func newOutputFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonMode, _ := cmd.Flags().GetBool("json")
	yamlMode, _ := cmd.Flags().GetBool("yaml")
	return &OutputFormatter{w: cmd.OutOrStdout(), jsonMode: jsonMode, yamlMode: yamlMode}
}

// Structured reports whether a machine readable format was requested.
func (f *OutputFormatter) Structured() bool {
	return f.jsonMode || f.yamlMode
}

// Print writes data in the selected format. Without a format flag, strings are
// printed as is and everything else as YAML.
func (f *OutputFormatter) Print(data any) error {
	if s, ok := data.(string); ok && !f.Structured() {
		_, err := fmt.Fprintln(f.w, s)
		return err
	}
	if f.jsonMode {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(f.w, string(out))
		return err
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = f.w.Write(out)
	return err
}
