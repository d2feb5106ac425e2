package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/application"
	"jasper-launcher/internal/application/config"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/infra/settings"
)

func newSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the persisted settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(store.Get())
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the location of settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(store.Path())
		},
	}

	patchCmd := &cobra.Command{
		Use:   "patch NAME VALUE",
		Short: "Update a single field (autoUpdate, showLogsOnStart)",
		Long: "Update a single field. VALUE is parsed as JSON, falling back to a plain string.\n" +
			"Unknown fields and values of the wrong type are ignored.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			if err := store.Patch(args[0], parseValue(args[1])); err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(store.Get())
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save FILE",
		Short: "Replace the whole record with a JSON document (- reads stdin)",
		Long: "Replace the whole record. A running launcher reloads the file and applies it on the next start.\n" +
			"Fields missing from the document keep their default value.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSettings(cmd)
			if err != nil {
				return err
			}
			next, err := readSettings(cmd.InOrStdin(), args[0], filepath.Dir(store.Path()))
			if err != nil {
				return err
			}
			return store.Save(next)
		},
	}

	settingsCmd.AddCommand(showCmd, pathCmd, patchCmd, saveCmd)
	return settingsCmd
}

func openSettings(cmd *cobra.Command) (*settings.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dataPath, err := config.ResolveDataPath(cfg)
	if err != nil {
		return nil, err
	}
	store := application.NewSettingsRepository(dataPath)
	if _, err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// parseValue decodes raw as JSON so true/false arrive as booleans.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func readSettings(stdin io.Reader, path, dataPath string) (model.Settings, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	next := model.DefaultSettings(dataPath)
	if err := json.Unmarshal(data, &next); err != nil {
		return model.Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return next, nil
}
