package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/launcher"
	"jasper-launcher/internal/application/version"
	"jasper-launcher/pkg/log"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the stack and serve the control API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runLauncher,
	}
}

func runLauncher(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The daemon logs to stdout, and to the configured file as well.
	var logOut io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w, f, err := log.OpenLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = w
	}
	log.InitLog(cfg.LogLevel, logOut)
	log.Info("Jasper launcher starting", "version", version.GetVersion(), "log_level", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal shuts down gracefully, the second one exits immediately.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		log.Info("Received signal, initiating graceful shutdown", "signal", sig.String())
		cancel()
		sig = <-sigChan
		log.Warn("Received second signal, exiting now", "signal", sig.String())
		os.Exit(1)
	}()

	l, err := launcher.NewLauncher(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create launcher: %w", err)
	}
	defer l.Close()

	return l.Run(ctx)
}
