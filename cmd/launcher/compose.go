package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/launcher"
	"jasper-launcher/internal/domain/model"
)

func newComposeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "compose COMMAND",
		Short:     "Run one orchestration command (up, down, restart, pull, pause, unpause)",
		Long:      "Run one orchestration command against the stack and stream its output to stderr.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "restart", "pull", "pause", "unpause"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			l, err := launcher.NewLauncher(ctxOrBackground(cmd), cfg)
			if err != nil {
				return err
			}
			defer l.Close()

			sub := l.Hub().Subscribe(model.EventStreamLogs)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for event := range sub.Events() {
					if line, ok := event.Data.(model.LogLine); ok {
						fmt.Fprintln(cmd.ErrOrStderr(), line.Line)
					}
				}
			}()

			err = l.Controller().Execute(ctxOrBackground(cmd), strings.ToLower(args[0]))
			sub.Close()
			<-done
			if err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(l.Controller().State().String())
		},
	}
}

func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
