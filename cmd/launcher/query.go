package main

import (
	"github.com/spf13/cobra"

	"jasper-launcher/internal/application/launcher"
	"jasper-launcher/internal/application/query/get_history"
	"jasper-launcher/internal/application/query/get_image_tags"
	"jasper-launcher/internal/application/query/get_stack_status"
	"jasper-launcher/pkg/cqrs"
)

// runQuery builds a launcher, dispatches q on its query bus and prints the result.
func runQuery(cmd *cobra.Command, q cqrs.Query) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := launcher.NewLauncher(ctxOrBackground(cmd), cfg)
	if err != nil {
		return err
	}
	defer l.Close()

	result, err := l.QueryBus().Dispatch(ctxOrBackground(cmd), q)
	if err != nil {
		return err
	}
	return newOutputFormatter(cmd).Print(result)
}

func newTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List selectable image tags for each service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, get_image_tags.GetImageTagsQuery{})
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the containers of the compose project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, get_stack_status.GetStackStatusQuery{})
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent orchestration commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, get_history.GetHistoryQuery{Limit: limit})
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")
	return historyCmd
}
