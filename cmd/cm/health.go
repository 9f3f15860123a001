package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check that the graph is reachable",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		status, err := graphClient.Health(ctx)
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}
		elapsed := time.Since(start)

		target := "local store (" + cfg.Storage.Backend + ")"
		if remoteURL != "" {
			target = remoteURL
		}

		if jsonOutput {
			printJSON(map[string]any{"status": status, "target": target, "latencyMs": elapsed.Milliseconds()})
		} else {
			line := ui.RenderAccent(status)
			if status != "ok" {
				line = ui.RenderWarn(status)
			}
			fmt.Printf("%s %s %s\n", line, target, ui.RenderMuted(elapsed.Round(time.Millisecond).String()))
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().Duration("timeout", 5*time.Second, "give up after this long")
}
