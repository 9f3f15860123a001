package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/ui"
	"github.com/spf13/cobra"
)

var connCmd = &cobra.Command{
	Use:     "conn",
	Short:   "Add, list and delete connections between nodes",
	GroupID: "graph",
}

var connAddCmd = &cobra.Command{
	Use:   "add <from> <to>",
	Short: "Connect two nodes (build mode requires an explanation and existing endpoints)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := model.ConnectionInput{From: args[0], To: args[1]}
		in.ID, _ = cmd.Flags().GetString("id")
		in.Explanation, _ = cmd.Flags().GetString("explanation")
		if cmd.Flags().Changed("strength") {
			v, _ := cmd.Flags().GetInt("strength")
			in.Strength = &v
		}

		c, err := graphClient.AddConnection(context.Background(), in)
		if err != nil {
			return fmt.Errorf("adding connection: %w", err)
		}
		if jsonOutput {
			printJSON(c)
		} else {
			fmt.Printf("Connected %s -> %s (%s) %s\n", c.From, c.To, c.ID, renderStrengthLabel(c.Strength))
		}
		return nil
	},
}

var connListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		resolved, _ := cmd.Flags().GetBool("resolved")
		conns, err := graphClient.ListConnections(ctx, resolved)
		if err != nil {
			return fmt.Errorf("listing connections: %w", err)
		}
		if jsonOutput {
			printJSON(conns)
			return nil
		}
		nodes, err := graphClient.ListNodes(ctx, client.ViewAll)
		if err != nil {
			return fmt.Errorf("listing nodes: %w", err)
		}
		printConnectionListTable(conns, newTitleLookup(nodes))
		return nil
	},
}

var connDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := graphClient.DeleteConnection(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting connection: %w", err)
		}
		if jsonOutput {
			printJSON(model.OK())
		} else {
			fmt.Printf("Deleted %s\n", args[0])
		}
		return nil
	},
}

func renderStrengthLabel(strength int) string {
	return fmt.Sprintf("%s %d/%d", ui.RenderStrength(strength), strength, model.MaxStrength)
}

func init() {
	connAddCmd.Flags().String("id", "", "connection ID (generated when empty)")
	connAddCmd.Flags().StringP("explanation", "e", "", "why the two concepts are related")
	connAddCmd.Flags().IntP("strength", "s", model.DefaultStrength, "strength from 1 to 5 (clamped)")

	connListCmd.Flags().Bool("resolved", false, "only connections whose endpoints both exist")

	connCmd.AddCommand(connAddCmd)
	connCmd.AddCommand(connListCmd)
	connCmd.AddCommand(connDeleteCmd)
}
