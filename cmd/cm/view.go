package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/spf13/cobra"
)

// View state (mode, selection, filters, expanded groups) is not persisted.
// Against a local store it lasts for one invocation; point --url at a
// running server to change it for every client.

var modeCmd = &cobra.Command{
	Use:       "mode [explore|build]",
	Short:     "Show or switch between explore mode and build mode",
	GroupID:   "views",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(model.ModeExplore), string(model.ModeBuild)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var (
			status *client.ModeStatus
			err    error
		)
		if len(args) == 0 {
			status, err = graphClient.Mode(ctx)
		} else {
			status, err = graphClient.SetMode(ctx, model.Mode(args[0]))
		}
		if err != nil {
			return fmt.Errorf("mode: %w", err)
		}
		if jsonOutput {
			printJSON(status)
		} else {
			printModeStatus(status)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:     "select <id>",
	Short:   "Select a node",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := graphClient.SelectNode(context.Background(), args[0]); err != nil {
			return fmt.Errorf("selecting node: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]string{"selectedNodeId": args[0]})
		} else {
			fmt.Printf("Selected %s\n", args[0])
		}
		return nil
	},
}

var deselectCmd = &cobra.Command{
	Use:     "deselect",
	Short:   "Clear the selection",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := graphClient.DeselectNode(context.Background()); err != nil {
			return fmt.Errorf("deselecting: %w", err)
		}
		if jsonOutput {
			printJSON(model.OK())
		} else {
			fmt.Println("Selection cleared")
		}
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:     "filter",
	Short:   "Show, set or clear node filters",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := graphClient.Filters(context.Background())
		if err != nil {
			return fmt.Errorf("getting filters: %w", err)
		}
		showFilters(f)
		return nil
	},
}

var filterSetCmd = &cobra.Command{
	Use:       "set <layer|domain|intent> <value>",
	Short:     "Set one filter dimension (an empty value clears it)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(model.FilterLayer), string(model.FilterDomain), string(model.FilterIntent)},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := graphClient.SetFilter(context.Background(), model.FilterKey(args[0]), args[1])
		if err != nil {
			return fmt.Errorf("setting filter: %w", err)
		}
		showFilters(f)
		return nil
	},
}

var filterClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear every filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := graphClient.ClearFilters(context.Background())
		if err != nil {
			return fmt.Errorf("clearing filters: %w", err)
		}
		showFilters(f)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <group-id>",
	Short:   "Expand or collapse a domain subgroup",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expanded, err := graphClient.ToggleGroup(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("toggling group: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]any{"groupId": args[0], "expanded": expanded})
			return nil
		}
		state := "collapsed"
		if expanded {
			state = "expanded"
		}
		fmt.Printf("%s %s\n", args[0], state)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Replace the graph with the default taxonomy",
	GroupID: "graph",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("reset discards every node and connection; rerun with --yes")
		}
		ctx := context.Background()
		if err := graphClient.Reset(ctx); err != nil {
			return fmt.Errorf("resetting graph: %w", err)
		}
		st, err := graphClient.State(ctx)
		if err != nil {
			return fmt.Errorf("getting state: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]int{"nodes": len(st.Nodes), "connections": len(st.Connections)})
		} else {
			fmt.Printf("Reset to %d nodes and %d connections\n", len(st.Nodes), len(st.Connections))
		}
		return nil
	},
}

func showFilters(f model.Filters) {
	if jsonOutput {
		printJSON(f)
	} else {
		printFilters(f)
	}
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "confirm the reset")

	filterCmd.AddCommand(filterSetCmd)
	filterCmd.AddCommand(filterClearCmd)
}
