package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
	"github.com/alfredjeanlab/cinemap/internal/ui"
)

var graphCmd = &cobra.Command{
	Use:     "graph",
	Short:   "Show the graph as a layer and subgroup tree",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if jsonOutput {
			view, err := graphClient.Graph(ctx)
			if err != nil {
				return fmt.Errorf("getting graph: %w", err)
			}
			printJSON(view)
			return nil
		}

		st, err := graphClient.State(ctx)
		if err != nil {
			return fmt.Errorf("getting state: %w", err)
		}
		all, _ := cmd.Flags().GetBool("all")
		extra, _ := cmd.Flags().GetStringSlice("expand")

		expanded := make(map[string]bool)
		for _, id := range st.ExpandedGroups {
			expanded[id] = true
		}
		for _, id := range extra {
			expanded[id] = true
		}
		fmt.Println(renderGraphTree(st, expanded, all))
		return nil
	},
}

// renderGraphTree draws every layer with its top-level nodes. Subgroup
// children appear under their parent when it is expanded (or all is set);
// collapsed parents show a hidden-child count. Nodes outside the current
// filters are muted.
func renderGraphTree(st model.State, expanded map[string]bool, all bool) string {
	children := make(map[string][]model.Node)
	ids := make(map[string]bool, len(st.Nodes))
	for _, n := range st.Nodes {
		ids[n.ID] = true
	}
	for _, n := range st.Nodes {
		if n.Subgroup != "" && ids[n.Subgroup] {
			children[n.Subgroup] = append(children[n.Subgroup], n)
		}
	}

	label := func(n model.Node) string {
		s := ui.RenderNode(n)
		if !st.Filters.Matches(n) {
			s = ui.RenderMuted(n.Title)
		}
		if n.ID == st.SelectedNodeID {
			s += " " + ui.RenderAccent("*")
		}
		return s + " " + ui.RenderMuted(n.ID)
	}

	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	for _, info := range taxonomy.Layers() {
		var top []model.Node
		for _, n := range st.Nodes {
			if n.Layer == info.Layer && (n.Subgroup == "" || !ids[n.Subgroup]) {
				top = append(top, n)
			}
		}
		lw.AppendItem(ui.RenderStyle(info.Style, info.Label) + ui.RenderMuted(fmt.Sprintf(" (%d)", len(top))))
		lw.Indent()
		for _, n := range top {
			kids := children[n.ID]
			open := all || expanded[n.ID]
			item := label(n)
			if len(kids) > 0 && !open {
				item += ui.RenderMuted(fmt.Sprintf(" [+%d]", len(kids)))
			}
			lw.AppendItem(item)
			if len(kids) > 0 && open {
				lw.Indent()
				for _, k := range kids {
					lw.AppendItem(label(k))
				}
				lw.UnIndent()
			}
		}
		lw.UnIndent()
	}

	return fmt.Sprintf("%s\n\n%d nodes, %d connections, %s mode",
		lw.Render(), len(st.Nodes), len(st.Connections), st.Mode)
}

func init() {
	graphCmd.Flags().StringSlice("expand", nil, "extra subgroup IDs to show expanded")
	graphCmd.Flags().Bool("all", false, "expand every subgroup")
}
