package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/spf13/cobra"
)

var nodeCmd = &cobra.Command{
	Use:     "node",
	Short:   "Add, inspect and edit concept nodes",
	GroupID: "graph",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a node (build mode rejects nodes flagged unclear)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := nodeInputFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		n, err := graphClient.AddNode(context.Background(), in)
		if err != nil {
			return fmt.Errorf("adding node: %w", err)
		}
		if jsonOutput {
			printJSON(n)
		} else {
			printNode(n)
		}
		return nil
	},
}

var nodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		nodes, err := graphClient.ListNodes(context.Background(), view)
		if err != nil {
			return fmt.Errorf("listing nodes: %w", err)
		}
		if jsonOutput {
			printJSON(nodes)
		} else {
			printNodeListTable(nodes)
		}
		return nil
	},
}

var nodeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a node with its connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		d, err := graphClient.GetNode(ctx, args[0])
		if err != nil {
			return fmt.Errorf("getting node: %w", err)
		}
		if jsonOutput {
			printJSON(d)
			return nil
		}
		nodes, err := graphClient.ListNodes(ctx, client.ViewAll)
		if err != nil {
			return fmt.Errorf("listing nodes: %w", err)
		}
		printNodeDetail(d, newTitleLookup(nodes))
		return nil
	},
}

var nodeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update node fields (the ID never changes)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := nodeUpdateFromFlags(cmd)
		if err != nil {
			return err
		}
		n, err := graphClient.UpdateNode(context.Background(), args[0], u)
		if err != nil {
			return fmt.Errorf("updating node: %w", err)
		}
		if jsonOutput {
			printJSON(n)
		} else {
			printNode(n)
		}
		return nil
	},
}

var nodeNoteCmd = &cobra.Command{
	Use:   "note <id> <text>...",
	Short: "Replace a node's personal note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		if err := graphClient.UpdateNodeNotes(context.Background(), args[0], text); err != nil {
			return fmt.Errorf("updating note: %w", err)
		}
		if jsonOutput {
			printJSON(model.OK())
		} else {
			fmt.Printf("Updated note on %s\n", args[0])
		}
		return nil
	},
}

var nodeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a node and every connection touching it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := graphClient.DeleteNode(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("deleting node: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]any{"id": args[0], "removedConnections": removed})
		} else {
			fmt.Printf("Deleted %s (%d connections removed)\n", args[0], len(removed))
		}
		return nil
	},
}

var nodeConnectionsCmd = &cobra.Command{
	Use:   "connections <id>",
	Short: "List connections touching a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		conns, err := graphClient.ConnectionsForNode(ctx, args[0])
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

// nodeTextFlags are the free-text node fields shared by add and update.
var nodeTextFlags = []struct {
	name  string
	usage string
	input func(*model.NodeInput) *string
	patch func(*model.NodeUpdate, *string)
}{
	{"definition", "what the concept is", func(in *model.NodeInput) *string { return &in.Definition }, func(u *model.NodeUpdate, v *string) { u.Definition = v }},
	{"problem", "the problem it solves", func(in *model.NodeInput) *string { return &in.ProblemSolved }, func(u *model.NodeUpdate, v *string) { u.ProblemSolved = v }},
	{"misuse", "what goes wrong when it is misused", func(in *model.NodeInput) *string { return &in.MisuseConsequence }, func(u *model.NodeUpdate, v *string) { u.MisuseConsequence = v }},
	{"example", "a film example", func(in *model.NodeInput) *string { return &in.Example }, func(u *model.NodeUpdate, v *string) { u.Example = v }},
	{"note", "personal note", func(in *model.NodeInput) *string { return &in.PersonalNote }, func(u *model.NodeUpdate, v *string) { u.PersonalNote = v }},
}

func addNodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("layer", "l", "", "layer (storytelling, structure or domain)")
	cmd.Flags().StringP("domain", "d", "", "craft domain for domain-layer nodes")
	cmd.Flags().String("subgroup", "", "parent domain node ID")
	cmd.Flags().String("pos", "", "scene position as x,y,z")
	cmd.Flags().Bool("unclear", false, "flag the node as unclear")
	for _, f := range nodeTextFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

func nodeInputFromFlags(cmd *cobra.Command, title string) (model.NodeInput, error) {
	in := model.NodeInput{Title: title}
	in.ID, _ = cmd.Flags().GetString("id")
	layer, _ := cmd.Flags().GetString("layer")
	in.Layer = model.Layer(layer)
	domain, _ := cmd.Flags().GetString("domain")
	in.Domain = model.Domain(domain)
	in.Subgroup, _ = cmd.Flags().GetString("subgroup")
	in.Unclear, _ = cmd.Flags().GetBool("unclear")
	if cmd.Flags().Changed("pos") {
		v, _ := cmd.Flags().GetString("pos")
		p, err := parsePosition(v)
		if err != nil {
			return in, err
		}
		in.Position = p
	}
	for _, f := range nodeTextFlags {
		*f.input(&in), _ = cmd.Flags().GetString(f.name)
	}
	return in, nil
}

func nodeUpdateFromFlags(cmd *cobra.Command) (model.NodeUpdate, error) {
	var u model.NodeUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		u.Title = &v
	}
	if flags.Changed("layer") {
		v, _ := flags.GetString("layer")
		l := model.Layer(v)
		u.Layer = &l
	}
	if flags.Changed("domain") {
		v, _ := flags.GetString("domain")
		d := model.Domain(v)
		u.Domain = &d
	}
	if flags.Changed("subgroup") {
		v, _ := flags.GetString("subgroup")
		u.Subgroup = &v
	}
	if flags.Changed("unclear") {
		v, _ := flags.GetBool("unclear")
		u.Unclear = &v
	}
	if flags.Changed("pos") {
		v, _ := flags.GetString("pos")
		p, err := parsePosition(v)
		if err != nil {
			return u, err
		}
		u.Position = &p
	}
	for _, f := range nodeTextFlags {
		if flags.Changed(f.name) {
			v, _ := flags.GetString(f.name)
			f.patch(&u, &v)
		}
	}
	if u.IsEmpty() {
		return u, fmt.Errorf("nothing to update: set at least one field flag")
	}
	return u, nil
}

func init() {
	addNodeFlags(nodeAddCmd)
	nodeAddCmd.Flags().String("id", "", "node ID (generated when empty)")

	addNodeFlags(nodeUpdateCmd)
	nodeUpdateCmd.Flags().String("title", "", "node title")

	nodeListCmd.Flags().String("view", client.ViewAll, "which nodes to list (all, filtered, visible, unclear)")

	nodeCmd.AddCommand(nodeAddCmd)
	nodeCmd.AddCommand(nodeListCmd)
	nodeCmd.AddCommand(nodeShowCmd)
	nodeCmd.AddCommand(nodeUpdateCmd)
	nodeCmd.AddCommand(nodeNoteCmd)
	nodeCmd.AddCommand(nodeDeleteCmd)
	nodeCmd.AddCommand(nodeConnectionsCmd)
}
