package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/interaction"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/ui"
)

var pickCmd = &cobra.Command{
	Use:     "pick",
	Short:   "Cast a ray into the scene and click the nearest visible node",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		originStr, _ := cmd.Flags().GetString("origin")
		dirStr, _ := cmd.Flags().GetString("dir")
		double, _ := cmd.Flags().GetBool("double")
		radius, _ := cmd.Flags().GetFloat64("radius")

		origin, err := parsePosition(originStr)
		if err != nil {
			return err
		}
		dir, err := parsePosition(dirStr)
		if err != nil {
			return err
		}

		st, err := graphClient.State(ctx)
		if err != nil {
			return fmt.Errorf("getting state: %w", err)
		}
		scene := &sceneGraph{state: st, client: graphClient}
		hl := &highlightSet{}
		rc := interaction.NewSphereRaycaster(scene)
		if radius > 0 {
			rc.Radius = radius
		}

		res := pickResult{}
		coord := interaction.New(scene, rc,
			interaction.WithHighlighter(hl),
			interaction.OnClick(func(n *model.Node) { res.Selected = n }),
			interaction.OnEdit(func(n *model.Node) { res.Edit = n }),
		)

		coord.CheckHover(interaction.Ray{
			Origin:    interaction.FromPosition(origin),
			Direction: interaction.FromPosition(dir),
		})
		coord.Click(ctx)
		if double {
			coord.DoubleClick(ctx)
		}
		if scene.err != nil {
			return scene.err
		}
		res.Highlighted = hl.ids()

		if jsonOutput {
			printJSON(res)
			return nil
		}
		if res.Selected == nil {
			fmt.Println("Nothing under the pointer; selection cleared")
			return nil
		}
		fmt.Printf("Selected %s %s\n", ui.RenderNode(*res.Selected), ui.RenderMuted(res.Selected.ID))
		if len(res.Highlighted) > 0 {
			fmt.Printf("Highlighted %d connections\n", len(res.Highlighted))
		}
		if res.Edit != nil {
			fmt.Printf("Editing %s (build mode)\n", res.Edit.ID)
		}
		return nil
	},
}

type pickResult struct {
	Selected    *model.Node `json:"selected"`
	Edit        *model.Node `json:"edit,omitempty"`
	Highlighted []string    `json:"highlighted"`
}

// sceneGraph answers coordinator reads from a state snapshot and forwards
// selection and expansion to the client, mirroring them locally. The first
// forwarding error is kept in err.
type sceneGraph struct {
	state  model.State
	client client.GraphClient
	err    error
}

func (g *sceneGraph) NodeByID(id string) (model.Node, bool) {
	for _, n := range g.state.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

func (g *sceneGraph) ConnectionsForNode(id string) []model.Connection {
	var out []model.Connection
	for _, c := range g.state.Connections {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

func (g *sceneGraph) IsGroupParent(id string) bool {
	for _, n := range g.state.Nodes {
		if n.Subgroup == id {
			return true
		}
	}
	return false
}

func (g *sceneGraph) IsExpanded(groupID string) bool {
	return slices.Contains(g.state.ExpandedGroups, groupID)
}

func (g *sceneGraph) ToggleDomainExpand(ctx context.Context, groupID string) bool {
	expanded, err := g.client.ToggleGroup(ctx, groupID)
	if err != nil {
		g.fail(fmt.Errorf("toggling group: %w", err))
		return g.IsExpanded(groupID)
	}
	groups := slices.DeleteFunc(slices.Clone(g.state.ExpandedGroups), func(s string) bool { return s == groupID })
	if expanded {
		groups = append(groups, groupID)
	}
	g.state.ExpandedGroups = groups
	return expanded
}

func (g *sceneGraph) SelectedNodeID() string { return g.state.SelectedNodeID }

func (g *sceneGraph) SelectNode(ctx context.Context, id string) {
	if err := g.client.SelectNode(ctx, id); err != nil {
		g.fail(fmt.Errorf("selecting node: %w", err))
		return
	}
	g.state.SelectedNodeID = id
}

func (g *sceneGraph) DeselectNode(ctx context.Context) {
	if err := g.client.DeselectNode(ctx); err != nil {
		g.fail(fmt.Errorf("deselecting: %w", err))
		return
	}
	g.state.SelectedNodeID = ""
}

func (g *sceneGraph) Mode() model.Mode { return g.state.Mode }

func (g *sceneGraph) VisibleNodes() []model.Node {
	var out []model.Node
	for _, n := range g.state.Nodes {
		if n.Subgroup == "" || g.IsExpanded(n.Subgroup) {
			out = append(out, n)
		}
	}
	return out
}

func (g *sceneGraph) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// highlightSet tracks which connections are currently highlighted.
type highlightSet struct {
	on []string
}

func (h *highlightSet) SetConnectionHighlight(id string, on bool) {
	h.on = slices.DeleteFunc(h.on, func(s string) bool { return s == id })
	if on {
		h.on = append(h.on, id)
	}
}

func (h *highlightSet) ids() []string {
	if h.on == nil {
		return []string{}
	}
	return h.on
}

func init() {
	pickCmd.Flags().String("origin", "0,0,50", "ray origin as x,y,z")
	pickCmd.Flags().String("dir", "0,0,-1", "ray direction as x,y,z")
	pickCmd.Flags().Bool("double", false, "double-click (opens the editor in build mode)")
	pickCmd.Flags().Float64("radius", interaction.DefaultRadius, "hit radius around each node")
}
