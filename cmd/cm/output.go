package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func nodeRows(nodes []model.Node) [][]string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			n.ID,
			ui.RenderNode(n),
			n.Layer.String(),
			n.Domain.String(),
			n.Subgroup,
		})
	}
	return rows
}

func renderNodeTable(nodes []model.Node) string {
	return renderTable([]string{"ID", "TITLE", "LAYER", "DOMAIN", "SUBGROUP"}, nodeRows(nodes), nil)
}

func printNodeListTable(nodes []model.Node) {
	if len(nodes) == 0 {
		fmt.Println("No nodes.")
		return
	}
	fmt.Println(renderNodeTable(nodes))
	fmt.Printf("\n%d nodes\n", len(nodes))
}

// titleLookup maps node IDs to display titles; unknown IDs render muted.
type titleLookup map[string]model.Node

func newTitleLookup(nodes []model.Node) titleLookup {
	m := make(titleLookup, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func (l titleLookup) render(id string) string {
	if n, ok := l[id]; ok {
		return ui.RenderNode(n)
	}
	return ui.RenderMuted(id + " (missing)")
}

func renderConnectionTable(conns []model.Connection, titles titleLookup) string {
	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, []string{
			c.ID,
			titles.render(c.From),
			titles.render(c.To),
			ui.RenderStrength(c.Strength),
			truncate(c.Explanation, 60),
		})
	}
	return renderTable([]string{"ID", "FROM", "TO", "STRENGTH", "EXPLANATION"}, rows, nil)
}

func printConnectionListTable(conns []model.Connection, titles titleLookup) {
	if len(conns) == 0 {
		fmt.Println("No connections.")
		return
	}
	fmt.Println(renderConnectionTable(conns, titles))
	fmt.Printf("\n%d connections\n", len(conns))
}

func printNode(n model.Node) {
	fmt.Printf("ID:          %s\n", n.ID)
	fmt.Printf("Title:       %s\n", ui.RenderNode(n))
	fmt.Printf("Layer:       %s\n", n.Layer)
	if n.Domain != "" {
		fmt.Printf("Domain:      %s\n", n.Domain)
	}
	if n.Subgroup != "" {
		fmt.Printf("Subgroup:    %s\n", n.Subgroup)
	}
	fmt.Printf("Position:    %s\n", formatPosition(n.Position))
	fmt.Printf("Unclear:     %t\n", n.Unclear)
	printField("Definition", n.Definition)
	printField("Solves", n.ProblemSolved)
	printField("Misuse", n.MisuseConsequence)
	printField("Example", n.Example)
	printField("Note", n.PersonalNote)
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-12s %s\n", label+":", value)
}

func printNodeDetail(d *client.NodeDetail, titles titleLookup) {
	printNode(d.Node)
	var flags []string
	if !d.Visible {
		flags = append(flags, "hidden")
	}
	if d.GroupParent {
		if d.Expanded {
			flags = append(flags, "expanded group")
		} else {
			flags = append(flags, "collapsed group")
		}
	}
	if len(flags) > 0 {
		fmt.Printf("View:        %s\n", strings.Join(flags, ", "))
	}
	if len(d.Connections) > 0 {
		fmt.Println()
		fmt.Println(renderConnectionTable(d.Connections, titles))
	}
}

func printModeStatus(st *client.ModeStatus) {
	fmt.Printf("Mode: %s\n", ui.RenderAccent(st.Mode.String()))
	if len(st.UnclearNodes) == 0 {
		return
	}
	fmt.Printf("\n%d unclear nodes:\n", len(st.UnclearNodes))
	for _, n := range st.UnclearNodes {
		fmt.Printf("  %s  %s\n", n.ID, ui.RenderNode(n))
	}
}

func printFilters(f model.Filters) {
	if f.IsEmpty() {
		fmt.Println("No filters set.")
		return
	}
	show := func(key model.FilterKey, v string) {
		if v != "" {
			fmt.Printf("%-7s %s\n", string(key)+":", v)
		}
	}
	show(model.FilterLayer, f.Layer.String())
	show(model.FilterDomain, f.Domain.String())
	show(model.FilterIntent, f.Intent)
}

func formatPosition(p model.Position) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return f(p.X) + "," + f(p.Y) + "," + f(p.Z)
}

// parsePosition reads "x,y,z"; missing trailing components default to 0.
func parsePosition(s string) (model.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return model.Position{}, fmt.Errorf("invalid position %q: want x,y,z", s)
	}
	var vals [3]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return model.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		vals[i] = v
	}
	return model.Position{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
