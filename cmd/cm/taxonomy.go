package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/taxonomy"
	"github.com/alfredjeanlab/cinemap/internal/ui"
)

var taxonomyCmd = &cobra.Command{
	Use:     "taxonomy",
	Short:   "Show the layer and domain catalog",
	GroupID: "views",
	Args:    cobra.NoArgs,
	// The catalog is static; no store or server is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			printJSON(map[string]any{
				"layers":    taxonomy.Layers(),
				"domains":   taxonomy.Domains(),
				"subgroups": taxonomy.Subgroups(),
			})
			return nil
		}
		fmt.Println(renderTaxonomy())
		return nil
	},
}

func renderTaxonomy() string {
	layerRows := make([][]string, 0, len(taxonomy.Layers()))
	for _, l := range taxonomy.Layers() {
		layerRows = append(layerRows, []string{ui.RenderStyle(l.Style, l.Label), l.Layer.String(), l.Description})
	}

	subgroups := taxonomy.Subgroups()
	parents := make([]string, 0, len(subgroups))
	for id := range subgroups {
		parents = append(parents, id)
	}
	sort.Strings(parents)

	domainRows := make([][]string, 0, len(taxonomy.Domains()))
	for _, d := range taxonomy.Domains() {
		domainRows = append(domainRows, []string{ui.RenderStyle(d.Style, d.Label), d.Domain.String(), d.Description})
	}

	groupRows := make([][]string, 0, len(parents))
	for _, id := range parents {
		groupRows = append(groupRows, []string{id, strconv.Itoa(len(subgroups[id]))})
	}

	return renderTable([]string{"LAYER", "KEY", "DESCRIPTION"}, layerRows, nil) + "\n\n" +
		renderTable([]string{"DOMAIN", "KEY", "DESCRIPTION"}, domainRows, nil) + "\n\n" +
		renderTable([]string{"SUBGROUP", "CHILDREN"}, groupRows, []columnAlignment{alignLeft, alignRight})
}
