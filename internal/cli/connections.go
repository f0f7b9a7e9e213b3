package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/format"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/panel"
	"github.com/matzehuels/corpusgraph/pkg/view"
)

// connectionsCommand creates the connections command, which prints the side
// panel of one selected node.
func (c *CLI) connectionsCommand() *cobra.Command {
	var (
		graphName string
		side      string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "connections <dataset-dir> <id>",
		Short: "Print the ranked connections of a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, b, err := loadBundle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			o := sceneOpts{graph: graphName, selID: args[1], side: side}
			return c.runConnections(cmd.OutOrStdout(), b, o, limit)
		},
	}

	cmd.Flags().StringVarP(&graphName, "graph", "g", graph.GraphCore, "graph to search")
	cmd.Flags().StringVar(&side, "side", "", "column of the node in a bipartite graph: left, right")
	cmd.Flags().IntVarP(&limit, "limit", "n", panel.DefaultLimit, "number of connections")

	return cmd
}

func (c *CLI) runConnections(w io.Writer, b *dataset.Bundle, o sceneOpts, limit int) error {
	f, err := c.formatter()
	if err != nil {
		return err
	}
	v, err := buildView(b, o, view.WithPanelLimit(limit))
	if err != nil {
		return err
	}
	printSummary(w, v.Panel(), f)
	return nil
}

// infoCommand creates the info command, which summarizes a dataset directory.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dataset-dir>",
		Short: "Summarize the datasets in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, b, err := loadBundle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := c.formatter()
			if err != nil {
				return err
			}
			printBundle(cmd.OutOrStdout(), dir.Path(), b, f)
			return nil
		},
	}
}

func printBundle(w io.Writer, path string, b *dataset.Bundle, f *format.Formatter) {
	fmt.Fprintln(w, StyleTitle.Render(path))
	for _, name := range graph.GraphNames {
		if !b.Has(name) {
			printKeyValue(w, name, StyleDim.Render("missing"))
			continue
		}
		var nodes, edges, dangling int
		if name == graph.GraphCore {
			nodes, edges, dangling = len(b.Core.Nodes), len(b.Core.Edges), b.Core.DanglingEdges()
		} else {
			g, _ := b.Semantic.Subgraph(name)
			nodes, edges, dangling = len(g.LeftNodes)+len(g.RightNodes), len(g.Edges), g.DanglingEdges()
		}
		line := fmt.Sprintf("%s nodes · %s edges", f.Int(nodes), f.Int(edges))
		if dangling > 0 {
			line += StyleWarning.Render(fmt.Sprintf(" · %s dangling", f.Int(dangling)))
		}
		printKeyValue(w, name, line)
	}
	if b.Core != nil {
		m := b.Core.Metadata
		printDetail(w, "core: %s tokens, %s unique words observed", f.Int(m.TotalTokensObserved), f.Int(m.UniqueWordsObserved))
	}
	if b.Semantic != nil {
		m := b.Semantic.Metadata
		printDetail(w, "semantic: top %s, lemma %s, pos %s", f.Int(m.TopN), m.LemmaStrategy, m.POSStrategy)
	}
}
