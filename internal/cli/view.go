package cli

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/selection"
	"github.com/matzehuels/corpusgraph/pkg/view"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		watch  bool
		toggle bool
		top    int
	)

	cmd := &cobra.Command{
		Use:   "view <dataset-dir>",
		Short: "Explore the graphs interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top == 0 {
				top = c.cfg.Render.Top
			}
			opts := []view.Option{view.WithTopNodes(top)}
			if toggle {
				opts = append(opts, view.WithPolicy(selection.PolicyToggle))
			}
			return c.runView(cmd.Context(), args[0], watch, opts)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the dataset files change")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "clicking the selected node clears the selection")
	cmd.Flags().IntVar(&top, "top", 0, "core nodes drawn (0 uses the configured default)")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, watch bool, opts []view.Option) error {
	logger := loggerFromContext(ctx)
	dir, b, err := loadBundle(ctx, path)
	if err != nil {
		return err
	}
	f, err := c.formatter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	if watch {
		w, err := dataset.NewWatcher(dir.Path(), dataset.WithOnError(func(err error) {
			logger.Warn("watch error", "err", err)
		}))
		if err != nil {
			logger.Warn("live reload unavailable", "err", err)
		} else {
			changes = w.Changes()
			go func() { _ = w.Run(ctx) }()
		}
	}

	m, err := NewViewerModel(ctx, dir, b, changes, f, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
