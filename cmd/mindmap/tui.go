package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/mindmap/internal/config"
	"github.com/jask/mindmap/internal/layout"
	"github.com/jask/mindmap/internal/tui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = d.log.Sync() }()

	sim := layout.New(forces(d.cfg.Layout))
	app := tui.New(ctx, d.cfg, tui.Services{
		Explorer:   newExplorer(d, sim),
		Simulation: sim,
		Relations:  d.rel,
		Logger:     d.log,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if d.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(app, opts...)

	watched := config.Watch(configPath, func(c config.Config, err error) {
		p.Send(tui.ConfigMsg{Config: c, Err: err})
	})
	d.log.Debug("config watch", zap.Bool("active", watched))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
