package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sortify/internal/pager"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the collection.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Opts{
		Library: lib,
		Pager: pager.New(pager.Opts{
			PageSize:  r.config.UI.PageSize,
			Threshold: r.config.UI.Threshold,
			Delay:     r.config.UI.LoadDelay(),
		}),
		Logger:       r.logger,
		ReverseDelay: r.config.UI.ReverseDelay(),
		Open:         r.open,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		r.logger.Warn("last TUI action failed", "error", err)
	}
	return nil
}
