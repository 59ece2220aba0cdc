package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// TUI launches the interactive terminal UI. The runner's output must be a terminal.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if f, ok := r.output.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("%w: tui needs a terminal, use the playlist commands instead", shared.ErrInvalidInput)
	}

	logPath := cmd.String("log-file")
	if logPath == "" {
		logPath = r.config.Logging.File
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Logging.Level))
	r.SetLogger(fileLogger)

	store, release, err := r.openStore()
	if err != nil {
		return err
	}
	defer release()

	model := ui.NewModel(ui.ModelOpts{
		Ctx:                  ctx,
		Browser:              r.backend,
		Provider:             r.backend,
		Store:                store,
		Logger:               fileLogger,
		NotifyRemoveFailures: r.config.Behavior.NotifyRemoveFailures,
		SelectionTimeout:     r.config.Behavior.SelectionTimeout,
		RequestTimeout:       r.config.Server.RequestTimeout,
		StatusDuration:       r.config.Behavior.StatusDuration,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(r.output))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
