package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/selection"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

var (
	_ tasks.Notifier       = (*notices)(nil)
	_ tasks.PlaylistPicker = (*session)(nil)
)

// notices prints coordinator notifications as single styled lines.
type notices struct {
	w io.Writer
}

func (n *notices) Success(msg string) { fmt.Fprintln(n.w, okStyle.Render("✓ "+msg)) }
func (n *notices) Error(msg string)   { fmt.Fprintln(n.w, errStyle.Render("✗ "+msg)) }

// session hosts a coordinator for one command. Dialogs are answered from flags or a y/N prompt and the picker is
// answered with the --playlist id.
type session struct {
	coordinator *tasks.Coordinator
	registry    *dialogs.Registry
	outcomes    chan tasks.Outcome
	pending     selection.Token
}

func (r *Runner) newSession(store dialogs.Store) (*session, error) {
	s := &session{outcomes: make(chan tasks.Outcome, 8)}

	s.registry = dialogs.NewRegistry(store, r.logger)
	n, err := s.registry.Restore()
	if err != nil {
		return nil, fmt.Errorf("failed to restore dialogs: %w", err)
	}
	if n > 0 {
		r.logger.Warn("dialogs left open by a previous run", "count", n)
	}

	s.coordinator = tasks.NewCoordinator(tasks.CoordinatorOpts{
		Provider:             r.backend,
		Picker:               s,
		Notifier:             &notices{w: r.output},
		Logger:               r.logger,
		NotifyRemoveFailures: r.config.Behavior.NotifyRemoveFailures,
		SelectionTimeout:     r.config.Behavior.SelectionTimeout,
		RequestTimeout:       r.config.Server.RequestTimeout,
	})
	s.coordinator.Observe(s.outcomes)
	s.coordinator.OnCreate(s.registry)
	s.coordinator.OnResume()
	return s, nil
}

func (s *session) PickPlaylist(token selection.Token, prompt string) tea.Cmd {
	s.pending = token
	return nil
}

// run executes cmd and every command it produces, feeding messages to the coordinator.
func (s *session) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			s.coordinator.Update(msg)
		}
	}
}

// result returns the error for the last handled outcome. ok is false when nothing was issued.
func (s *session) result() (o tasks.Outcome, ok bool, err error) {
	select {
	case o = <-s.outcomes:
	default:
		return tasks.Outcome{}, false, nil
	}

	switch {
	case o.OK():
		return o, true, nil
	case o.Err != nil:
		return o, true, fmt.Errorf("%s: %w", o.Op, o.Err)
	default:
		return o, true, fmt.Errorf("%s: %w", o.Op, shared.ErrDeclined)
	}
}

// pick answers the pending playlist request with id and runs the append it unlocks.
func (s *session) pick(id int64) error {
	if s.pending == selection.None {
		return fmt.Errorf("%w: no playlist request pending", shared.ErrInvalidInput)
	}
	token := s.pending
	s.pending = selection.None

	if id <= 0 {
		s.coordinator.OnSelectionResult(token, -1)
		return shared.ErrSelectionCancelled
	}
	if s.coordinator.PendingSelection() != token {
		return shared.ErrSelectionExpired
	}
	s.run(s.coordinator.OnSelectionResult(token, id))
	_, _, err := s.result()
	return err
}

// answer confirms or cancels the dialog for tag and runs the resulting operation.
func (s *session) answer(tag string, yes bool, input string) error {
	if !yes {
		return s.registry.Cancel(tag)
	}

	cmd, err := s.registry.Confirm(tag, input)
	if err != nil {
		return err
	}
	s.run(cmd)
	_, _, err = s.result()
	return err
}

func (s *session) close() {
	s.coordinator.OnPause()
	s.coordinator.OnDestroy()
}

// confirm asks a y/N question on the runner's input unless yes is already set.
func (r *Runner) confirm(question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}

	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}

	line, err := r.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
