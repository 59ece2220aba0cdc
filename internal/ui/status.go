package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/tasks"
)

var _ tasks.Notifier = (*status)(nil)

// status is the one-line notification area. Each message bumps seq so a stale clear tick can't erase a newer one.
type status struct {
	text  string
	isErr bool
	seq   int
	shown int
}

func (s *status) Success(msg string) { s.set(msg, false) }
func (s *status) Error(msg string)   { s.set(msg, true) }

func (s *status) set(msg string, isErr bool) {
	s.text = msg
	s.isErr = isErr
	s.seq++
}

// clearAfter returns a tick that clears the current message, or nil if it was already scheduled.
// A negative d keeps messages until they are replaced.
func (s *status) clearAfter(d time.Duration) tea.Cmd {
	if d < 0 || s.text == "" || s.shown == s.seq {
		return nil
	}
	s.shown = s.seq
	seq := s.seq
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg(seq) })
}

func (s *status) clear(seq int) {
	if seq == s.seq {
		s.text = ""
		s.isErr = false
	}
}

func (s *status) View() string {
	if s.text == "" {
		return ""
	}
	if s.isErr {
		return styles.err.Render(s.text)
	}
	return styles.ok.Render(s.text)
}
