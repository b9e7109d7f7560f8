package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
)

// tickMsg releases the next queued event to the view
type tickMsg struct{}

// Pacer spaces out event application so dealt cards appear one at a time.
// Pacing is presentation only; the engine has already finished the command.
type Pacer struct {
	clock quartz.Clock
	delay time.Duration
}

// NewPacer creates a pacer. A zero delay releases every tick immediately.
func NewPacer(clock quartz.Clock, delay time.Duration) *Pacer {
	return &Pacer{clock: clock, delay: delay}
}

// Delay returns the configured delay
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Tick returns a command that delivers a tickMsg after the delay. The timer
// starts when Tick is called, not when the command runs.
func (p *Pacer) Tick() tea.Cmd {
	if p.delay <= 0 {
		return func() tea.Msg { return tickMsg{} }
	}
	fired := make(chan struct{})
	p.clock.AfterFunc(p.delay, func() { close(fired) }, "pacer")
	return func() tea.Msg {
		<-fired
		return tickMsg{}
	}
}
