package bot

import "github.com/charmbracelet/log"

// StandBot always stands on the dealt hand
type StandBot struct {
	logger *log.Logger
}

// NewStandBot creates a new StandBot instance
func NewStandBot(logger *log.Logger) *StandBot {
	return &StandBot{logger: logger}
}

func (s *StandBot) MakeDecision(view View) Decision {
	return stand("stand-bot standing")
}
