package game

import (
	"errors"
	"fmt"
)

// ErrIllegalCommand is returned for a command issued outside its valid
// phase. The engine's state is unchanged and the error is not fatal.
var ErrIllegalCommand = errors.New("illegal command")

// CommandKind enumerates the player/UI command surface
type CommandKind int

const (
	SetBet CommandKind = iota
	RaiseBet
	ResetBet
	Hit
	Stand
	Split
	Double
	PlayAgain
)

func (k CommandKind) String() string {
	switch k {
	case SetBet:
		return "set_bet"
	case RaiseBet:
		return "raise_bet"
	case ResetBet:
		return "reset_bet"
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Split:
		return "split"
	case Double:
		return "double"
	case PlayAgain:
		return "play_again"
	default:
		return "unknown"
	}
}

// RaiseAmounts are the increments offered by the betting controls. The last
// one doubles as the max-bet button since raises clamp to MaxBet.
var RaiseAmounts = []int{10, 20, 50, 100}

// Command is a single request to the engine. Amount is only read by RaiseBet.
type Command struct {
	Kind   CommandKind
	Amount int
}

func (c Command) String() string {
	if c.Kind == RaiseBet {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Amount)
	}
	return c.Kind.String()
}

// Raise builds a RaiseBet command
func Raise(amount int) Command {
	return Command{Kind: RaiseBet, Amount: amount}
}
