package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lox/blackjack/internal/game"
)

type keyMap struct {
	Raise10  key.Binding
	Raise20  key.Binding
	Raise50  key.Binding
	RaiseMax key.Binding
	Reset    key.Binding
	Deal     key.Binding
	Hit      key.Binding
	Stand    key.Binding
	Split    key.Binding
	Double   key.Binding
	Again    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Raise10:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "+10")),
		Raise20:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "+20")),
		Raise50:  key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "+50")),
		RaiseMax: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "max")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Deal:     key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "deal")),
		Hit:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stand")),
		Split:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "split")),
		Double:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		Again:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "play again")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// commandBinding pairs a game key with the command it issues
type commandBinding struct {
	binding *key.Binding
	cmd     game.Command
}

func (k *keyMap) commands() []commandBinding {
	return []commandBinding{
		{&k.Raise10, game.Raise(game.RaiseAmounts[0])},
		{&k.Raise20, game.Raise(game.RaiseAmounts[1])},
		{&k.Raise50, game.Raise(game.RaiseAmounts[2])},
		{&k.RaiseMax, game.Raise(game.RaiseAmounts[3])},
		{&k.Reset, game.Command{Kind: game.ResetBet}},
		{&k.Deal, game.Command{Kind: game.SetBet}},
		{&k.Hit, game.Command{Kind: game.Hit}},
		{&k.Stand, game.Command{Kind: game.Stand}},
		{&k.Split, game.Command{Kind: game.Split}},
		{&k.Double, game.Command{Kind: game.Double}},
		{&k.Again, game.Command{Kind: game.PlayAgain}},
	}
}

// enable turns each game binding on only if its command is currently legal.
// With busy set every game binding is off.
func (k *keyMap) enable(legal []game.CommandKind, busy bool) {
	allowed := make(map[game.CommandKind]bool, len(legal))
	for _, kind := range legal {
		allowed[kind] = !busy
	}
	for _, c := range k.commands() {
		c.binding.SetEnabled(allowed[c.cmd.Kind])
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Raise10, k.Raise20, k.Raise50, k.RaiseMax, k.Reset, k.Deal,
		k.Hit, k.Stand, k.Split, k.Double, k.Again, k.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Raise10, k.Raise20, k.Raise50, k.RaiseMax, k.Reset, k.Deal},
		{k.Hit, k.Stand, k.Split, k.Double},
		{k.Again, k.Quit},
	}
}
