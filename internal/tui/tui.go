package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// shownCard is a card as the view currently draws it
type shownCard struct {
	card     deck.Card
	faceDown bool
}

// TUIModel is the Bubble Tea model for a blackjack session. It keeps its own
// copy of each hand, built only from card events, and polls the engine for
// values, money and which keys are live.
type TUIModel struct {
	engine *game.Engine
	logger *log.Logger
	pacer  *Pacer

	keys keyMap
	help help.Model

	hands   map[deck.StackID][]shownCard
	queue   []game.GameEvent
	ticking bool

	message  string
	quitting bool
	width    int
}

// NewTUIModel creates a model driving engine. Call it before the first
// command so the opening events are already applied.
func NewTUIModel(engine *game.Engine, pacer *Pacer, logger *log.Logger) *TUIModel {
	m := &TUIModel{
		engine: engine,
		logger: logger.WithPrefix("tui"),
		pacer:  pacer,
		keys:   newKeyMap(),
		help:   help.New(),
		hands: map[deck.StackID][]shownCard{
			deck.Dealer:   nil,
			deck.Player:   nil,
			deck.SideHand: nil,
		},
		message: betPrompt,
	}
	m.refreshKeys()
	return m
}

const betPrompt = "Place your bet."

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		for _, c := range m.keys.commands() {
			if key.Matches(msg, *c.binding) {
				return m, m.issue(c.cmd)
			}
		}

	case tickMsg:
		m.ticking = false
		m.release()
		if len(m.queue) > 0 {
			m.ticking = true
			return m, m.pacer.Tick()
		}
		m.refreshKeys()
	}
	return m, nil
}

// issue sends a command to the engine and queues its events for display
func (m *TUIModel) issue(cmd game.Command) tea.Cmd {
	events, err := m.engine.Handle(cmd)
	if err != nil {
		if errors.Is(err, game.ErrIllegalCommand) {
			m.logger.Debug("Ignored key", "command", cmd, "error", err)
			return nil
		}
		m.logger.Error("Command failed", "command", cmd, "error", err)
		m.message = err.Error()
	}
	m.queue = append(m.queue, events...)
	m.refreshKeys()
	if m.ticking || len(m.queue) == 0 {
		return nil
	}
	m.ticking = true
	return m.pacer.Tick()
}

// release applies queued events up to and including the next one that
// changes a card on screen
func (m *TUIModel) release() {
	for len(m.queue) > 0 {
		ev := m.queue[0]
		m.queue = m.queue[1:]
		if m.apply(ev) {
			return
		}
	}
}

// apply updates the view's copy of the table and reports whether a card
// visibly changed
func (m *TUIModel) apply(event game.GameEvent) bool {
	switch ev := event.(type) {
	case game.CardAddedEvent:
		if _, tracked := m.hands[ev.Hand]; !tracked {
			return false
		}
		m.hands[ev.Hand] = append(m.hands[ev.Hand], shownCard{card: ev.Card, faceDown: ev.FaceDown})
		return true
	case game.CardRemovedEvent:
		cards, tracked := m.hands[ev.Hand]
		if !tracked {
			return false
		}
		for i, c := range cards {
			if c.card == ev.Card {
				m.hands[ev.Hand] = append(cards[:i:i], cards[i+1:]...)
				return true
			}
		}
		return false
	case game.HandClearedEvent:
		if _, tracked := m.hands[ev.Hand]; tracked {
			m.hands[ev.Hand] = nil
		}
	case game.HoleCardRevealedEvent:
		for i, c := range m.hands[deck.Dealer] {
			if c.card == ev.Card {
				m.hands[deck.Dealer][i].faceDown = false
				return true
			}
		}
	case game.RoundStartedEvent:
		m.message = betPrompt
	case game.RoundResolvedEvent:
		m.message = ev.Outcome.Summary()
	case game.InsufficientFundsEvent:
		m.message = "Insufficient funds. Press n to restart with a fresh purse."
	case game.PurseReplenishedEvent:
		m.message = fmt.Sprintf("Purse replenished to $%d.", ev.Purse)
	case game.DeckShuffledEvent:
		m.logger.Debug("Deck reshuffled", "cards", ev.Cards)
	}
	return false
}

// busy reports whether queued events have yet to reach the screen
func (m *TUIModel) busy() bool {
	return len(m.queue) > 0
}

func (m *TUIModel) refreshKeys() {
	m.keys.enable(m.engine.LegalCommands(), m.busy())
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Blackjack"))
	b.WriteString("\n\n")

	var table strings.Builder
	table.WriteString(m.renderHand("Dealer", deck.Dealer))
	table.WriteString("\n\n")
	table.WriteString(m.renderHand("Player", deck.Player))
	if len(m.hands[deck.SideHand]) > 0 {
		table.WriteString("\n")
		table.WriteString(m.renderHand("Split", deck.SideHand))
	}
	b.WriteString(TableStyle.Render(table.String()))
	b.WriteString("\n")

	b.WriteString(WarningStyle.Render(fmt.Sprintf("Purse: $%d", m.engine.Purse())))
	b.WriteString("  ")
	if m.engine.Phase() == game.Betting {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", m.engine.PendingBet())))
	} else {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: $%d", m.engine.Pot())))
	}
	b.WriteString("\n")

	if !m.busy() && m.message != "" {
		b.WriteString(m.messageStyle().Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *TUIModel) messageStyle() lipgloss.Style {
	if m.engine.InsufficientFunds() {
		return ErrorStyle
	}
	if out, ok := m.engine.LastOutcome(); ok && m.engine.Phase() == game.Resolved && out.Net() > 0 {
		return SuccessStyle
	}
	return InfoStyle
}

func (m *TUIModel) renderHand(label string, id deck.StackID) string {
	var b strings.Builder

	labelStyle := HandLabelStyle
	marker := "  "
	if !m.busy() && m.engine.ActiveHand() == id {
		labelStyle = ActiveHandStyle
		marker = "▶ "
	}
	b.WriteString(labelStyle.Render(marker + label))
	b.WriteString(" ")

	cards := m.hands[id]
	for _, c := range cards {
		b.WriteString(renderCard(c))
		b.WriteString(" ")
	}
	if len(cards) == 0 {
		return b.String()
	}

	b.WriteString(InfoStyle.Render(m.valueText(id)))
	return b.String()
}

// valueText is the total shown next to a hand. The engine is polled once the
// view has caught up; the dealer's total only counts face-up cards while the
// hole card is hidden.
func (m *TUIModel) valueText(id deck.StackID) string {
	if m.busy() || m.hasFaceDown(id) {
		var visible []deck.Card
		for _, c := range m.hands[id] {
			if !c.faceDown {
				visible = append(visible, c.card)
			}
		}
		return "(" + rules.HandValueDisplay(visible) + ")"
	}

	text := "(" + m.engine.HandValueDisplay(id) + ")"
	if m.engine.AcesReduced(id) {
		text += " value of ace reduced"
	}
	return text
}

func (m *TUIModel) hasFaceDown(id deck.StackID) bool {
	for _, c := range m.hands[id] {
		if c.faceDown {
			return true
		}
	}
	return false
}

func renderCard(c shownCard) string {
	if c.faceDown {
		return HiddenCardStyle.Render("[##]")
	}
	text := "[" + c.card.String() + "]"
	if c.card.IsRed() {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

// Run starts an interactive session on the terminal
func Run(engine *game.Engine, pacer *Pacer, logger *log.Logger) error {
	model := NewTUIModel(engine, pacer, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
