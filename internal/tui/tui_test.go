package tui

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestMain(m *testing.M) {
	ApplyTheme("mono", true)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestModel(t *testing.T, cards string, opts ...game.Option) *TUIModel {
	t.Helper()
	opts = append([]game.Option{
		game.WithLogger(quietLogger()),
		game.WithDeckOrder(deck.MustParseCards(cards)...),
	}, opts...)
	e := game.NewEngine(opts...)
	return NewTUIModel(e, NewPacer(quartz.NewReal(), 0), quietLogger())
}

func keyPress(k string) tea.KeyMsg {
	if k == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key and runs every resulting tick to completion
func press(t *testing.T, m *TUIModel, k string) {
	t.Helper()
	_, cmd := m.Update(keyPress(k))
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 100, "ticks never settled")
		_, cmd = m.Update(cmd())
	}
}

func TestTUIHidesHoleCardUntilRevealed(t *testing.T) {
	m := newTestModel(t, "Ks8hQdTc")

	press(t, m, "enter")
	view := m.View()
	assert.Contains(t, view, "[K♠]")
	assert.Contains(t, view, "[Q♦]")
	assert.Contains(t, view, "[##]")
	assert.Contains(t, view, "[T♣]")
	assert.NotContains(t, view, "8♥")
	assert.Contains(t, view, "(10)", "dealer total counts only the up card")
	assert.Contains(t, view, "(20)")
	assert.Contains(t, view, "Purse: $490")
	assert.Contains(t, view, "Pot: $10")
	assert.Contains(t, view, "▶ Player")

	press(t, m, "t")
	view = m.View()
	assert.Contains(t, view, "[8♥]")
	assert.NotContains(t, view, "[##]")
	assert.Contains(t, view, "(18)")
	assert.Contains(t, view, "$20 paid out")
	assert.Contains(t, view, "Purse: $510")
}

func TestTUIMirrorsEngineHands(t *testing.T) {
	m := newTestModel(t, "8sTh8d9c")
	press(t, m, "enter")
	press(t, m, "p")

	for _, id := range []deck.StackID{deck.Dealer, deck.Player, deck.SideHand} {
		var shown []deck.Card
		for _, c := range m.hands[id] {
			shown = append(shown, c.card)
		}
		assert.Equal(t, m.engine.Cards(id), shown, "hand %s", id)
	}
	assert.Contains(t, m.View(), "Split")

	press(t, m, "t")
	assert.Contains(t, m.View(), "▶ Split")
}

func TestTUIBettingKeys(t *testing.T) {
	m := newTestModel(t, "Ks8hQdTc")

	press(t, m, "5")
	press(t, m, "2")
	assert.Equal(t, 80, m.engine.PendingBet())
	assert.Contains(t, m.View(), "Bet: $80")

	press(t, m, "m")
	assert.Equal(t, 100, m.engine.PendingBet())

	press(t, m, "r")
	assert.Equal(t, 10, m.engine.PendingBet())

	// Play keys are disabled during betting.
	press(t, m, "h")
	assert.Equal(t, game.Betting, m.engine.Phase())
	assert.NotContains(t, m.View(), "hit")
}

func TestTUIPacesDealtCards(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	delay := 100 * time.Millisecond
	e := game.NewEngine(
		game.WithLogger(quietLogger()),
		game.WithDeckOrder(deck.MustParseCards("Ks8hQdTc")...),
	)
	m := NewTUIModel(e, NewPacer(clock, delay), quietLogger())

	_, cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, game.PlayerTurn, e.Phase(), "engine finishes the command at once")
	assert.Empty(t, m.hands[deck.Player])

	// Keys stay dead until the view catches up.
	_, extra := m.Update(keyPress("t"))
	assert.Nil(t, extra)
	assert.Equal(t, game.PlayerTurn, e.Phase())

	ticks := 0
	for cmd != nil {
		clock.Advance(delay).MustWait(ctx)
		_, cmd = m.Update(cmd())
		ticks++
		require.LessOrEqual(t, ticks, 10)
	}
	assert.Equal(t, 5, ticks, "four cards then the trailing phase events")
	assert.Len(t, m.hands[deck.Player], 2)
	assert.Len(t, m.hands[deck.Dealer], 2)
	assert.True(t, m.hands[deck.Dealer][0].faceDown)

	_, cmd = m.Update(keyPress("t"))
	assert.NotNil(t, cmd)
	assert.Equal(t, game.Resolved, e.Phase())
}

func TestTUIInsufficientFunds(t *testing.T) {
	m := newTestModel(t, "9sAh7dKc", game.WithPurse(10))

	press(t, m, "enter")
	assert.Contains(t, m.View(), "You lost your bet.")

	press(t, m, "n")
	assert.Contains(t, m.View(), "Insufficient funds")

	press(t, m, "n")
	view := m.View()
	assert.Contains(t, view, "Purse: $500")
	assert.Empty(t, m.hands[deck.Player])
	assert.Empty(t, m.hands[deck.Dealer])
}

func TestTUIQuit(t *testing.T) {
	m := newTestModel(t, "Ks8hQdTc")

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestPacerZeroDelay(t *testing.T) {
	p := NewPacer(quartz.NewMock(t), 0)
	assert.Equal(t, time.Duration(0), p.Delay())
	assert.Equal(t, tickMsg{}, p.Tick()())
}
