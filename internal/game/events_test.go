package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// testEventSubscriber captures events for testing
type testEventSubscriber struct {
	events []GameEvent
}

func (s *testEventSubscriber) OnEvent(event GameEvent) {
	s.events = append(s.events, event)
}

func (s *testEventSubscriber) types() []EventType {
	types := make([]EventType, len(s.events))
	for i, ev := range s.events {
		types[i] = ev.EventType()
	}
	return types
}

func TestEvents_DealOrder(t *testing.T) {
	e := riggedEngine(t, "Ks8hQdTc")
	cards := deck.MustParseCards("Ks8hQdTc")

	events := mustHandle(t, e, Command{Kind: SetBet})

	types := make([]EventType, len(events))
	for i, ev := range events {
		types[i] = ev.EventType()
	}
	assert.Equal(t, []EventType{
		EventTypeBetConfirmed,
		EventTypePhaseChanged,
		EventTypeCardRemoved, EventTypeCardAdded,
		EventTypeCardRemoved, EventTypeCardAdded,
		EventTypeCardRemoved, EventTypeCardAdded,
		EventTypeCardRemoved, EventTypeCardAdded,
		EventTypePhaseChanged,
		EventTypeActiveHandChanged,
	}, types)

	added := eventsOf[CardAddedEvent](events)
	require.Len(t, added, 4)
	wantHands := []deck.StackID{deck.Player, deck.Dealer, deck.Player, deck.Dealer}
	for i, ev := range added {
		assert.Equal(t, wantHands[i], ev.Hand)
		assert.Equal(t, cards[i], ev.Card)
	}
	assert.False(t, added[0].FaceDown)
	assert.True(t, added[1].FaceDown, "first dealer card is the hole card")
	assert.False(t, added[3].FaceDown)

	for _, ev := range eventsOf[CardRemovedEvent](events) {
		assert.Equal(t, deck.DeckID, ev.Hand)
	}

	confirmed := eventsOf[BetConfirmedEvent](events)
	require.Len(t, confirmed, 1)
	assert.Equal(t, 490, confirmed[0].Purse)
	assert.Equal(t, 10, confirmed[0].Pot)
}

func TestEvents_StandRevealsHoleCard(t *testing.T) {
	e := riggedEngine(t, "Ks8hQdTc")
	mustHandle(t, e, Command{Kind: SetBet})

	events := mustHandle(t, e, Command{Kind: Stand})

	require.Len(t, events, 4)
	phase, ok := events[0].(PhaseChangedEvent)
	require.True(t, ok)
	assert.Equal(t, PlayerTurn, phase.From)
	assert.Equal(t, DealerTurn, phase.To)
	reveal, ok := events[1].(HoleCardRevealedEvent)
	require.True(t, ok)
	assert.Equal(t, deck.MustParseCards("8h")[0], reveal.Card)
	assert.Equal(t, EventTypePhaseChanged, events[2].EventType())

	resolved, ok := events[3].(RoundResolvedEvent)
	require.True(t, ok)
	assert.Equal(t, 510, resolved.Outcome.Purse)
}

func TestEvents_SplitMovesSecondCard(t *testing.T) {
	e := riggedEngine(t, "8sTh8d9c")
	mustHandle(t, e, Command{Kind: SetBet})

	events := mustHandle(t, e, Command{Kind: Split})

	removed := eventsOf[CardRemovedEvent](events)
	require.Len(t, removed, 1)
	assert.Equal(t, deck.Player, removed[0].Hand)

	added := eventsOf[CardAddedEvent](events)
	require.Len(t, added, 1)
	assert.Equal(t, deck.SideHand, added[0].Hand)
	assert.Equal(t, removed[0].Card, added[0].Card)
}

func TestEvents_CardsConservedDuringNotifications(t *testing.T) {
	bus := NewEventBus()
	var e *Engine
	checked := 0
	bus.Subscribe(SubscriberFunc(func(ev GameEvent) {
		switch ev.(type) {
		case CardAddedEvent, CardRemovedEvent:
			checked++
			assert.NoError(t, e.CheckCards(), "during %s", ev.EventType())
		}
	}))
	e = riggedEngine(t, "8sTh8d9c", WithEventBus(bus))

	for _, kind := range []CommandKind{SetBet, Split, Hit, Stand, Hit, Stand} {
		mustHandle(t, e, Command{Kind: kind})
	}
	// Four deals, the split move, then one hit on each hand.
	assert.Equal(t, 14, checked)
	assert.Equal(t, Resolved, e.Phase())
}

func TestEvents_BusReceivesReturnedEvents(t *testing.T) {
	bus := NewEventBus()
	sub := &testEventSubscriber{}
	bus.Subscribe(sub)

	e := NewEngine(
		WithLogger(log.New(io.Discard)),
		WithEventBus(bus),
		WithDeckOrder(deck.MustParseCards("Ks8hQdTc")...),
	)
	assert.Same(t, bus, e.EventBus())
	assert.Contains(t, sub.types(), EventTypeRoundStarted, "construction opens the first round")

	sub.events = nil
	events := mustHandle(t, e, Command{Kind: SetBet})
	assert.Equal(t, events, sub.events)

	bus.Unsubscribe(sub)
	mustHandle(t, e, Command{Kind: Stand})
	assert.Len(t, sub.events, len(events))
}

func TestEvents_IllegalCommandPublishesNothing(t *testing.T) {
	bus := NewEventBus()
	e := NewEngine(WithLogger(log.New(io.Discard)), WithEventBus(bus))

	var published int
	bus.Subscribe(SubscriberFunc(func(GameEvent) { published++ }))

	_, err := e.Hit()
	require.ErrorIs(t, err, ErrIllegalCommand)
	assert.Zero(t, published)
}

func TestEvents_TimestampsFollowClock(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	e := riggedEngine(t, "Ks8hQdTc", WithClock(clock))

	start := clock.Now()
	for _, ev := range mustHandle(t, e, Command{Kind: SetBet}) {
		assert.Equal(t, start, ev.Timestamp())
	}

	clock.Advance(2 * time.Second).MustWait(ctx)
	for _, ev := range mustHandle(t, e, Command{Kind: Stand}) {
		assert.Equal(t, start.Add(2*time.Second), ev.Timestamp())
	}
}

func TestEventBus_SubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string
	bus.Subscribe(SubscriberFunc(func(GameEvent) { order = append(order, "first") }))
	bus.Subscribe(SubscriberFunc(func(GameEvent) { order = append(order, "second") }))

	bus.Publish(BetChangedEvent{PendingBet: 20})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "round_resolved", RoundResolvedEvent{}.EventType().String())
	assert.Equal(t, "card_added", CardAddedEvent{}.EventType().String())
}
