package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
)

// ReshuffleThreshold is the draw pile size below which a new round starts
// from a freshly shuffled deck.
const ReshuffleThreshold = 26

// Engine is the round state machine. It is the single owner of every stack
// and of the ledger, and is not safe for concurrent use: commands are
// processed one at a time, to completion.
type Engine struct {
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	bus    EventBus

	stacks map[deck.StackID]*deck.Stack
	ledger *ledger.Ledger

	state   RoundState
	working *RoundState // copy being mutated by the current command
	pending []GameEvent
	last    *Outcome
}

// Option configures an Engine
type Option func(*engineConfig)

type engineConfig struct {
	logger    *log.Logger
	clock     quartz.Clock
	rng       *rand.Rand
	bus       EventBus
	deckOrder []deck.Card
	purse     int
}

// WithLogger sets the engine's logger
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) Option {
	return func(c *engineConfig) { c.clock = clock }
}

// WithRNG sets the generator used to shuffle the deck
func WithRNG(rng *rand.Rand) Option {
	return func(c *engineConfig) { c.rng = rng }
}

// WithEventBus publishes events on bus instead of a private bus
func WithEventBus(bus EventBus) Option {
	return func(c *engineConfig) { c.bus = bus }
}

// WithDeckOrder rigs the first deck: the given cards are drawn first, in
// order, followed by the remaining cards in ascending order.
func WithDeckOrder(cards ...deck.Card) Option {
	return func(c *engineConfig) { c.deckOrder = cards }
}

// WithPurse overrides the starting purse
func WithPurse(purse int) Option {
	return func(c *engineConfig) { c.purse = purse }
}

// NewEngine creates an engine with a fresh deck, sitting in the betting phase
func NewEngine(opts ...Option) *Engine {
	cfg := engineConfig{
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
		purse:  ledger.StartingPurse,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.New(randutil.Seed(0))
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}

	e := &Engine{
		logger: cfg.logger.WithPrefix("engine"),
		clock:  cfg.clock,
		rng:    cfg.rng,
		bus:    cfg.bus,
		stacks: make(map[deck.StackID]*deck.Stack),
		ledger: ledger.New(cfg.purse),
	}
	for _, id := range []deck.StackID{deck.DeckID, deck.Dealer, deck.Player, deck.SideHand, deck.Discard} {
		s := deck.NewStack(id)
		s.AddListener(e)
		e.stacks[id] = s
	}

	if len(cfg.deckOrder) > 0 {
		e.stacks[deck.DeckID].Absorb(riggedDeck(cfg.deckOrder)...)
	} else {
		e.stacks[deck.DeckID].CreateDeck(e.rng)
	}

	next := e.state
	e.working = &next
	e.startBetPhase(&next)
	e.state = next
	e.working = nil
	e.pending = nil

	return e
}

// riggedDeck puts front on top of the remaining identifiers in ascending order
func riggedDeck(front []deck.Card) []deck.Card {
	used := make(map[deck.Card]bool, len(front))
	cards := make([]deck.Card, 0, deck.NumCards)
	for _, c := range front {
		if c.Valid() && !used[c] {
			used[c] = true
			cards = append(cards, c)
		}
	}
	for c := deck.Card(0); c < deck.NumCards; c++ {
		if !used[c] {
			cards = append(cards, c)
		}
	}
	return cards
}

// EventBus returns the bus events are published on
func (e *Engine) EventBus() EventBus {
	return e.bus
}

// Handle applies one command and returns the events it produced, in order.
// A command outside its valid phase returns ErrIllegalCommand and changes
// nothing.
func (e *Engine) Handle(cmd Command) ([]GameEvent, error) {
	if !e.isLegal(cmd.Kind) {
		e.logger.Debug("Ignoring illegal command", "command", cmd, "phase", e.state.Phase)
		return nil, fmt.Errorf("%w: %s during %s", ErrIllegalCommand, cmd, e.state.Phase)
	}

	next := e.state
	e.working = &next
	defer func() { e.working = nil }()

	var err error
	switch cmd.Kind {
	case RaiseBet:
		pending := e.ledger.RaiseBet(cmd.Amount)
		if cmd.Amount <= 0 {
			e.logger.Warn("Ignoring non-positive raise", "amount", cmd.Amount)
		}
		e.emit(BetChangedEvent{stamp: e.now(), PendingBet: pending})
	case ResetBet:
		e.ledger.InitializeBet()
		e.emit(BetChangedEvent{stamp: e.now(), PendingBet: e.ledger.PendingBet()})
	case SetBet:
		err = e.setBet(&next)
	case Hit:
		err = e.hit(&next)
	case Stand:
		err = e.stand(&next)
	case Split:
		err = e.split(&next)
	case Double:
		err = e.double(&next)
	case PlayAgain:
		e.playAgain(&next)
	}

	events := e.pending
	e.pending = nil
	if err != nil {
		e.logger.Error("Command failed", "command", cmd, "error", err)
		return events, fmt.Errorf("%s: %w", cmd, err)
	}

	e.state = next
	return events, nil
}

func (e *Engine) SetBet() ([]GameEvent, error)             { return e.Handle(Command{Kind: SetBet}) }
func (e *Engine) RaiseBet(amount int) ([]GameEvent, error) { return e.Handle(Raise(amount)) }
func (e *Engine) ResetBet() ([]GameEvent, error)           { return e.Handle(Command{Kind: ResetBet}) }
func (e *Engine) Hit() ([]GameEvent, error)                { return e.Handle(Command{Kind: Hit}) }
func (e *Engine) Stand() ([]GameEvent, error)              { return e.Handle(Command{Kind: Stand}) }
func (e *Engine) Split() ([]GameEvent, error)              { return e.Handle(Command{Kind: Split}) }
func (e *Engine) Double() ([]GameEvent, error)             { return e.Handle(Command{Kind: Double}) }
func (e *Engine) PlayAgain() ([]GameEvent, error)          { return e.Handle(Command{Kind: PlayAgain}) }

func (e *Engine) isLegal(kind CommandKind) bool {
	s := e.state
	switch kind {
	case RaiseBet, ResetBet, SetBet:
		return s.Phase == Betting
	case Hit, Stand:
		return s.Phase == PlayerTurn || s.Phase == SideHandTurn
	case Split:
		return s.Phase == PlayerTurn && s.FirstDecision && !s.SplitActive &&
			rules.CanSplit(e.stacks[deck.Player].Cards()) && e.ledger.CanCoverPot()
	case Double:
		return s.Phase == PlayerTurn && s.FirstDecision && !s.SplitActive &&
			rules.CanDouble(e.stacks[deck.Player].Cards())
	case PlayAgain:
		return s.Phase == Resolved
	}
	return false
}

// startBetPhase clears the table for a new round and opens betting
func (e *Engine) startBetPhase(s *RoundState) {
	discard := e.stacks[deck.Discard]
	for _, id := range []deck.StackID{deck.Player, deck.Dealer, deck.SideHand} {
		cleared := e.stacks[id].Reset()
		if len(cleared) > 0 {
			discard.Absorb(cleared...)
			e.emit(HandClearedEvent{stamp: e.now(), Hand: id})
		}
	}

	if draw := e.stacks[deck.DeckID]; draw.Count() < ReshuffleThreshold {
		draw.Reset()
		discard.Reset()
		draw.CreateDeck(e.rng)
		e.logger.Debug("Reshuffled deck")
		e.emit(DeckShuffledEvent{stamp: e.now(), Cards: draw.Count()})
	}

	e.ledger.ClearPot()
	e.ledger.InitializeBet()

	*s = RoundState{
		Phase:   s.Phase,
		RoundID: newRoundID(),
	}
	e.setPhase(s, Betting)
	e.emit(RoundStartedEvent{stamp: e.now(), RoundID: s.RoundID, Purse: e.ledger.Purse(), PendingBet: e.ledger.PendingBet()})
}

func newRoundID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (e *Engine) setBet(s *RoundState) error {
	purse := e.ledger.ConfirmBet()
	e.emit(BetConfirmedEvent{stamp: e.now(), Purse: purse, Pot: e.ledger.Pot()})
	e.logger.Debug("Bet confirmed", "round", s.RoundID, "pot", e.ledger.Pot(), "purse", purse)

	e.setPhase(s, Dealing)
	for i := 0; i < 2; i++ {
		if err := e.draw(deck.Player); err != nil {
			return err
		}
		if err := e.hitDealer(s); err != nil {
			return err
		}
	}

	dealer := rules.HandValue(e.stacks[deck.Dealer].Cards())
	player := rules.HandValue(e.stacks[deck.Player].Cards())
	if m, ok := rules.FindNatural(dealer, player); ok {
		s.Natural = true
		e.revealHole(s)
		e.resolve(s, []rules.Multiplier{m})
		return nil
	}

	s.FirstDecision = true
	e.setPhase(s, PlayerTurn)
	e.emit(ActiveHandChangedEvent{stamp: e.now(), Hand: deck.Player})
	return nil
}

func (e *Engine) hit(s *RoundState) error {
	active := s.ActiveHand()
	s.FirstDecision = false
	if err := e.draw(active); err != nil {
		return err
	}
	if rules.IsBust(e.stacks[active].Cards()) {
		e.logger.Debug("Hand busts", "hand", active, "total", rules.HandValue(e.stacks[active].Cards()))
		return e.endActiveHand(s)
	}
	return nil
}

func (e *Engine) stand(s *RoundState) error {
	s.FirstDecision = false
	return e.endActiveHand(s)
}

// endActiveHand moves from the primary hand to the side hand of a split, or
// on to the dealer.
func (e *Engine) endActiveHand(s *RoundState) error {
	if s.SplitActive && !s.SideHandActive {
		s.SideHandActive = true
		e.setPhase(s, SideHandTurn)
		e.emit(ActiveHandChangedEvent{stamp: e.now(), Hand: deck.SideHand})
		return nil
	}
	return e.dealerTurn(s)
}

func (e *Engine) split(s *RoundState) error {
	if _, err := e.stacks[deck.Player].DrawSecond(e.stacks[deck.SideHand]); err != nil {
		return fmt.Errorf("split: %w", err)
	}
	e.ledger.Split()

	s.SplitActive = true
	s.FirstDecision = false
	e.emit(HandSplitEvent{stamp: e.now(), Purse: e.ledger.Purse(), Pot: e.ledger.Pot()})
	e.logger.Debug("Split", "round", s.RoundID, "purse", e.ledger.Purse())
	return nil
}

func (e *Engine) double(s *RoundState) error {
	e.ledger.Double()
	s.Doubled = true
	s.FirstDecision = false
	e.emit(PotDoubledEvent{stamp: e.now(), Purse: e.ledger.Purse(), Pot: e.ledger.Pot()})
	e.logger.Debug("Double", "round", s.RoundID, "pot", e.ledger.Pot())

	if err := e.draw(deck.Player); err != nil {
		return err
	}
	return e.dealerTurn(s)
}

// dealerTurn reveals the hole card and draws to 17. The dealer does not draw
// once the primary hand has busted.
func (e *Engine) dealerTurn(s *RoundState) error {
	e.setPhase(s, DealerTurn)
	e.revealHole(s)

	dealer := e.stacks[deck.Dealer]
	player := e.stacks[deck.Player]
	for rules.HandValue(dealer.Cards()) < rules.DealerStand && rules.HandValue(player.Cards()) <= rules.Blackjack {
		if err := e.hitDealer(s); err != nil {
			return err
		}
	}

	dealerTotal := rules.HandValue(dealer.Cards())
	results := []rules.Multiplier{rules.DetermineWinner(dealerTotal, rules.HandValue(player.Cards()))}
	if s.SplitActive {
		results = append(results, rules.DetermineWinner(dealerTotal, rules.HandValue(e.stacks[deck.SideHand].Cards())))
	}
	e.resolve(s, results)
	return nil
}

// resolve pays each hand and closes the round. results[0] is the primary
// hand, results[1] the side hand of a split.
func (e *Engine) resolve(s *RoundState, results []rules.Multiplier) {
	dealer := e.stacks[deck.Dealer].Cards()
	outcome := Outcome{
		RoundID:     s.RoundID,
		Stake:       e.ledger.Pot(),
		Wagered:     e.ledger.Wagered(),
		Natural:     s.Natural,
		Split:       s.SplitActive,
		Doubled:     s.Doubled,
		DealerCards: dealer,
		DealerTotal: rules.HandValue(dealer),
	}

	hands := []deck.StackID{deck.Player, deck.SideHand}
	for i, m := range results {
		cards := e.stacks[hands[i]].Cards()
		outcome.Hands = append(outcome.Hands, HandResult{
			Hand:       hands[i],
			Cards:      cards,
			Total:      rules.HandValue(cards),
			Multiplier: m,
			Paid:       e.ledger.Payout(m),
		})
	}
	outcome.Purse = e.ledger.Purse()
	e.last = &outcome

	e.setPhase(s, Resolved)
	e.emit(RoundResolvedEvent{stamp: e.now(), Outcome: outcome})
	e.logger.Info("Round resolved",
		"round", s.RoundID,
		"dealer", outcome.DealerTotal,
		"natural", outcome.Natural,
		"split", outcome.Split,
		"net", outcome.Net(),
		"purse", outcome.Purse)
}

func (e *Engine) playAgain(s *RoundState) {
	switch {
	case s.InsufficientFunds:
		e.ledger.Replenish()
		e.emit(PurseReplenishedEvent{stamp: e.now(), Purse: e.ledger.Purse()})
		e.logger.Info("Purse replenished", "purse", e.ledger.Purse())
		e.startBetPhase(s)
	case e.ledger.Insufficient():
		s.InsufficientFunds = true
		e.emit(InsufficientFundsEvent{stamp: e.now(), Purse: e.ledger.Purse()})
		e.logger.Info("Insufficient funds for minimum bet", "purse", e.ledger.Purse())
	default:
		e.startBetPhase(s)
	}
}

func (e *Engine) draw(to deck.StackID) error {
	if _, err := e.stacks[deck.DeckID].DrawFront(e.stacks[to]); err != nil {
		return fmt.Errorf("deal to %s: %w", to, err)
	}
	return nil
}

// hitDealer deals to the dealer, remembering the first card as the hole card
func (e *Engine) hitDealer(s *RoundState) error {
	if card, ok := e.stacks[deck.DeckID].Front(); ok && !s.HoleDealt {
		s.HoleCard = card
		s.HoleDealt = true
	}
	return e.draw(deck.Dealer)
}

func (e *Engine) revealHole(s *RoundState) {
	if !s.HoleDealt || s.HoleRevealed {
		return
	}
	s.HoleRevealed = true
	e.emit(HoleCardRevealedEvent{stamp: e.now(), Card: s.HoleCard})
}

func (e *Engine) setPhase(s *RoundState, to Phase) {
	from := s.Phase
	s.Phase = to
	e.logger.Debug("Phase change", "from", from, "to", to)
	e.emit(PhaseChangedEvent{stamp: e.now(), From: from, To: to})
}

func (e *Engine) now() stamp {
	return stamp{at: e.clock.Now()}
}

// emit publishes an event and queues it for the current command's result
func (e *Engine) emit(event GameEvent) {
	e.pending = append(e.pending, event)
	e.bus.Publish(event)
}

// CardAdded implements deck.Listener
func (e *Engine) CardAdded(id deck.StackID, card deck.Card) {
	faceDown := false
	if id == deck.Dealer && e.working != nil {
		s := e.working
		faceDown = s.HoleDealt && !s.HoleRevealed && s.HoleCard == card
	}
	e.emit(CardAddedEvent{stamp: e.now(), Hand: id, Card: card, FaceDown: faceDown})
}

// CardRemoved implements deck.Listener
func (e *Engine) CardRemoved(id deck.StackID, card deck.Card) {
	e.emit(CardRemovedEvent{stamp: e.now(), Hand: id, Card: card})
}
