package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/stats"
)

// Phase represents the current game phase
type Phase int

const (
	OutOfGame Phase = iota
	InGame
)

func (p Phase) String() string {
	return [...]string{"out-of-game", "in-game"}[p]
}

// DefaultChips is the starting chip balance
const DefaultChips = 10

var helpHeader = []string{
	"-----------------------",
	"Command Line Blackjack",
	"-----------------------",
	"Available commands",
}

// SessionConfig holds the tunable session parameters
type SessionConfig struct {
	Chips int
}

// Session holds the state of one blackjack session: the chip balance,
// the current wager, the live deck, both hands and the current phase.
// All mutation happens through Apply; the zero wager invariant (bet is
// 0 whenever the phase is OutOfGame) is maintained there.
type Session struct {
	chips  int
	bet    int
	phase  Phase
	deck   *deck.Deck
	player []deck.Card
	dealer []deck.Card

	// nextDeck, when set, replaces the freshly shuffled deck at the
	// next start. Tests use it to rig card order.
	nextDeck *deck.Deck

	rng     *rand.Rand
	logger  *log.Logger
	tracker *stats.Tracker
}

// Result is the outcome of applying one command
type Result struct {
	Lines     []string
	Quit      bool // exit command; front-end exits 0
	Terminate bool // chips exhausted; front-end prints and exits 0
}

// NewSession creates a session in OutOfGame with the configured chip
// balance. The RNG is owned by the session and reused across hands so
// successive shuffles are not correlated.
func NewSession(cfg SessionConfig, rng *rand.Rand, logger *log.Logger, tracker *stats.Tracker) *Session {
	chips := cfg.Chips
	if chips <= 0 {
		chips = DefaultChips
	}
	return &Session{
		chips:   chips,
		phase:   OutOfGame,
		rng:     rng,
		logger:  logger.WithPrefix("session"),
		tracker: tracker,
	}
}

// Chips returns the current chip balance
func (s *Session) Chips() int {
	return s.chips
}

// Bet returns the current wager (0 while OutOfGame)
func (s *Session) Bet() int {
	return s.bet
}

// Phase returns the current game phase
func (s *Session) Phase() Phase {
	return s.phase
}

// PlayerHand returns the player's current cards
func (s *Session) PlayerHand() []deck.Card {
	return s.player
}

// DealerHand returns the dealer's cards from the last settlement
func (s *Session) DealerHand() []deck.Card {
	return s.dealer
}

// Tracker returns the session statistics tracker
func (s *Session) Tracker() *stats.Tracker {
	return s.tracker
}

// SetDeck installs the deck dealt by the next start. Tests use this
// with deck.NewStacked for deterministic hands.
func (s *Session) SetDeck(d *deck.Deck) {
	s.nextDeck = d
}

// Apply executes one command against the current phase and returns the
// output lines. Commands that are not legal in the current phase fall
// through to the invalid branch without touching any state.
func (s *Session) Apply(cmd Command) Result {
	if cmd.Kind == CmdExit {
		s.logger.Info("session ended by player", "chips", s.chips)
		return Result{Quit: true}
	}

	switch s.phase {
	case OutOfGame:
		switch cmd.Kind {
		case CmdHelp:
			return Result{Lines: s.helpMenu()}
		case CmdChips:
			return Result{Lines: []string{fmt.Sprintf("You have %d chips.", s.chips)}}
		case CmdStats:
			return Result{Lines: s.tracker.Summary()}
		case CmdStart:
			return s.start(cmd.Wager)
		}
	case InGame:
		switch cmd.Kind {
		case CmdHelp:
			return Result{Lines: s.helpMenu()}
		case CmdHand:
			return Result{Lines: s.renderPlayerHand()}
		case CmdHit:
			return s.hit()
		case CmdStay:
			return s.stay()
		case CmdLeave:
			return s.leave()
		}
	}

	return Result{Lines: []string{"Invalid command!"}}
}

// start deducts the wager, deals the opening hand and enters InGame,
// unless the two cards already make 21, which settles immediately.
func (s *Session) start(wager int) Result {
	if wager == 0 {
		return Result{Lines: []string{"You must wager at least 1 chip!"}}
	}
	if wager > s.chips {
		return Result{Lines: []string{
			fmt.Sprintf("You cannot wager %d chips because you only have %d!", wager, s.chips),
		}}
	}

	s.chips -= wager
	s.bet = wager
	if s.nextDeck != nil {
		s.deck = s.nextDeck
		s.nextDeck = nil
	} else {
		s.deck = deck.New(s.rng)
	}
	s.player = s.player[:0]
	s.dealer = s.dealer[:0]
	s.tracker.HandStarted()

	down := s.draw()
	up := s.draw()
	s.player = append(s.player, down, up)
	value := Score(s.player)

	s.logger.Info("hand started", "wager", wager, "chips", s.chips, "value", value)

	lines := []string{
		"You have been dealt the following cards:",
		fmt.Sprintf("(down) %s", down),
		fmt.Sprintf("(up) %s", up),
		"",
		fmt.Sprintf("Your hand value is %d!", value),
	}

	if value == Blackjack {
		// Dealt 21 outright: the wager comes straight back and the
		// dealer never plays.
		s.chips += s.bet
		s.logger.Info("blackjack on deal", "wager", s.bet, "chips", s.chips)
		lines = append(lines,
			"",
			fmt.Sprintf("Blackjack! Your wager of %d chips is returned.", s.bet),
		)
		s.finishHand(stats.BlackjackWin, 0)
		return Result{Lines: lines}
	}

	s.phase = InGame
	lines = append(lines,
		"",
		"You can now choose from the following actions:",
		"- hit: Have the dealer give you another card. Don't go over 21, though!",
		"- stay: Keep your current hand value and let the dealer play.",
		"",
		"To view more options, you can type \"help\".",
	)
	return Result{Lines: lines}
}

// hit draws one card and settles immediately on 21 or a bust
func (s *Session) hit() Result {
	card := s.draw()
	s.player = append(s.player, card)
	value := Score(s.player)

	s.logger.Debug("player hits", "card", card, "value", value)

	lines := []string{
		fmt.Sprintf("You have been dealt the %s!", card),
		fmt.Sprintf("Your hand value is now %d!", value),
	}

	switch {
	case value > Blackjack:
		bet := s.bet
		lines = append(lines, fmt.Sprintf("Bust! You forfeit your wager of %d chips.", bet))
		s.finishHand(stats.Lost, -bet)
		return s.checkBroke(lines)
	case value == Blackjack:
		s.chips += s.bet
		lines = append(lines, fmt.Sprintf("Blackjack! Your wager of %d chips is returned.", s.bet))
		s.finishHand(stats.BlackjackWin, 0)
		return Result{Lines: lines}
	default:
		return Result{Lines: lines}
	}
}

// stay runs the dealer and settles the wager. The dealer takes two
// cards from the live deck and keeps drawing below DealerLimit, blind
// to the player's hand.
func (s *Session) stay() Result {
	s.dealer = s.dealer[:0]
	s.dealer = append(s.dealer, s.draw(), s.draw())
	for Score(s.dealer) < DealerLimit {
		s.dealer = append(s.dealer, s.draw())
	}

	playerValue := Score(s.player)
	dealerValue := Score(s.dealer)

	s.logger.Info("dealer played", "dealer", dealerValue, "player", playerValue, "cards", len(s.dealer))

	lines := append(s.renderPlayerHand(), "")
	lines = append(lines, "Dealer's hand:")
	for _, c := range s.dealer {
		lines = append(lines, c.String())
	}
	lines = append(lines, fmt.Sprintf("The dealer's hand value is %d!", dealerValue), "")

	bet := s.bet
	switch {
	case dealerValue > Blackjack:
		s.chips += bet * 2
		lines = append(lines, fmt.Sprintf("The dealer busts! You win %d chips!", bet*2))
		s.finishHand(stats.Won, bet)
	case dealerValue < playerValue:
		s.chips += bet * 2
		lines = append(lines, fmt.Sprintf("You beat the dealer! You win %d chips!", bet*2))
		s.finishHand(stats.Won, bet)
	case dealerValue == playerValue:
		s.chips += bet
		lines = append(lines, fmt.Sprintf("Push! Your wager of %d chips is returned.", bet))
		s.finishHand(stats.Pushed, 0)
	default:
		lines = append(lines, fmt.Sprintf("The dealer wins! You lose your wager of %d chips.", bet))
		s.finishHand(stats.Lost, -bet)
	}

	return s.checkBroke(lines)
}

// leave abandons the hand; the wager is forfeit and the dealer never plays
func (s *Session) leave() Result {
	bet := s.bet
	s.logger.Info("player leaves hand", "forfeit", bet)
	lines := []string{fmt.Sprintf("You leave the hand and forfeit your wager of %d chips.", bet)}
	s.finishHand(stats.Lost, -bet)
	return s.checkBroke(lines)
}

// finishHand records the outcome and returns to OutOfGame
func (s *Session) finishHand(outcome stats.Outcome, netChips int) {
	s.tracker.HandFinished(outcome, netChips)
	s.bet = 0
	s.phase = OutOfGame
}

// checkBroke appends the session-loss banner when the chips are gone.
// Only called on paths that just returned to OutOfGame.
func (s *Session) checkBroke(lines []string) Result {
	if s.chips > 0 {
		return Result{Lines: lines}
	}
	s.logger.Info("chips exhausted, session over", "hands", s.tracker.HandsPlayed)
	lines = append(lines, "", "You are out of chips! Game over.")
	return Result{Lines: lines, Terminate: true}
}

// draw takes the top card, transparently reshuffling when the deck is
// exhausted. There is no discard pile in this game, so a reshuffle is
// simply a fresh 52-card deck.
func (s *Session) draw() deck.Card {
	card, err := s.deck.Draw()
	if errors.Is(err, deck.ErrEmptyDeck) {
		s.logger.Warn("deck exhausted mid-hand, reshuffling")
		s.deck.Shuffle()
		card, _ = s.deck.Draw()
	}
	return card
}

// renderPlayerHand renders the player's hand one card per line with the
// conventional (down)/(up) labels and a value summary. Labels are a
// display convention only; every card counts toward the value.
func (s *Session) renderPlayerHand() []string {
	lines := []string{"Your hand:"}
	for i, c := range s.player {
		label := "(up)"
		if i == 0 {
			label = "(down)"
		}
		lines = append(lines, fmt.Sprintf("%s %s", label, c))
	}
	return append(lines, fmt.Sprintf("Your hand value is %d!", Score(s.player)))
}

func (s *Session) helpMenu() []string {
	lines := append([]string{}, helpHeader...)
	switch s.phase {
	case OutOfGame:
		lines = append(lines,
			"chips: Show your chip balance.",
			"exit: End the game.",
			"start <wager>: Start a new hand with the given wager.",
			"stats: Show session statistics.",
		)
	case InGame:
		lines = append(lines,
			"exit: End the game.",
			"hand: Show your current hand.",
			"hit: Have the dealer give you another card. Don't go over 21, though!",
			"leave: Leave the current hand.",
			"stay: Keep your current hand value and let the dealer play.",
		)
	}
	return lines
}
