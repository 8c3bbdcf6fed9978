package game

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/randutil"
	"github.com/lox/blackjack-cli/internal/stats"
)

func testSession(t *testing.T, chips int) *Session {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	tracker := stats.NewTracker(quartz.NewMock(t))
	return NewSession(SessionConfig{Chips: chips}, randutil.New(1), logger, tracker)
}

// stackDeck rigs the next hand: the listed ranks are dealt in order,
// player first, then dealer.
func stackDeck(s *Session, ranks ...deck.Rank) {
	suits := []deck.Suit{deck.Hearts, deck.Diamonds, deck.Clubs, deck.Spades}
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.NewCard(r, suits[i%len(suits)])
	}
	s.SetDeck(deck.NewStacked(randutil.New(1), cards...))
}

func joined(res Result) string {
	return strings.Join(res.Lines, "\n")
}

func TestStartRejectsWagerOverBalance(t *testing.T) {
	s := testSession(t, 10)
	res := s.Apply(Command{Kind: CmdStart, Wager: 11})

	assert.Contains(t, joined(res), "You cannot wager 11 chips because you only have 10!")
	assert.Equal(t, 10, s.Chips())
	assert.Equal(t, 0, s.Bet())
	assert.Equal(t, OutOfGame, s.Phase())
}

func TestStartRejectsZeroWager(t *testing.T) {
	s := testSession(t, 10)
	res := s.Apply(Command{Kind: CmdStart, Wager: 0})

	assert.Contains(t, joined(res), "You must wager at least 1 chip!")
	assert.Equal(t, 10, s.Chips())
	assert.Equal(t, OutOfGame, s.Phase())
}

func TestStartDealsTwoCardsAndEntersGame(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Five)

	res := s.Apply(Command{Kind: CmdStart, Wager: 4})

	assert.Equal(t, InGame, s.Phase())
	assert.Equal(t, 6, s.Chips())
	assert.Equal(t, 4, s.Bet())
	require.Len(t, s.PlayerHand(), 2)

	out := joined(res)
	assert.Contains(t, out, "You have been dealt the following cards:")
	assert.Contains(t, out, "(down) King of Hearts")
	assert.Contains(t, out, "(up) Five of Diamonds")
	assert.Contains(t, out, "Your hand value is 15!")
}

func TestStartImmediateBlackjack(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.Ace, deck.King)

	res := s.Apply(Command{Kind: CmdStart, Wager: 5})

	assert.Contains(t, joined(res), "Blackjack!")
	assert.Equal(t, OutOfGame, s.Phase())
	assert.Equal(t, 10, s.Chips(), "wager deducted then fully refunded")
	assert.Equal(t, 0, s.Bet())
}

func TestHitBelowTwentyOneStaysInGame(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.Two, deck.Three, deck.Four)
	s.Apply(Command{Kind: CmdStart, Wager: 2})

	res := s.Apply(Command{Kind: CmdHit})

	assert.Contains(t, joined(res), "You have been dealt the Four of Clubs!")
	assert.Contains(t, joined(res), "Your hand value is now 9!")
	assert.Equal(t, InGame, s.Phase())
	assert.Equal(t, 8, s.Chips())
}

func TestHitToExactlyTwentyOneRefundsBet(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.Five, deck.Six, deck.King)
	s.Apply(Command{Kind: CmdStart, Wager: 3})

	res := s.Apply(Command{Kind: CmdHit})

	assert.Contains(t, joined(res), "Blackjack!")
	assert.Equal(t, OutOfGame, s.Phase())
	assert.Equal(t, 10, s.Chips(), "net zero change from pre-bet balance")
	assert.Equal(t, 0, s.Bet())
}

func TestHitBustForfeitsBet(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Queen, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 3})

	res := s.Apply(Command{Kind: CmdHit})

	assert.Contains(t, joined(res), "Bust!")
	assert.Equal(t, OutOfGame, s.Phase())
	assert.Equal(t, 7, s.Chips(), "bet stays forfeited")
	assert.Equal(t, 0, s.Bet())
}

func TestStayDealerBustsPlayerWins(t *testing.T) {
	s := testSession(t, 10)
	// Player: K9 = 19. Dealer: K6 = 16, draws Q and busts at 26.
	stackDeck(s, deck.King, deck.Nine, deck.King, deck.Six, deck.Queen)
	s.Apply(Command{Kind: CmdStart, Wager: 4})

	res := s.Apply(Command{Kind: CmdStay})

	out := joined(res)
	assert.Contains(t, out, "The dealer busts!")
	assert.Contains(t, out, "The dealer's hand value is 26!")
	assert.Equal(t, 14, s.Chips(), "wager paid back doubled")
	assert.Equal(t, OutOfGame, s.Phase())
}

func TestStayDealerStandsImmediatelyAtEighteen(t *testing.T) {
	s := testSession(t, 10)
	// Dealer K8 = 18 >= 17, no further draws. Player 19 wins.
	stackDeck(s, deck.King, deck.Nine, deck.King, deck.Eight, deck.Two)
	s.Apply(Command{Kind: CmdStart, Wager: 4})

	res := s.Apply(Command{Kind: CmdStay})

	require.Len(t, s.DealerHand(), 2)
	assert.Equal(t, 18, Score(s.DealerHand()))
	assert.Contains(t, joined(res), "You beat the dealer!")
	assert.Equal(t, 14, s.Chips())
}

func TestStayDealerDrawsToSeventeenThreshold(t *testing.T) {
	s := testSession(t, 10)
	// Dealer 66 = 12, draws a third six to 18, then stops; the two of
	// spades stays in the deck.
	stackDeck(s, deck.King, deck.Nine, deck.Six, deck.Six, deck.Six, deck.Two)
	s.Apply(Command{Kind: CmdStart, Wager: 2})

	s.Apply(Command{Kind: CmdStay})

	require.Len(t, s.DealerHand(), 3)
	assert.Equal(t, 18, Score(s.DealerHand()))
}

func TestStayPushReturnsWager(t *testing.T) {
	s := testSession(t, 10)
	// Player K8 = 18, dealer T8 = 18.
	stackDeck(s, deck.King, deck.Eight, deck.Ten, deck.Eight)
	s.Apply(Command{Kind: CmdStart, Wager: 4})

	res := s.Apply(Command{Kind: CmdStay})

	assert.Contains(t, joined(res), "Push!")
	assert.Equal(t, 10, s.Chips(), "wager returned without profit")
}

func TestStayDealerWins(t *testing.T) {
	s := testSession(t, 10)
	// Player K7 = 17, dealer K9 = 19.
	stackDeck(s, deck.King, deck.Seven, deck.King, deck.Nine)
	s.Apply(Command{Kind: CmdStart, Wager: 4})

	res := s.Apply(Command{Kind: CmdStay})

	out := joined(res)
	assert.Contains(t, out, "The dealer wins!")
	assert.Contains(t, out, "Your hand:")
	assert.Contains(t, out, "Dealer's hand:")
	assert.Equal(t, 6, s.Chips(), "bet stays forfeited")
}

func TestLeaveForfeitsBet(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 4})

	res := s.Apply(Command{Kind: CmdLeave})

	assert.Contains(t, joined(res), "forfeit your wager of 4 chips")
	assert.Equal(t, OutOfGame, s.Phase())
	assert.Equal(t, 6, s.Chips())
	assert.Equal(t, 0, s.Bet())
	assert.Empty(t, s.DealerHand(), "dealer never plays on leave")
}

func TestChipExhaustionTerminatesSession(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 10})

	res := s.Apply(Command{Kind: CmdLeave})

	assert.True(t, res.Terminate)
	assert.Contains(t, joined(res), "You are out of chips! Game over.")
	assert.Equal(t, 0, s.Chips())
}

func TestBustWhileBrokeTerminates(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Queen, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 10})

	res := s.Apply(Command{Kind: CmdHit})

	assert.True(t, res.Terminate)
	assert.Equal(t, 0, s.Chips())
}

func TestExitQuitsFromEitherPhase(t *testing.T) {
	s := testSession(t, 10)
	assert.True(t, s.Apply(Command{Kind: CmdExit}).Quit)

	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 2})
	assert.True(t, s.Apply(Command{Kind: CmdExit}).Quit)
}

func TestInvalidCommandsForPhase(t *testing.T) {
	s := testSession(t, 10)

	// InGame verbs are invalid while OutOfGame
	for _, kind := range []CommandKind{CmdHit, CmdStay, CmdLeave, CmdHand, CmdUnknown} {
		res := s.Apply(Command{Kind: kind})
		assert.Equal(t, []string{"Invalid command!"}, res.Lines, "kind %s", kind)
	}
	assert.Equal(t, 10, s.Chips())
	assert.Equal(t, OutOfGame, s.Phase())

	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 2})

	// OutOfGame verbs are invalid while InGame
	for _, kind := range []CommandKind{CmdStart, CmdChips, CmdStats, CmdUnknown} {
		res := s.Apply(Command{Kind: kind, Wager: 2})
		assert.Equal(t, []string{"Invalid command!"}, res.Lines, "kind %s", kind)
	}
	assert.Equal(t, InGame, s.Phase())
}

func TestChipsQuery(t *testing.T) {
	s := testSession(t, 10)
	res := s.Apply(Command{Kind: CmdChips})
	assert.Equal(t, []string{"You have 10 chips."}, res.Lines)
}

func TestHandQueryShowsLabelledCards(t *testing.T) {
	s := testSession(t, 10)
	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 2})

	res := s.Apply(Command{Kind: CmdHand})

	out := joined(res)
	assert.Contains(t, out, "(down) King of Hearts")
	assert.Contains(t, out, "(up) Five of Diamonds")
	assert.Contains(t, out, "Your hand value is 15!")
	assert.Equal(t, InGame, s.Phase())
	assert.Equal(t, 8, s.Chips())
}

func TestHelpMenusPerPhase(t *testing.T) {
	s := testSession(t, 10)

	out := joined(s.Apply(Command{Kind: CmdHelp}))
	assert.Contains(t, out, "Command Line Blackjack")
	assert.Contains(t, out, "start <wager>")
	assert.NotContains(t, out, "hit:")

	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 2})

	out = joined(s.Apply(Command{Kind: CmdHelp}))
	assert.Contains(t, out, "hit:")
	assert.Contains(t, out, "stay:")
	assert.NotContains(t, out, "start <wager>")
}

func TestStatsQueryReflectsOutcomes(t *testing.T) {
	s := testSession(t, 10)

	stackDeck(s, deck.King, deck.Five)
	s.Apply(Command{Kind: CmdStart, Wager: 2})
	s.Apply(Command{Kind: CmdLeave})

	out := joined(s.Apply(Command{Kind: CmdStats}))
	assert.Contains(t, out, "Hands played: 1 (won 0, lost 1, pushed 0)")
	assert.Contains(t, out, "Net chips: -2")
}

func TestDeckExhaustionReshufflesTransparently(t *testing.T) {
	s := testSession(t, 10)

	// Leave only two cards before the hand starts; the dealer's draws
	// must survive the empty deck via a reshuffle.
	d := deck.NewStacked(randutil.New(1))
	for i := 0; i < deck.Size-2; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	s.SetDeck(d)

	s.Apply(Command{Kind: CmdStart, Wager: 2})
	res := s.Apply(Command{Kind: CmdStay})

	assert.Equal(t, OutOfGame, s.Phase())
	assert.GreaterOrEqual(t, len(s.DealerHand()), 2)
	assert.NotEmpty(t, res.Lines)
}
