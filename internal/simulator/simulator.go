// Package simulator plays automated blackjack hands to estimate the
// expected value of a fixed stand-at-N strategy under the house rules
// used by the interactive game.
package simulator

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/game"
	"github.com/lox/blackjack-cli/internal/randutil"
)

// Config holds configuration for running simulations
type Config struct {
	Hands   int
	StandAt int // player draws while below this value
	Workers int // 0 means GOMAXPROCS
	Seed    int64
	Logger  *log.Logger
}

// Result aggregates per-hand outcomes across the run
type Result struct {
	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int // hands refunded by reaching 21, dealt or hit
	NetUnits   int // sum of per-hand results in wager units
}

// EV returns the mean result per hand in wager units
func (r *Result) EV() float64 {
	if r.Hands == 0 {
		return 0
	}
	return float64(r.NetUnits) / float64(r.Hands)
}

// WinRate returns the fraction of hands won outright
func (r *Result) WinRate() float64 {
	if r.Hands == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Hands)
}

func (r *Result) add(other Result) {
	r.Hands += other.Hands
	r.Wins += other.Wins
	r.Losses += other.Losses
	r.Pushes += other.Pushes
	r.Blackjacks += other.Blackjacks
	r.NetUnits += other.NetUnits
}

// Simulator runs blackjack hand simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.StandAt <= 0 {
		config.StandAt = game.DealerLimit
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &Simulator{config: config}
}

// Run executes the simulation across parallel workers and returns the
// aggregated results. Each worker owns an independent RNG derived from
// the run seed, so results are reproducible for a fixed seed and
// worker count.
func (s *Simulator) Run() (*Result, error) {
	if s.config.Hands <= 0 {
		return nil, fmt.Errorf("hands must be positive, got %d", s.config.Hands)
	}

	workers := s.config.Workers
	if workers > s.config.Hands {
		workers = s.config.Hands
	}
	perWorker := s.config.Hands / workers
	remainder := s.config.Hands % workers

	seeder := randutil.New(s.config.Seed)

	s.config.Logger.Info("starting simulation",
		"hands", s.config.Hands, "standAt", s.config.StandAt, "workers", workers)

	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan Result, workers)

	for w := 0; w < workers; w++ {
		hands := perWorker
		if w < remainder {
			hands++
		}
		workerSeed := int64(seeder.Uint64())

		g.Go(func() error {
			rng := randutil.New(workerSeed)
			var r Result
			for i := 0; i < hands; i++ {
				r.add(playHand(rng, s.config.StandAt))
			}
			select {
			case results <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	total := &Result{}
	for r := range results {
		total.add(r)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.config.Logger.Info("simulation complete",
		"hands", total.Hands, "ev", fmt.Sprintf("%.4f", total.EV()))
	return total, nil
}

// playHand plays one hand under the interactive game's house rules:
// reaching exactly 21 (dealt or hit) refunds the wager, a player bust
// forfeits it, and otherwise the dealer draws to 17 and the settlement
// table applies at a 1:1 payout.
func playHand(rng *rand.Rand, standAt int) Result {
	r := Result{Hands: 1}
	d := deck.New(rng)

	player := []deck.Card{mustDraw(d), mustDraw(d)}
	if game.Score(player) == game.Blackjack {
		r.Blackjacks++
		r.Pushes++
		return r
	}

	for game.Score(player) < standAt {
		player = append(player, mustDraw(d))
		switch value := game.Score(player); {
		case value > game.Blackjack:
			r.Losses++
			r.NetUnits--
			return r
		case value == game.Blackjack:
			r.Blackjacks++
			r.Pushes++
			return r
		}
	}

	dealer := []deck.Card{mustDraw(d), mustDraw(d)}
	for game.Score(dealer) < game.DealerLimit {
		dealer = append(dealer, mustDraw(d))
	}

	playerValue := game.Score(player)
	dealerValue := game.Score(dealer)
	switch {
	case dealerValue > game.Blackjack || dealerValue < playerValue:
		r.Wins++
		r.NetUnits++
	case dealerValue == playerValue:
		r.Pushes++
	default:
		r.Losses++
		r.NetUnits--
	}
	return r
}

// mustDraw draws from the deck, reshuffling on exhaustion like the
// interactive session does.
func mustDraw(d *deck.Deck) deck.Card {
	card, err := d.Draw()
	if err != nil {
		d.Shuffle()
		card, _ = d.Draw()
	}
	return card
}
