// Package game implements the core blackjack game logic.
//
// The main type is Session, which holds the chip balance, the current
// wager, the live deck and both hands, and steps through the two game
// phases (OutOfGame, InGame) one command at a time.
//
// # Basic Usage
//
// Parse a line of input and apply it:
//
//	s := game.NewSession(game.SessionConfig{Chips: 10}, rng, logger)
//	cmd, err := game.Parse("start 5")
//	// Handle parse errors...
//	res := s.Apply(cmd)
//	// res.Lines holds the output; res.Quit / res.Terminate end the session.
//
// # Deterministic Testing
//
// Session draws every card from its deck, so tests rig outcomes by
// injecting a stacked deck:
//
//	d := deck.NewStacked(rng, cards...)
//	s.SetDeck(d)
//
// # Architecture
//
// Session delegates to specialized pieces:
//   - Score: blackjack hand value with the incremental soft-ace policy
//   - Parse: raw input line to a tagged Command
//   - deck.Deck: shuffled cards with RNG injection
//   - stats.Tracker: per-session outcome counters
//
// Apply never performs I/O; front-ends (the REPL loop, the TUI) print
// the returned lines however they like.
package game
