package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/simulator"
)

type SimulateCmd struct {
	Hands   int   `default:"10000" help:"Number of hands to simulate"`
	StandAt int   `default:"17" help:"Player stands at this hand value"`
	Workers int   `default:"0" help:"Parallel workers (0 for GOMAXPROCS)"`
	Seed    int64 `default:"1" help:"RNG seed for reproducible runs"`
	Verbose bool  `help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	sim := simulator.New(simulator.Config{
		Hands:   c.Hands,
		StandAt: c.StandAt,
		Workers: c.Workers,
		Seed:    c.Seed,
		Logger:  logger,
	})

	result, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("Hands:      %d\n", result.Hands)
	fmt.Printf("Wins:       %d (%.1f%%)\n", result.Wins, result.WinRate()*100)
	fmt.Printf("Losses:     %d\n", result.Losses)
	fmt.Printf("Pushes:     %d\n", result.Pushes)
	fmt.Printf("21s hit:    %d\n", result.Blackjacks)
	fmt.Printf("EV/hand:    %+.4f units\n", result.EV())
	return nil
}
