package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack-cli/internal/config"
	"github.com/lox/blackjack-cli/internal/game"
	"github.com/lox/blackjack-cli/internal/randutil"
	"github.com/lox/blackjack-cli/internal/stats"
	"github.com/lox/blackjack-cli/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type PlayCmd struct {
	Chips   int    `help:"Starting chip balance (overrides config)" default:"0"`
	Seed    int64  `help:"RNG seed for reproducible sessions (0 for random)" default:"0"`
	Config  string `help:"Path to HCL config file" default:"blackjack.hcl" type:"path"`
	LogFile string `help:"Session log file (overrides config)"`
	Debug   bool   `short:"d" help:"Debug logging"`
	TUI     bool   `help:"Full-screen TUI instead of the plain prompt"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Chips > 0 {
		cfg.Game.StartingChips = c.Chips
	}
	if c.LogFile != "" {
		cfg.Logging.File = c.LogFile
	}
	if c.Debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Log to a file so the prompt owns stdout
	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	rng := randutil.NewFromSystem()
	if c.Seed != 0 {
		rng = randutil.New(c.Seed)
	}

	tracker := stats.NewTracker(quartz.NewReal())
	session := game.NewSession(game.SessionConfig{Chips: cfg.Game.StartingChips}, rng, logger, tracker)
	logger.Info("session started", "chips", cfg.Game.StartingChips, "seed", c.Seed)

	if c.TUI {
		if err := tui.Run(session, logger); err != nil {
			return fmt.Errorf("tui failed: %w", err)
		}
		logSessionStats(logger, tracker)
		return nil
	}

	return runREPL(session, logger, tracker)
}

// runREPL is the plain prompt loop: one line in, one command applied,
// its output lines printed.
func runREPL(session *game.Session, logger *log.Logger, tracker *stats.Tracker) error {
	fmt.Println(titleStyle.Render(" ♠ ♥ Command Line Blackjack ♦ ♣ "))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			// EOF or unreadable input ends the session
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			logSessionStats(logger, tracker)
			return nil
		}

		cmd, err := game.Parse(scanner.Text())
		if err != nil {
			fmt.Println(err.Error())
			continue
		}

		res := session.Apply(cmd)
		for _, line := range res.Lines {
			fmt.Println(line)
		}
		if res.Quit || res.Terminate {
			logSessionStats(logger, tracker)
			return nil
		}
	}
}

func logSessionStats(logger *log.Logger, tracker *stats.Tracker) {
	logger.Info("session finished",
		"hands", tracker.HandsPlayed,
		"won", tracker.HandsWon,
		"lost", tracker.HandsLost,
		"pushed", tracker.HandsPushed,
		"netChips", tracker.NetChips,
		"duration", tracker.SessionDuration(),
	)
}
