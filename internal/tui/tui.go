// Package tui provides a Bubble Tea front-end around the blackjack
// session. It is a thin message pump: every entered line goes through
// the same Parse/Apply pair the plain REPL uses, and the returned lines
// land in a scrollable game log.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/deck"
	"github.com/lox/blackjack-cli/internal/game"
)

// Model is the Bubble Tea model for the blackjack game
type Model struct {
	session *game.Session
	logger  *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	gameLog []string
	done    bool // session over (exit or chips exhausted)

	width       int
	height      int
	initialized bool
}

// New creates a TUI model wrapping the given session
func New(session *game.Session, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter a command (start 5, hit, stay, help, ...)"
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		gameLog:     []string{"Welcome to Command Line Blackjack! Type \"help\" for commands."},
	}
}

// Run starts the TUI and blocks until the session ends
func Run(session *game.Session, logger *log.Logger) error {
	p := tea.NewProgram(New(session, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			if m.done {
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			m.submit(line)
			if m.done {
				m.appendLog("", "Press enter to quit.")
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	if !m.done {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit runs one command line through the session
func (m *Model) submit(line string) {
	m.appendLog("> " + line)

	cmd, err := game.Parse(line)
	if err != nil {
		m.appendLog(ErrorStyle.Render(err.Error()))
		return
	}

	res := m.session.Apply(cmd)
	m.appendLog(res.Lines...)
	if res.Quit || res.Terminate {
		m.logger.Info("session over", "terminate", res.Terminate)
		m.done = true
	}
}

func (m *Model) appendLog(lines ...string) {
	m.gameLog = append(m.gameLog, lines...)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	m.logViewport.GotoBottom()
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.logViewport.Width = m.width - 2
	m.logViewport.Height = m.height - 6
	m.input.Width = m.width - 6
	m.initialized = true
}

// View renders the TUI
func (m *Model) View() string {
	if !m.initialized {
		return "Loading..."
	}

	header := HeaderStyle.Render(" ♠ ♥ Command Line Blackjack ♦ ♣ ")
	status := m.renderStatus()

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width)
	inputView := m.input.View()
	if m.done {
		inputView = InfoStyle.Render("(session over)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		logStyle.Render(m.logViewport.View()),
		inputView,
	)
}

// renderStatus shows the chip balance, the live wager and the hand
func (m *Model) renderStatus() string {
	parts := []string{ChipsStyle.Render(fmt.Sprintf("Chips: %d", m.session.Chips()))}
	if m.session.Phase() == game.InGame {
		parts = append(parts, fmt.Sprintf("Bet: %d", m.session.Bet()))
		parts = append(parts, "Hand: "+renderCards(m.session.PlayerHand()))
		parts = append(parts, fmt.Sprintf("Value: %d", game.Score(m.session.PlayerHand())))
	}
	return InfoStyle.Render(strings.Join(parts, "  │  "))
}

// renderCards renders a hand in compact form with red/black styling
func renderCards(cards []deck.Card) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			rendered[i] = RedCardStyle.Render(c.Short())
		} else {
			rendered[i] = BlackCardStyle.Render(c.Short())
		}
	}
	return strings.Join(rendered, " ")
}
