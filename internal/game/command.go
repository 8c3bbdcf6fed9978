package game

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies a parsed command verb
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdExit
	CmdHelp
	CmdChips
	CmdStats
	CmdStart
	CmdHit
	CmdStay
	CmdLeave
	CmdHand
)

func (k CommandKind) String() string {
	return [...]string{"unknown", "exit", "help", "chips", "stats", "start", "hit", "stay", "leave", "hand"}[k]
}

// Command is a tagged command value produced by Parse. Wager is only
// meaningful for CmdStart.
type Command struct {
	Kind  CommandKind
	Wager int
}

// ParseError is a recoverable input-format error. Message is shown to
// the user verbatim; no state change follows.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parse tokenizes one line of input and maps it to a Command. The line
// is split on whitespace and the first token selects the verb. Phase
// legality is not checked here; Session.Apply rejects verbs that make
// no sense for the current phase.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{Kind: CmdUnknown}, nil
	}

	switch tokens[0] {
	case "exit":
		return Command{Kind: CmdExit}, nil
	case "help":
		return Command{Kind: CmdHelp}, nil
	case "chips":
		return Command{Kind: CmdChips}, nil
	case "stats":
		return Command{Kind: CmdStats}, nil
	case "hit":
		return Command{Kind: CmdHit}, nil
	case "stay":
		return Command{Kind: CmdStay}, nil
	case "leave":
		return Command{Kind: CmdLeave}, nil
	case "hand":
		return Command{Kind: CmdHand}, nil
	case "start":
		if len(tokens) != 2 {
			return Command{}, &ParseError{Message: "Usage: start <wager>"}
		}
		wager, err := strconv.ParseUint(tokens[1], 10, 32)
		if err != nil {
			return Command{}, &ParseError{
				Message: fmt.Sprintf("Error: unable to parse wager value - %v", err),
			}
		}
		return Command{Kind: CmdStart, Wager: int(wager)}, nil
	default:
		return Command{Kind: CmdUnknown}, nil
	}
}
