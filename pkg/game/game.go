package game

import (
	"io"
	"math/rand"
	"strings"
)

// Metadata is the static description of a rules engine, shared by every state it constructs
type Metadata struct {
	Name string
	// Allowed number of seats in a single match
	MinPlayers int
	MaxPlayers int
	// Arity used by tournaments when none is requested
	DefaultArity int
	// Recognized diagnostics a bot may print on its error stream
	WarningTokens []string
}

// Rules builds game states from configuration strings
type Rules interface {
	Metadata() Metadata
	// Draw a configuration string, using only the given generator
	RandomConfiguration(rng *rand.Rand) string
	// Build a fresh state from a configuration string
	Construct(config string) (State, error)
}

// State is a single game instance. The arena never looks inside, it only calls these
// operations from the match's control goroutine.
type State interface {
	// Lines sent once to the player before the first turn
	InitInputs(player int) []string
	CurrentPlayer() int
	IsActive() bool
	// Lines sent to the current player at the beginning of its turn
	TurnInputs(player int) []string
	// Check and clean the raw output of the current player
	ValidateOutput(lines []string) Verdict
	// Apply the cleaned action, an empty action means the player made none (it was eliminated)
	ProcessOutput(player int, action string)
	// Score of every seat, higher is better
	ScoreGame() []float64
}

// Printer is implemented by states that can render themselves for debugging
type Printer interface {
	PrintGame(w io.Writer)
}

// Verdict is the result of validating one turn's output
type Verdict struct {
	Action     string
	Diagnostic string
	Valid      bool
}

// IsWarning reports whether the error stream line is one of the recognized warning tokens,
// either as a whole or by its first field
func (m Metadata) IsWarning(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	first := strings.Fields(line)[0]
	for _, token := range m.WarningTokens {
		if line == token || first == token {
			return true
		}
	}
	return false
}

// CheckArity returns a configuration error if the number of seats is not supported
func (m Metadata) CheckArity(k int) error {
	if k < m.MinPlayers || k > m.MaxPlayers {
		return NewConfigurationError("arity", "%s supports %d-%d players, got %d",
			m.Name, m.MinPlayers, m.MaxPlayers, k)
	}
	return nil
}
