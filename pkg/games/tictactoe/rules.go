package tictactoe

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/IlikeChooros/go-arena/pkg/game"
)

const (
	Name = "tictactoe"

	// Resignation, always legal
	ActionResign = "RESIGN"

	// Number of random moves at most played before the bots take over
	maxOpeningMoves = 2
)

var WarningTokens = []string{"OUT OF TIME", "OUT_OF_TIME:", "Warning:"}

func init() {
	game.Register(Rules{})
}

// Rules of two-player tic-tac-toe. Seat 'first' plays cross and moves first.
//
// Configuration: "opening=<sq>,<sq>;first=<seat>", where the opening squares
// are already played when the bots start.
type Rules struct{}

func (Rules) Metadata() game.Metadata {
	return game.Metadata{
		Name:          Name,
		MinPlayers:    2,
		MaxPlayers:    2,
		DefaultArity:  2,
		WarningTokens: WarningTokens,
	}
}

func (Rules) RandomConfiguration(rng *rand.Rand) string {
	pos := NewPosition()
	n := rng.Intn(maxOpeningMoves + 1)
	opening := make([]string, 0, n)
	for range n {
		moves := pos.GenerateMoves().Slice()
		sq := moves[rng.Intn(len(moves))]
		pos.MakeMove(sq)
		opening = append(opening, strconv.Itoa(int(sq)))
	}
	return fmt.Sprintf("opening=%s;first=%d", strings.Join(opening, ","), rng.Intn(2))
}

func (Rules) Construct(config string) (game.State, error) {
	opening, first, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	pos := NewPosition()
	for _, sq := range opening {
		if !pos.GenerateMoves().Contains(sq) {
			return nil, game.NewConfigurationError("opening", "square %d is not playable in %q", sq, config)
		}
		pos.MakeMove(sq)
	}
	return &State{pos: pos, first: first, config: config}, nil
}

func parseConfig(config string) (opening []Square, first int, err error) {
	seen := map[string]bool{}
	for _, part := range strings.Split(config, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, 0, game.NewConfigurationError("config", "malformed entry %q", part)
		}
		seen[key] = true

		switch key {
		case "opening":
			if value == "" {
				continue
			}
			for _, f := range strings.Split(value, ",") {
				n, perr := strconv.Atoi(f)
				if perr != nil || n < 0 || n > 8 {
					return nil, 0, game.NewConfigurationError("opening", "bad square %q", f)
				}
				opening = append(opening, Square(n))
			}
			if len(opening) > maxOpeningMoves {
				return nil, 0, game.NewConfigurationError("opening", "at most %d moves, got %d", maxOpeningMoves, len(opening))
			}
		case "first":
			first, err = strconv.Atoi(value)
			if err != nil || (first != 0 && first != 1) {
				return nil, 0, game.NewConfigurationError("first", "seat must be 0 or 1, got %q", value)
			}
		default:
			return nil, 0, game.NewConfigurationError("config", "unknown key %q", key)
		}
	}

	if !seen["first"] {
		return nil, 0, game.NewConfigurationError("first", "missing in %q", config)
	}
	return opening, first, nil
}

// State of one tic-tac-toe game
type State struct {
	pos    *Position
	first  int
	config string
}

func (s *State) mark(player int) Mark {
	if player == s.first {
		return Cross
	}
	return Circle
}

func (s *State) seat(m Mark) int {
	if m == Cross {
		return s.first
	}
	return 1 - s.first
}

func (s *State) InitInputs(player int) []string {
	return []string{"3", s.mark(player).String()}
}

func (s *State) CurrentPlayer() int {
	if s.pos.Turn() == CrossTurn {
		return s.seat(Cross)
	}
	return s.seat(Circle)
}

func (s *State) IsActive() bool {
	return !s.pos.IsTerminated()
}

func (s *State) TurnInputs(player int) []string {
	moves := s.pos.GenerateMoves().Slice()
	lines := append(s.pos.Rows(), strconv.Itoa(len(moves)))
	for _, sq := range moves {
		col, row := sq.Coords()
		lines = append(lines, fmt.Sprintf("%d %d", col, row))
	}
	return lines
}

// Expected output: "<col> <row> [message]" or "RESIGN"
func (s *State) ValidateOutput(lines []string) game.Verdict {
	if len(lines) == 0 {
		return game.Verdict{Diagnostic: "did not provide any output. (CRASHED?)"}
	}

	raw := strings.TrimSpace(lines[0])
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return game.Verdict{Diagnostic: fmt.Sprintf("played %q which is not a valid move.", raw)}
	}
	if fields[0] == ActionResign {
		return game.Verdict{Action: ActionResign, Valid: true, Diagnostic: strings.Join(fields[1:], " ")}
	}
	if len(fields) < 2 {
		return game.Verdict{Diagnostic: fmt.Sprintf("played %q which is not a valid move.", raw)}
	}

	col, cerr := strconv.Atoi(fields[0])
	row, rerr := strconv.Atoi(fields[1])
	if cerr != nil || rerr != nil {
		return game.Verdict{Diagnostic: fmt.Sprintf("played %q which is not a valid move.", raw)}
	}

	sq := SquareAt(col, row)
	if sq == SquareIllegal || !s.pos.GenerateMoves().Contains(sq) {
		return game.Verdict{Diagnostic: fmt.Sprintf("played %q which is not in list of legal moves.", raw)}
	}

	return game.Verdict{
		Action:     fmt.Sprintf("%d %d", col, row),
		Diagnostic: strings.Join(fields[2:], " "),
		Valid:      true,
	}
}

// An empty action, or RESIGN, ends the game in favour of the other seat
func (s *State) ProcessOutput(player int, action string) {
	if player != s.CurrentPlayer() || s.pos.IsTerminated() {
		return
	}
	if action == "" || action == ActionResign {
		s.pos.Resign()
		return
	}

	var col, row int
	if _, err := fmt.Sscanf(action, "%d %d", &col, &row); err != nil {
		s.pos.Resign()
		return
	}
	sq := SquareAt(col, row)
	if !s.pos.GenerateMoves().Contains(sq) {
		s.pos.Resign()
		return
	}
	s.pos.MakeMove(sq)
}

// 1 for the winner, 0 for the loser, 0.5 each for a draw or an unfinished game
func (s *State) ScoreGame() []float64 {
	scores := []float64{0.5, 0.5}
	if winner := s.pos.Winner(); winner != None {
		scores[s.seat(winner)] = 1
		scores[1-s.seat(winner)] = 0
	}
	return scores
}

func (s *State) PrintGame(w io.Writer) {
	for _, row := range s.pos.Rows() {
		fmt.Fprintln(w, row)
	}
}

// Position of the game, for inspection in tests and bots
func (s *State) Position() *Position {
	return s.pos
}
