package tictactoe

import (
	"strings"
)

const (
	_bitboardCrossIdx  = 0
	_bitboardCircleIdx = 1
)

type historyState struct {
	lastMove Square
	turn     TurnType
}

type Position struct {
	board       [9]Mark
	bitboards   [2]uint16
	history     []historyState
	termination Termination
}

func NewPosition() *Position {
	history := make([]historyState, 1, 10)
	history[0] = historyState{lastMove: SquareIllegal, turn: !CrossTurn}

	return &Position{
		history: history,
	}
}

func (p *Position) lastHistory() *historyState {
	return &p.history[len(p.history)-1]
}

// Side to move, cross always starts
func (p *Position) Turn() TurnType {
	return !p.lastHistory().turn
}

// Number of moves played so far
func (p *Position) Plies() int {
	return len(p.history) - 1
}

func (p *Position) At(sq Square) Mark {
	return p.board[sq]
}

// MakeMove doesn't check legality, see GenerateMoves
func (p *Position) MakeMove(sq Square) {
	idx := _bitboardCrossIdx
	player := Cross
	if p.Turn() == CircleTurn {
		player = Circle
		idx = _bitboardCircleIdx
	}

	p.bitboards[idx] ^= (1 << sq)
	p.board[sq] = player
	p.history = append(p.history, historyState{turn: !p.Turn(), lastMove: sq})
}

func (p *Position) UndoMove() {
	if len(p.history) <= 1 {
		return
	}

	hist := p.lastHistory()
	idx := _bitboardCrossIdx
	if p.board[hist.lastMove] == Circle {
		idx = _bitboardCircleIdx
	}

	p.bitboards[idx] ^= (1 << hist.lastMove)
	p.board[hist.lastMove] = None
	p.termination = TerminationNone
	p.history = p.history[:len(p.history)-1]
}

// Rows of the board from the top, 'x', 'o' and '.' for empty squares
func (p *Position) Rows() []string {
	rows := make([]string, 3)
	for r := range 3 {
		var b strings.Builder
		for c := range 3 {
			b.WriteString(p.board[SquareAt(c, r)].String())
		}
		rows[r] = b.String()
	}
	return rows
}
