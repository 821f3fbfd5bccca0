package tictactoe

type Termination int

const (
	TerminationNone           Termination = 0
	TerminationCircleWon      Termination = 1
	TerminationCrossWon       Termination = 2
	TerminationDraw           Termination = 4
	TerminationCrossResigned  Termination = 8
	TerminationCircleResigned Termination = 16
)

// horizontal, vertical and diagonal patterns as bitboards
var _winningBitboardPatterns [8]uint = [...]uint{
	0b111000000, 0b000111000, 0b000000111,
	0b100100100, 0b010010010, 0b001001001,
	0b100010001, 0b001010100,
}

// Resign the game for the side to move
func (p *Position) Resign() {
	if p.Turn() == CrossTurn {
		p.termination = TerminationCrossResigned
	} else {
		p.termination = TerminationCircleResigned
	}
}

// Get the termination reason (after calling IsTerminated or CheckTerminationPattern)
func (p *Position) Termination() Termination {
	return p.termination
}

func (p *Position) IsTerminated() bool {
	if p.termination != TerminationNone {
		return true
	}

	p.CheckTerminationPattern()
	return p.termination != TerminationNone
}

// Winner returns the winning mark, None for a draw or an unfinished game
func (p *Position) Winner() Mark {
	switch p.termination {
	case TerminationCrossWon, TerminationCircleResigned:
		return Cross
	case TerminationCircleWon, TerminationCrossResigned:
		return Circle
	}
	return None
}

func (p *Position) CheckTerminationPattern() {
	crossbb := uint(p.bitboards[_bitboardCrossIdx])
	circlebb := uint(p.bitboards[_bitboardCircleIdx])

	for i := range 8 {
		if crossbb&_winningBitboardPatterns[i] == _winningBitboardPatterns[i] {
			p.termination = TerminationCrossWon
			return
		}
		if circlebb&_winningBitboardPatterns[i] == _winningBitboardPatterns[i] {
			p.termination = TerminationCircleWon
			return
		}
	}

	// full board without a line
	if (crossbb | circlebb) == 0b111111111 {
		p.termination = TerminationDraw
	}
}
