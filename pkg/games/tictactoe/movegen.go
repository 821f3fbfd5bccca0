package tictactoe

import "math/bits"

// Every empty square is a legal move, none once the game is over
func (p *Position) GenerateMoves() *MoveList {
	movelist := NewMoveList()
	if p.IsTerminated() {
		return movelist
	}

	free := uint(0b111111111 ^ (p.bitboards[0] | p.bitboards[1]))
	for free != 0 {
		movelist.AppendMove(Square(bits.TrailingZeros(free)))
		free &= free - 1
	}

	return movelist
}
