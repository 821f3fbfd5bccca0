package tictactoe

// Squares, row by row from the top-left corner
const (
	A3 Square = iota
	B3
	C3
	A2
	B2
	C2
	A1
	B1
	C1
)

const (
	SquareIllegal Square = 255
)

type Square uint8
type TurnType bool
type Mark uint8

const (
	CrossTurn  TurnType = true
	CircleTurn TurnType = false
)

const (
	None   Mark = 0
	Cross  Mark = 1
	Circle Mark = 2
)

func (m Mark) String() string {
	switch m {
	case Cross:
		return "x"
	case Circle:
		return "o"
	default:
		return "."
	}
}

// Column and row of the square, both counted from the top-left corner
func (sq Square) Coords() (col, row int) {
	return int(sq) % 3, int(sq) / 3
}

func SquareAt(col, row int) Square {
	if col < 0 || col > 2 || row < 0 || row > 2 {
		return SquareIllegal
	}
	return Square(row*3 + col)
}

type MoveList struct {
	Moves [9]Square
	Size  uint8
}

func NewMoveList() *MoveList {
	return &MoveList{}
}

func (ml *MoveList) AppendMove(sq Square) {
	ml.Moves[ml.Size] = sq
	ml.Size++
}

func (ml *MoveList) Slice() []Square {
	return ml.Moves[:ml.Size]
}

func (ml *MoveList) Contains(sq Square) bool {
	for _, m := range ml.Slice() {
		if m == sq {
			return true
		}
	}
	return false
}
