// Package isolation implements the game of Isolation: two knights on a board. Each turn the player
// to move jumps their knight (an L shaped move) to a square nobody has visited yet; on their very
// first move a player may pick any open square. Visited squares are blocked for the rest of the
// game, and the first player who cannot move loses.
package isolation

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
)

var (
	First  = game.Player(game.Black)
	Second = game.Player(game.White)
)

const notMoved = -1

// knight offsets, in the order legal moves are enumerated
var directions = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

var _ game.State = &Board{}

// Board is a game of isolation on a height x width board.
type Board struct {
	h, w    int
	cells   []game.Colour // who visited the square, rowmajor
	loc     [3]int        // current square of each player, indexed by colour
	active  game.Player
	history []game.PlayerMove
}

// New creates a new game of isolation on a height x width board. The First player moves first.
func New(height, width int) *Board {
	if height <= 0 || width <= 0 {
		panic(fmt.Sprintf("isolation: invalid board size %dx%d", height, width))
	}
	return &Board{
		h:       height,
		w:       width,
		cells:   make([]game.Colour, height*width),
		loc:     [3]int{notMoved, notMoved, notMoved},
		active:  First,
		history: make([]game.PlayerMove, 0, height*width),
	}
}

// Standard creates the standard 7x7 game of isolation.
func Standard() *Board { return New(7, 7) }

func (b *Board) BoardSize() (int, int) { return b.h, b.w }

func (b *Board) MoveNumber() int { return len(b.history) }

func (b *Board) ToMove() game.Player { return b.active }

func (b *Board) LastMove() game.PlayerMove {
	if len(b.history) > 0 {
		return b.history[len(b.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Move: game.NoMove}
}

// History returns the moves played so far.
func (b *Board) History() []game.PlayerMove {
	retVal := make([]game.PlayerMove, len(b.history))
	copy(retVal, b.history)
	return retVal
}

// Location returns the square a player currently occupies, or NoMove if the player has not moved yet.
func (b *Board) Location(p game.Player) game.Move {
	if !isPlayer(p) || b.loc[p] == notMoved {
		return game.NoMove
	}
	return b.move(b.loc[p])
}

// LegalMoves returns the squares p can jump to.
//
// A player who has not moved yet may go to any blank square; these are listed column by column.
// Otherwise the knight's moves are listed in a fixed direction order.
func (b *Board) LegalMoves(p game.Player) []game.Move {
	if !isPlayer(p) {
		return nil
	}
	if b.loc[p] == notMoved {
		return b.blanks()
	}

	r, c := b.loc[p]/b.w, b.loc[p]%b.w
	retVal := make([]game.Move, 0, len(directions))
	for _, d := range directions {
		if b.isBlank(r+d[0], c+d[1]) {
			retVal = append(retVal, game.Move{Row: r + d[0], Col: c + d[1]})
		}
	}
	return retVal
}

func (b *Board) Check(m game.Move) bool {
	for _, legal := range b.LegalMoves(b.active) {
		if legal == m {
			return true
		}
	}
	return false
}

// Forecast returns a new board with m played by the active player. The receiver is not modified.
func (b *Board) Forecast(m game.Move) game.State {
	if !b.Check(m) {
		panic(game.IllegalMoveError{Player: b.active, Move: m})
	}
	retVal := b.clone()
	retVal.apply(m)
	return retVal
}

func (b *Board) Opponent(p game.Player) game.Player { return game.Opponent(p) }

// Utility is +Inf if p has won, -Inf if p has lost, and 0 while the game is still going.
func (b *Board) Utility(p game.Player) float32 {
	if len(b.LegalMoves(b.active)) > 0 {
		return 0
	}
	switch p {
	case b.active:
		return math32.Inf(-1)
	case game.Opponent(b.active):
		return math32.Inf(1)
	}
	return 0
}

// Ended checks if the game has ended. If it has, the winner is the player who is not to move.
func (b *Board) Ended() (ended bool, winner game.Player) {
	if len(b.LegalMoves(b.active)) > 0 {
		return false, game.Player(game.None)
	}
	return true, game.Opponent(b.active)
}

func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = game.None
	}
	b.loc = [3]int{notMoved, notMoved, notMoved}
	b.active = First
	b.history = b.history[:0]
}

func (b *Board) Eq(other game.State) bool {
	ot, ok := other.(*Board)
	if !ok {
		return false
	}
	if b.h != ot.h || b.w != ot.w || b.active != ot.active || b.loc != ot.loc {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != ot.cells[i] {
			return false
		}
	}
	return true
}

func (b *Board) Clone() game.State { return b.clone() }

func (b *Board) Format(s fmt.State, c rune) {
	for i, cell := range b.cells {
		if i%b.w == 0 {
			fmt.Fprint(s, "⎢ ")
		}
		switch {
		case i == b.loc[First]:
			fmt.Fprintf(s, "%s ", First)
		case i == b.loc[Second]:
			fmt.Fprintf(s, "%s ", Second)
		case cell != game.None:
			fmt.Fprint(s, "- ")
		default:
			fmt.Fprint(s, "· ")
		}
		if (i+1)%b.w == 0 {
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (b *Board) clone() *Board {
	retVal := &Board{
		h:       b.h,
		w:       b.w,
		cells:   make([]game.Colour, len(b.cells)),
		loc:     b.loc,
		active:  b.active,
		history: make([]game.PlayerMove, len(b.history), b.h*b.w),
	}
	copy(retVal.cells, b.cells)
	copy(retVal.history, b.history)
	return retVal
}

func (b *Board) apply(m game.Move) {
	idx := m.Row*b.w + m.Col
	b.cells[idx] = game.Colour(b.active)
	b.loc[b.active] = idx
	b.history = append(b.history, game.PlayerMove{Player: b.active, Move: m})
	b.active = game.Opponent(b.active)
}

// blanks lists the open squares column by column.
func (b *Board) blanks() []game.Move {
	retVal := make([]game.Move, 0, len(b.cells)-len(b.history))
	for c := 0; c < b.w; c++ {
		for r := 0; r < b.h; r++ {
			if b.cells[r*b.w+c] == game.None {
				retVal = append(retVal, game.Move{Row: r, Col: c})
			}
		}
	}
	return retVal
}

func (b *Board) isBlank(r, c int) bool {
	return r >= 0 && r < b.h && c >= 0 && c < b.w && b.cells[r*b.w+c] == game.None
}

func (b *Board) move(idx int) game.Move { return game.Move{Row: idx / b.w, Col: idx % b.w} }

func isPlayer(p game.Player) bool { return p == First || p == Second }
