package c4

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
)

var (
	_ game.State = &Game{}
)

type Game struct {
	b          *Board
	history    []game.PlayerMove
	nextToMove game.Player
}

// New creates a new game with a board of (rows,cols) and N to win (connect4 being 4 to win). Black moves first.
func New(rows, cols, N int) *Game {
	b := newBoard(rows, cols, N)
	history := make([]game.PlayerMove, 0, rows*cols)
	return &Game{
		b:          b,
		history:    history,
		nextToMove: game.Player(game.Black),
	}
}

// Connect4 creates the standard 6x7 connect four game.
func Connect4() *Game { return New(6, 7, 4) }

func (g *Game) BoardSize() (int, int) { return g.b.shape() }

func (g *Game) ToMove() game.Player { return g.nextToMove }

func (g *Game) LastMove() game.PlayerMove {
	if len(g.history) > 0 {
		return g.history[len(g.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Move: game.NoMove}
}

func (g *Game) MoveNumber() int { return len(g.history) }

// LegalMoves returns one move per column that is not full, left to right. The move's row is where the piece lands.
func (g *Game) LegalMoves(p game.Player) []game.Move {
	if p != game.Player(game.Black) && p != game.Player(game.White) {
		return nil
	}
	if ended, _ := g.Ended(); ended {
		return nil
	}
	_, cols := g.b.shape()
	retVal := make([]game.Move, 0, cols)
	for col := 0; col < cols; col++ {
		if row, err := g.b.landing(col); err == nil {
			retVal = append(retVal, game.Move{Row: row, Col: col})
		}
	}
	return retVal
}

func (g *Game) Check(m game.Move) bool {
	if ended, _ := g.Ended(); ended {
		return false
	}
	return g.b.check(m) == nil
}

func (g *Game) Forecast(m game.Move) game.State {
	if !g.Check(m) {
		panic(game.IllegalMoveError{Player: g.nextToMove, Move: m})
	}
	retVal := g.clone()
	if err := retVal.b.apply(g.nextToMove, m); err != nil {
		panic(err)
	}
	retVal.history = append(retVal.history, game.PlayerMove{Player: g.nextToMove, Move: m})
	retVal.nextToMove = game.Opponent(g.nextToMove)
	return retVal
}

func (g *Game) Opponent(p game.Player) game.Player { return game.Opponent(p) }

func (g *Game) Utility(p game.Player) float32 {
	winner := game.Player(g.b.checkWin())
	if winner == game.Player(game.None) {
		return 0
	}
	switch p {
	case winner:
		return math32.Inf(1)
	case game.Opponent(winner):
		return math32.Inf(-1)
	}
	return 0
}

func (g *Game) Ended() (bool, game.Player) {
	winner := g.b.checkWin()
	if winner != game.None {
		return true, game.Player(winner)
	}

	// ended due to full board
	raw := g.b.raw()
	for i := range raw {
		if raw[i] == game.None {
			return false, game.Player(game.None)
		}
	}
	return true, game.Player(game.None)
}

func (g *Game) Reset() {
	data := g.b.raw()
	for i := range data {
		data[i] = game.None
	}
	g.history = g.history[:0]
	g.nextToMove = game.Player(game.Black)
}

func (g *Game) Board() []game.Colour { return g.b.raw() }

func (g *Game) Eq(other game.State) bool {
	ot, ok := other.(*Game)
	if !ok {
		return false
	}
	if g.nextToMove != ot.nextToMove {
		return false
	}
	a, b := g.b.raw(), ot.b.raw()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (g *Game) Clone() game.State { return g.clone() }

func (g *Game) clone() *Game {
	rows, cols := g.b.shape()
	history := make([]game.PlayerMove, len(g.history), rows*cols)
	copy(history, g.history)
	return &Game{
		b:          g.b.clone(),
		history:    history,
		nextToMove: g.nextToMove,
	}
}

func (g *Game) Format(s fmt.State, c rune) { g.b.Format(s, c) }
