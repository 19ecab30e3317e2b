package mnk

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
)

var (
	Cross  = game.Player(game.Black)
	Nought = game.Player(game.White)
)

var _ game.State = &MNK{}

// MNK is a representation of M,N,K games - a game is played on a MxN board. K in a row to win.
type MNK struct {
	board   []game.Colour
	m, n, k int

	nextToMove game.Player
	history    []game.PlayerMove
}

// New creates a new MNK game. Cross moves first.
func New(m, n, k int) *MNK {
	return &MNK{
		board:      make([]game.Colour, m*n),
		history:    make([]game.PlayerMove, 0, m*n),
		m:          m,
		n:          n,
		k:          k,
		nextToMove: Cross,
	}
}

// TicTacToe creates a new MNK game for Tic Tac Toe
func TicTacToe() *MNK { return New(3, 3, 3) }

func (g *MNK) Format(s fmt.State, c rune) {
	for i, c := range g.board {
		if i%g.n == 0 {
			fmt.Fprint(s, "⎢ ")
		}
		fmt.Fprintf(s, "%s ", c)
		if (i+1)%g.n == 0 && i != 0 {
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (g *MNK) BoardSize() (int, int) { return g.m, g.n }
func (g *MNK) Board() []game.Colour  { return g.board }

func (g *MNK) ToMove() game.Player { return g.nextToMove }

func (g *MNK) LastMove() game.PlayerMove {
	if len(g.history) > 0 {
		return g.history[len(g.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Move: game.NoMove}
}

func (g *MNK) MoveNumber() int { return len(g.history) }

// LegalMoves lists the empty squares in rowmajor order. Once the game has ended there are no legal moves.
func (g *MNK) LegalMoves(p game.Player) []game.Move {
	if p != Cross && p != Nought {
		return nil
	}
	if ended, _ := g.Ended(); ended {
		return nil
	}
	retVal := make([]game.Move, 0, len(g.board)-len(g.history))
	for i, c := range g.board {
		if c == game.None {
			retVal = append(retVal, game.Move{Row: i / g.n, Col: i % g.n})
		}
	}
	return retVal
}

func (g *MNK) Check(m game.Move) bool {
	if m.Row < 0 || m.Row >= g.m || m.Col < 0 || m.Col >= g.n {
		return false
	}
	if g.board[m.Row*g.n+m.Col] != game.None {
		return false
	}
	ended, _ := g.Ended()
	return !ended
}

func (g *MNK) Forecast(m game.Move) game.State {
	if !g.Check(m) {
		panic(game.IllegalMoveError{Player: g.nextToMove, Move: m})
	}
	retVal := g.clone()
	retVal.board[m.Row*g.n+m.Col] = game.Colour(g.nextToMove)
	retVal.history = append(retVal.history, game.PlayerMove{Player: g.nextToMove, Move: m})
	retVal.nextToMove = game.Opponent(g.nextToMove)
	return retVal
}

func (g *MNK) Opponent(p game.Player) game.Player { return game.Opponent(p) }

// Utility returns +Inf for the winner, -Inf for the loser. Draws and unfinished games are 0.
func (g *MNK) Utility(p game.Player) float32 {
	ended, winner := g.Ended()
	if !ended || winner == game.Player(game.None) {
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

// Ended checks if the game has ended. If it has, who is the winner?
func (g *MNK) Ended() (ended bool, winner game.Player) {
	if g.isWinner(Cross) {
		return true, Cross
	}
	if g.isWinner(Nought) {
		return true, Nought
	}
	for _, c := range g.board {
		if c == game.None {
			return false, game.Player(game.None)
		}
	}
	return true, game.Player(game.None)
}

func (g *MNK) Reset() {
	for i := range g.board {
		g.board[i] = game.None
	}
	g.history = g.history[:0]
	g.nextToMove = Cross
}

func (g *MNK) Eq(other game.State) bool {
	ot, ok := other.(*MNK)
	if !ok {
		return false
	}
	if len(g.board) != len(ot.board) || g.nextToMove != ot.nextToMove {
		return false
	}
	for i := range g.board {
		if g.board[i] != ot.board[i] {
			return false
		}
	}
	return true
}

func (g *MNK) Clone() game.State { return g.clone() }

func (g *MNK) clone() *MNK {
	retVal := New(g.m, g.n, g.k)
	copy(retVal.board, g.board)
	retVal.history = append(retVal.history, g.history...)
	retVal.nextToMove = g.nextToMove
	return retVal
}

// lines to check for K in a row: right, down, down-right, down-left
var lines = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (g *MNK) isWinner(p game.Player) bool {
	colour := game.Colour(p)
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			if g.board[i*g.n+j] != colour {
				continue
			}
			for _, l := range lines {
				count := 1
				r, c := i+l[0], j+l[1]
				for r >= 0 && r < g.m && c >= 0 && c < g.n && g.board[r*g.n+c] == colour {
					count++
					if count >= g.k {
						return true
					}
					r, c = r+l[0], c+l[1]
				}
				if count >= g.k {
					return true
				}
			}
		}
	}
	return false
}
