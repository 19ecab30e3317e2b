package search

import (
	"fmt"
	"time"

	"github.com/gorgonia/abgo/game"
)

var (
	black = game.Player(game.Black)
	white = game.Player(game.White)
)

// tnode is a node of a hand built game tree. Values are from Black's point of view.
type tnode struct {
	v    float32 // what the evaluator says
	u    float32 // utility, non zero for finished games
	kids []*tnode
}

func leaf(v float32) *tnode { return &tnode{v: v} }

func branch(v float32, kids ...*tnode) *tnode { return &tnode{v: v, kids: kids} }

func won(u float32) *tnode { return &tnode{u: u} }

// treeState walks a hand built tree. Black moves first. The i-th move at depth d is Move{d, i}.
type treeState struct {
	n      *tnode
	path   []int
	player game.Player

	onForecast func(depth int)
}

func newTreeState(root *tnode) *treeState { return &treeState{n: root, player: black} }

func (s *treeState) BoardSize() (int, int) { return 1, len(s.n.kids) }
func (s *treeState) MoveNumber() int       { return len(s.path) }
func (s *treeState) ToMove() game.Player   { return s.player }

func (s *treeState) LastMove() game.PlayerMove {
	if len(s.path) == 0 {
		return game.PlayerMove{Player: game.Player(game.None), Move: game.NoMove}
	}
	return game.PlayerMove{Player: game.Opponent(s.player), Move: game.Move{Row: len(s.path) - 1, Col: s.path[len(s.path)-1]}}
}

func (s *treeState) LegalMoves(p game.Player) []game.Move {
	retVal := make([]game.Move, 0, len(s.n.kids))
	for i := range s.n.kids {
		retVal = append(retVal, game.Move{Row: len(s.path), Col: i})
	}
	return retVal
}

func (s *treeState) Check(m game.Move) bool {
	return m.Row == len(s.path) && m.Col >= 0 && m.Col < len(s.n.kids)
}

func (s *treeState) Forecast(m game.Move) game.State {
	if !s.Check(m) {
		panic(game.IllegalMoveError{Player: s.player, Move: m})
	}
	path := make([]int, len(s.path), len(s.path)+1)
	copy(path, s.path)
	retVal := &treeState{
		n:          s.n.kids[m.Col],
		path:       append(path, m.Col),
		player:     game.Opponent(s.player),
		onForecast: s.onForecast,
	}
	if s.onForecast != nil {
		s.onForecast(len(retVal.path))
	}
	return retVal
}

func (s *treeState) Opponent(p game.Player) game.Player { return game.Opponent(p) }

func (s *treeState) Utility(p game.Player) float32 {
	switch p {
	case black:
		return s.n.u
	case white:
		return -s.n.u
	}
	return 0
}

func (s *treeState) Ended() (bool, game.Player) {
	switch {
	case s.n.u > 0:
		return true, black
	case s.n.u < 0:
		return true, white
	}
	return len(s.n.kids) == 0, game.Player(game.None)
}

func (s *treeState) Eq(other game.State) bool {
	ot, ok := other.(*treeState)
	return ok && ot.n == s.n
}

func (s *treeState) Clone() game.State {
	retVal := *s
	return &retVal
}

func (s *treeState) Format(f fmt.State, c rune) { fmt.Fprintf(f, "%v", s.path) }

// treeEval scores tree states. It also records who it scored for.
type treeEval struct {
	calls   int
	players map[game.Player]int
}

func (e *treeEval) Score(s game.State, p game.Player) float32 {
	e.calls++
	if e.players == nil {
		e.players = make(map[game.Player]int)
	}
	e.players[p]++

	ts := s.(*treeState)
	if u := ts.Utility(p); u != 0 {
		return u
	}
	if p == black {
		return ts.n.v
	}
	return -ts.n.v
}

func treeConfig(algo Algorithm, depth int) Config {
	return Config{
		Depth:     depth,
		Algorithm: algo,
		Threshold: 10 * time.Millisecond,
		Evaluator: &treeEval{},
	}
}
