package abgo

import (
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/search"
	"golang.org/x/exp/rand"
)

// MoveFunc picks a move for the player to move in g.
type MoveFunc func(g game.State, legal []game.Move, timeLeft search.Timer) game.Move

// An Agent is a player, AI or Human. It searches for its moves, asks its Policy, or picks moves at random.
type Agent struct {
	Name     string
	Searcher *search.Searcher
	Policy   MoveFunc
	Player   game.Player

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex

	rand *rand.Rand
}

// NewAgent creates an agent that searches with the given config. An empty name gets a random one.
func NewAgent(name string, conf search.Config, opts ...search.Option) *Agent {
	if name == "" {
		name = petname.Generate(2, "-")
	}
	return &Agent{
		Name:     name,
		Searcher: search.New(conf, opts...),
	}
}

// RandomAgent creates an agent that plays any legal move.
func RandomAgent(name string, seed uint64) *Agent {
	if name == "" {
		name = petname.Generate(2, "-")
	}
	return &Agent{
		Name: name,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Search returns the agent's move for g. legal are the legal moves of the player to move.
func (a *Agent) Search(g game.State, legal []game.Move, timeLeft search.Timer) game.Move {
	switch {
	case a.Searcher != nil:
		return a.Searcher.SelectMove(g, legal, timeLeft)
	case a.Policy != nil:
		return a.Policy(g, legal, timeLeft)
	}
	if len(legal) == 0 {
		return game.NoMove
	}
	if a.rand == nil {
		a.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return legal[a.rand.Intn(len(legal))]
}

// clone returns an agent with the same name and strategy but its own search state, so that it can
// play a game at the same time as a.
func (a *Agent) clone() *Agent {
	retVal := &Agent{Name: a.Name, Policy: a.Policy}
	switch {
	case a.Searcher != nil:
		retVal.Searcher = a.Searcher.Clone()
	case a.rand != nil:
		retVal.rand = rand.New(rand.NewSource(a.rand.Uint64()))
	}
	return retVal
}

// record adds the result of a game in which the agent played as p.
func (a *Agent) record(p, winner game.Player) {
	a.Lock()
	switch winner {
	case game.Player(game.None):
		a.Draw++
	case p:
		a.Wins++
	default:
		a.Loss++
	}
	a.Unlock()
}

func (a *Agent) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.Unlock()
}
