package abgo

import (
	"testing"
	"time"

	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/game/isolation"
	"github.com/gorgonia/abgo/game/mnk"
	"github.com/gorgonia/abgo/heuristic"
	"github.com/gorgonia/abgo/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfect plays tic-tac-toe without ever losing.
func perfect(name string) *Agent {
	conf := search.DefaultConfig()
	conf.Algorithm = search.AlphaBeta
	conf.Iterative = false
	conf.Depth = 9
	return NewAgent(name, conf)
}

func policyAgent(name string, f MoveFunc) *Agent { return &Agent{Name: name, Policy: f} }

type countingEncoder struct {
	encoded, flushed int
	names            []string
}

func (e *countingEncoder) Encode(ms game.MetaState) error {
	e.encoded++
	e.names = append(e.names, ms.Name())
	return nil
}

func (e *countingEncoder) Flush() error {
	e.flushed++
	return nil
}

func TestArenaPerfectPlayDraws(t *testing.T) {
	a, b := perfect("a"), perfect("b")
	conf := Config{Name: "Tic Tac Toe"}
	arena := NewArena(mnk.TicTacToe(), a, b, conf)
	enc := &countingEncoder{}

	outcome, err := arena.PlayFirst(a, enc)
	require.NoError(t, err)
	assert.Equal(t, game.Player(game.None), outcome.Winner)
	assert.Equal(t, Finished, outcome.Reason)
	assert.Len(t, outcome.History, 9)
	assert.Equal(t, 9, enc.encoded)
	assert.Equal(t, "Tic Tac Toe", enc.names[0])
	assert.Equal(t, mnk.Cross, a.Player)
	assert.Equal(t, mnk.Nought, b.Player)
	assert.Equal(t, float32(1), a.Draw)
	assert.Equal(t, float32(1), b.Draw)

	// the arena starts every game from the beginning
	outcome, err = arena.PlayFirst(b, nil)
	require.NoError(t, err)
	assert.Len(t, outcome.History, 9)
	assert.Equal(t, mnk.Cross, b.Player)
	assert.Equal(t, float32(2), a.Draw)
}

func TestArenaIllegalMoveForfeits(t *testing.T) {
	cheat := policyAgent("cheat", func(g game.State, legal []game.Move, timeLeft search.Timer) game.Move {
		return game.Move{Row: 5, Col: 5}
	})
	honest := perfect("honest")
	arena := NewArena(mnk.TicTacToe(), cheat, honest, DefaultConfig())

	outcome, err := arena.PlayFirst(cheat, nil)
	require.NoError(t, err)
	assert.Equal(t, IllegalMove, outcome.Reason)
	assert.Equal(t, honest.Player, outcome.Winner)
	assert.Len(t, outcome.History, 1)
	assert.Equal(t, float32(1), honest.Wins)
	assert.Equal(t, float32(1), cheat.Loss)

	passer := policyAgent("passer", func(g game.State, legal []game.Move, timeLeft search.Timer) game.Move {
		return game.NoMove
	})
	arena = NewArena(mnk.TicTacToe(), honest, passer, DefaultConfig())
	outcome, _ = arena.PlayFirst(honest, nil)
	assert.Equal(t, IllegalMove, outcome.Reason, "NoMove is not a move while there are legal moves")
	assert.Equal(t, honest.Player, outcome.Winner)
}

func TestArenaTimeoutForfeits(t *testing.T) {
	slow := policyAgent("slow", func(g game.State, legal []game.Move, timeLeft search.Timer) game.Move {
		time.Sleep(30 * time.Millisecond)
		return legal[0]
	})
	fast := RandomAgent("fast", 1337)
	conf := DefaultConfig()
	conf.TimeLimit = 10 * time.Millisecond
	arena := NewArena(isolation.Standard(), slow, fast, conf)

	outcome, err := arena.PlayFirst(slow, nil)
	require.NoError(t, err)
	assert.Equal(t, Timeout, outcome.Reason)
	assert.Equal(t, fast.Player, outcome.Winner)
	assert.Equal(t, "timeout", outcome.Reason.String())
}

func TestArenaSearchUnderClock(t *testing.T) {
	conf := search.DefaultConfig()
	conf.Algorithm = search.AlphaBeta
	conf.Evaluator = search.EvaluatorFunc(heuristic.Aggressive)
	conf.Threshold = search.ThresholdFor(10 * time.Millisecond)

	searcher := NewAgent("searcher", conf)
	random := RandomAgent("", 42)
	assert.NotEmpty(t, random.Name, "agents without names get one")

	aconf := DefaultConfig()
	aconf.TimeLimit = 100 * time.Millisecond
	arena := NewArena(isolation.New(5, 5), searcher, random, aconf)
	outcome, err := arena.Play(nil)
	require.NoError(t, err)
	assert.NotEqual(t, Timeout, outcome.Reason, "iterative deepening should answer in time")
	assert.NotEqual(t, IllegalMove, outcome.Reason)
	assert.NotEqual(t, game.Player(game.None), outcome.Winner, "isolation has no draws")
	assert.Equal(t, float32(1), searcher.Wins+searcher.Loss)
	assert.Equal(t, float32(1), arena.Score(outcome.Winner))
	assert.Equal(t, float64(0), arena.Score(game.Player(game.None)))
}

func TestArenaRejectsStrangers(t *testing.T) {
	arena := NewArena(mnk.TicTacToe(), perfect("a"), perfect("b"), DefaultConfig())
	_, err := arena.PlayFirst(perfect("c"), nil)
	assert.Error(t, err)
}
