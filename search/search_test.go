package search

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	left  time.Duration
	calls int
}

func (c *fakeClock) timeLeft() time.Duration {
	c.calls++
	return c.left
}

func TestResult(t *testing.T) {
	assert.True(t, noResult().Aborted())
	assert.False(t, Result(0).Aborted())
	assert.False(t, Result(math32.Inf(1)).Aborted())
	assert.False(t, Result(math32.Inf(-1)).Aborted())
	assert.False(t, Result(math32.NaN()).Aborted(), "only the tagged NaN means aborted")
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)
	assert.True(DefaultConfig().IsValid())
	assert.Equal(15*time.Millisecond, ThresholdFor(10*time.Millisecond))

	invalid := map[string]func(c *Config){
		"no evaluator":         func(c *Config) { c.Evaluator = nil },
		"unknown algorithm":    func(c *Config) { c.Algorithm = MAXALGORITHM },
		"negative threshold":   func(c *Config) { c.Threshold = -1 },
		"negative max depth":   func(c *Config) { c.MaxDepth = -1 },
		"fixed depth of 0":     func(c *Config) { c.Iterative, c.Depth = false, 0 },
		"negative fixed depth": func(c *Config) { c.Iterative, c.Depth = false, -1 },
	}
	for name, f := range invalid {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			f(&c)
			assert.False(c.IsValid())
			assert.Panics(func() { New(c) })
		})
	}

	for _, a := range []Algorithm{Minimax, AlphaBeta} {
		parsed, err := ParseAlgorithm(a.String())
		assert.NoError(err)
		assert.Equal(a, parsed)
	}
	_, err := ParseAlgorithm("expectimax")
	assert.Error(err)
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	for _, iterative := range []bool{false, true} {
		clock := &fakeClock{left: time.Second}
		eval := &treeEval{}
		conf := treeConfig(AlphaBeta, 3)
		conf.Iterative = iterative
		conf.Evaluator = eval
		s := New(conf)

		m := s.SelectMove(newTreeState(leaf(0)), nil, clock.timeLeft)
		assert.Equal(t, game.NoMove, m)
		assert.True(t, m.IsNone())
		assert.Zero(t, eval.calls, "the evaluator should not be called")
		assert.Zero(t, clock.calls, "the clock should not be read")
		assert.Zero(t, s.Stats().Nodes)
	}
}

// Depth 1 prefers A, depth 2 prefers B. The clock runs out as soon as depth 3 is reached, so
// iterative deepening must return the move of the depth 2 search.
func TestIterativeDeepeningKeepsLastCompletedMove(t *testing.T) {
	clock := &fakeClock{left: time.Second}
	root := branch(0,
		branch(1, branch(-5, leaf(0)), branch(3, leaf(0))), // A
		branch(0, branch(2, leaf(0)), branch(4, leaf(0))),  // B
	)
	state := newTreeState(root)
	state.onForecast = func(depth int) {
		if depth >= 3 {
			clock.left = 0
		}
	}

	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		t.Run(algo.String(), func(t *testing.T) {
			clock.left = time.Second
			conf := treeConfig(algo, 0)
			conf.Iterative = true
			s := New(conf)

			m := s.SelectMove(state, state.LegalMoves(black), clock.timeLeft)
			assert.Equal(t, game.Move{0, 1}, m)
			stats := s.Stats()
			assert.Equal(t, 2, stats.Depth)
			assert.Equal(t, Result(2), stats.Score)
			assert.True(t, stats.Aborted)
		})
	}
}

func TestFixedDepthTimeoutFallsBack(t *testing.T) {
	root := branch(0, leaf(1), leaf(5), leaf(3))
	state := newTreeState(root)
	legal := state.LegalMoves(black)

	conf := treeConfig(Minimax, 1)
	s := New(conf)
	assert.Equal(t, game.Move{0, 1}, s.SelectMove(state, legal, nil), "with time the best move is picked")
	assert.False(t, s.Stats().Aborted)
	assert.Equal(t, 1, s.Stats().Depth)

	noTime := func() time.Duration { return 0 }
	assert.Equal(t, legal[0], s.SelectMove(state, legal, noTime), "without time the first legal move is picked")
	assert.True(t, s.Stats().Aborted)
	assert.Equal(t, 0, s.Stats().Depth)

	conf.Iterative = true
	s = New(conf)
	assert.Equal(t, legal[0], s.SelectMove(state, legal, noTime))
	assert.Equal(t, 0, s.Stats().Nodes, "no iteration should start without time")
}

func TestAbortedSearchReturnsNoMove(t *testing.T) {
	clock := &fakeClock{left: time.Second}
	state := newTreeState(branch(0, branch(0, leaf(1)), branch(0, leaf(2))))
	state.onForecast = func(depth int) {
		if depth == 2 {
			clock.left = time.Millisecond
		}
	}
	s := New(treeConfig(AlphaBeta, 3))
	r, m := s.AlphaBeta(state, 3, clock.timeLeft)
	assert.True(t, r.Aborted())
	assert.Equal(t, game.NoMove, m)

	clock.left = time.Second
	r, m = s.Minimax(state, 3, clock.timeLeft)
	assert.True(t, r.Aborted())
	assert.Equal(t, game.NoMove, m)
}

func TestTieBreakLowestIndex(t *testing.T) {
	// the root maximizes, the child A minimizes
	a := branch(0, leaf(2), leaf(-1), leaf(-1))
	root := branch(0, a, leaf(-1), leaf(-1))

	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		t.Run(algo.String(), func(t *testing.T) {
			conf := treeConfig(algo, 2)
			conf.Iterative = false
			s := New(conf, WithTrace())
			m := s.SelectMove(newTreeState(root), newTreeState(root).LegalMoves(black), nil)
			assert.Equal(t, game.Move{0, 0}, m)
			assert.Equal(t, Result(-1), s.Stats().Score)
			require.NotNil(t, s.tree)
			assert.Equal(t, game.Move{1, 1}, s.tree.children[0].Best)
		})
	}

	flat := branch(0, leaf(1), leaf(3), leaf(3), leaf(2))
	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		conf := treeConfig(algo, 1)
		r, m := New(conf).run(newTreeState(flat), 1, nil)
		assert.Equal(t, Result(3), r)
		assert.Equal(t, game.Move{0, 1}, m, "%v should break ties by the lowest index", algo)
	}
}

func TestAlphaBetaCutoff(t *testing.T) {
	root := branch(0,
		branch(0, leaf(3), leaf(5)), // A is worth 3
		branch(0, leaf(2), leaf(9)), // B is worth at most 2: the 9 is never looked at
	)
	state := newTreeState(root)

	mm := New(treeConfig(Minimax, 2))
	r, m := mm.Minimax(state, 2, nil)
	assert.Equal(t, Result(3), r)
	assert.Equal(t, game.Move{0, 0}, m)
	assert.Equal(t, 7, mm.Stats().Nodes)

	ab := New(treeConfig(AlphaBeta, 2), WithTrace())
	ab.SelectMove(state, state.LegalMoves(black), nil)
	assert.Equal(t, Result(3), ab.Stats().Score)
	assert.Equal(t, 6, ab.Stats().Nodes)
	assert.Equal(t, 1, ab.Stats().Cutoffs)

	b := ab.tree.children[1]
	assert.True(t, b.Cutoff)
	assert.Equal(t, Result(2), b.Score)
	assert.Equal(t, game.Move{1, 0}, b.Best, "a cutoff returns the move that caused it")
	assert.Len(t, b.children, 1)
}

func TestScoresFromRootPlayer(t *testing.T) {
	eval := &treeEval{}
	conf := treeConfig(Minimax, 3)
	conf.Evaluator = eval
	root := branch(0, branch(0, leaf(1), leaf(2)), branch(0, leaf(3)))

	state := newTreeState(root).Forecast(game.Move{0, 0}).(*treeState) // White to move
	New(conf).SelectMove(state, state.LegalMoves(white), nil)
	assert.Equal(t, map[game.Player]int{white: 2}, eval.players)
}

func TestTerminalStates(t *testing.T) {
	// Black can win straight away with its second move.
	root := branch(0, branch(5, leaf(5)), won(math32.Inf(1)), branch(1, leaf(1)))
	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		for depth := 1; depth <= 3; depth++ {
			conf := treeConfig(algo, depth)
			s := New(conf)
			m := s.SelectMove(newTreeState(root), newTreeState(root).LegalMoves(black), nil)
			assert.Equal(t, game.Move{0, 1}, m, "%v depth %d", algo, depth)
			assert.True(t, math32.IsInf(float32(s.Stats().Score), 1))
		}
	}

	lost := newTreeState(won(math32.Inf(1)))
	lost.player = white
	r, m := New(treeConfig(Minimax, 2)).Minimax(lost, 2, nil)
	assert.True(t, math32.IsInf(float32(r), -1))
	assert.Equal(t, game.NoMove, m)
}

func TestIterativeDeepeningStops(t *testing.T) {
	root := branch(0, branch(0, branch(0, leaf(1))), leaf(0))
	state := newTreeState(root)

	conf := treeConfig(Minimax, 0)
	conf.Iterative = true
	s := New(conf)
	assert.Equal(t, game.Move{0, 0}, s.SelectMove(state, state.LegalMoves(black), nil))
	assert.Equal(t, 3, s.Stats().Depth, "deepening should stop once the whole tree is searched")
	assert.False(t, s.Stats().Aborted)

	conf.MaxDepth = 2
	s = New(conf)
	s.SelectMove(state, state.LegalMoves(black), nil)
	assert.Equal(t, 2, s.Stats().Depth)
}

func TestPackageSelectMove(t *testing.T) {
	state := newTreeState(branch(0, leaf(1), leaf(5)))
	conf := treeConfig(AlphaBeta, 1)
	assert.Equal(t, game.Move{0, 1}, SelectMove(state, state.LegalMoves(black), Countdown(time.Minute), conf))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	state := newTreeState(branch(0, leaf(1), leaf(5)))

	s := New(treeConfig(Minimax, 1), WithLogger(logger))
	s.SelectMove(state, state.LegalMoves(black), nil)
	out := buf.String()
	assert.Contains(t, out, `"message":"search completed"`)
	assert.Contains(t, out, `"depth":1`)
	assert.Contains(t, out, `"best":"(0, 1)"`)
}

func TestToDot(t *testing.T) {
	state := newTreeState(branch(0, leaf(1), leaf(5)))

	s := New(treeConfig(Minimax, 1), WithTrace())
	s.SelectMove(state, state.LegalMoves(black), nil)
	dot := s.ToDot()
	assert.True(t, strings.HasPrefix(dot, "digraph G"), dot)
	assert.Equal(t, 2, strings.Count(dot, "->"), dot)
	assert.Contains(t, dot, "Node ID")

	s = New(treeConfig(Minimax, 1))
	s.SelectMove(state, state.LegalMoves(black), nil)
	assert.Zero(t, strings.Count(s.ToDot(), "->"), "nothing is recorded without WithTrace")
}

func TestNaNScoresAreNotAborts(t *testing.T) {
	tagged := float32(noResult())
	eval := EvaluatorFunc(func(s game.State, p game.Player) float32 {
		if s.LastMove().Move == (game.Move{0, 0}) {
			return tagged
		}
		return 1
	})
	root := branch(0, leaf(0), leaf(0))
	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		conf := treeConfig(algo, 1)
		conf.Evaluator = eval
		s := New(conf)
		m := s.SelectMove(newTreeState(root), newTreeState(root).LegalMoves(black), nil)
		assert.Equal(t, game.Move{0, 1}, m, "%v", algo)
		assert.False(t, s.Stats().Aborted, "%v", algo)
		assert.Equal(t, Result(1), s.Stats().Score, "%v", algo)
	}
}
