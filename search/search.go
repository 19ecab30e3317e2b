// Package search selects moves in two player, zero sum games by searching the game tree under a
// time budget.
//
// Two depth limited searches are provided: minimax and minimax with alpha-beta pruning. Either can
// be run at a fixed depth or deepened iteratively until the clock runs low. Scores are always from
// the point of view of the player to move at the root of the search.
//
// Running out of time is not an error. Every level of the search polls the Timer; once the time
// left drops below the configured threshold the search returns an aborted Result all the way up,
// and SelectMove falls back to the best move found by a search that did complete.
package search

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
	"github.com/rs/zerolog"
)

// Result is a NaN tagged score. The tag marks a search that ran out of time.
type Result float32

const (
	noResultBits = 0x7FE00000
)

func noResult() Result {
	return Result(math32.Float32frombits(noResultBits))
}

// Aborted returns true if the search that produced r ran out of time. r carries no score then.
func (r Result) Aborted() bool {
	b := math32.Float32bits(float32(r))
	return b == noResultBits
}

// Evaluator scores a state from the point of view of a player.
//
// An Evaluator must return s.Utility(p) when that is non-zero, i.e. when the game is over. It
// should not return NaN; NaN scores are treated as 0 so that they cannot be mistaken for an
// aborted search.
type Evaluator interface {
	Score(s game.State, p game.Player) float32
}

// EvaluatorFunc is a function that is an Evaluator.
type EvaluatorFunc func(s game.State, p game.Player) float32

func (f EvaluatorFunc) Score(s game.State, p game.Player) float32 { return f(s, p) }

// Utility is the Evaluator that only knows about won and lost games.
var Utility Evaluator = EvaluatorFunc(func(s game.State, p game.Player) float32 { return s.Utility(p) })

// Timer returns how much time is left to make a move. A nil Timer never runs out.
type Timer func() time.Duration

// Countdown returns a Timer that runs out d after it is created.
func Countdown(d time.Duration) Timer {
	deadline := time.Now().Add(d)
	return func() time.Duration { return time.Until(deadline) }
}

// Stats describes the last call to SelectMove.
type Stats struct {
	Depth   int    // deepest search that completed
	Score   Result // score of the chosen move at that depth
	Nodes   int    // states visited, over all depths
	Cutoffs int    // alpha-beta cutoffs
	Aborted bool   // did a search run out of time?
}

type Option func(s *Searcher)

// WithLogger makes the searcher log to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Searcher) {
		s.log = l
	}
}

// WithTrace makes the searcher record the tree of its last completed search, for ToDot.
func WithTrace() Option {
	return func(s *Searcher) {
		s.trace = true
	}
}

// Searcher picks moves. A Searcher must not be used by more than one goroutine at a time.
type Searcher struct {
	Config
	log   zerolog.Logger
	trace bool

	// per search
	self     game.Player // the root player; every state is scored from their point of view
	timeLeft Timer
	deeper   bool // did the last search stop at its depth limit before the game ended?
	nextID   int
	tree     *node
	stats    Stats
}

// New creates a new Searcher. It panics if the config is not valid.
func New(conf Config, opts ...Option) *Searcher {
	if !conf.IsValid() {
		panic("search config is not valid. Unable to proceed")
	}
	s := &Searcher{
		Config: conf,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clone returns a Searcher with the same config and options, and no search state.
func (s *Searcher) Clone() *Searcher {
	return &Searcher{
		Config: s.Config,
		log:    s.log,
		trace:  s.trace,
	}
}

// Stats returns statistics about the last call to SelectMove.
func (s *Searcher) Stats() Stats { return s.stats }

// SelectMove picks one of the legal moves for the player to move in state.
//
// With no legal moves it returns game.NoMove without searching. Otherwise the first legal move is
// the fallback: it is returned when no search completes in time.
//
// A fixed depth searcher runs a single search. An iterative searcher searches at depth 1, 2, ...
// for as long as more than Threshold is left on the clock, and returns the move of the deepest
// search that completed. It also stops at MaxDepth, or once a search reached the end of every line
// of play, since searching deeper would not change anything.
func (s *Searcher) SelectMove(state game.State, legal []game.Move, timeLeft Timer) game.Move {
	s.stats = Stats{}
	s.tree = nil
	if len(legal) == 0 {
		s.log.Debug().Int("move_number", state.MoveNumber()).Msg("no legal moves")
		return game.NoMove
	}
	best := legal[0]

	if !s.Iterative {
		r, m := s.run(state, s.Depth, timeLeft)
		if r.Aborted() {
			s.stats.Aborted = true
			s.log.Debug().Int("depth", s.Depth).Stringer("fallback", best).Msg("search aborted")
			return best
		}
		if !m.IsNone() {
			best = m
		}
		s.completed(s.Depth, r, best)
		return best
	}

	for depth := 1; s.MaxDepth == 0 || depth <= s.MaxDepth; depth++ {
		if timeLeft != nil && timeLeft() <= s.Threshold {
			break
		}
		r, m := s.run(state, depth, timeLeft)
		if r.Aborted() {
			s.stats.Aborted = true
			s.log.Debug().Int("depth", depth).Stringer("best", best).Msg("search aborted")
			break
		}
		if !m.IsNone() {
			best = m
		}
		s.completed(depth, r, best)
		if !s.deeper {
			break
		}
	}
	return best
}

// SelectMove is a convenience function that creates a Searcher from conf and selects a move.
func SelectMove(state game.State, legal []game.Move, timeLeft Timer, conf Config) game.Move {
	return New(conf).SelectMove(state, legal, timeLeft)
}

// Minimax runs a minimax search of state to the given depth for the player to move. The score is
// from that player's point of view, and the move is the first of the best moves in the order
// LegalMoves lists them. The Result is aborted if timeLeft ran low.
func (s *Searcher) Minimax(state game.State, depth int, timeLeft Timer) (Result, game.Move) {
	s.start(state, timeLeft)
	return s.minimax(state, depth, true, s.root(state))
}

// AlphaBeta is like Minimax but prunes branches that cannot affect the result.
func (s *Searcher) AlphaBeta(state game.State, depth int, timeLeft Timer) (Result, game.Move) {
	s.start(state, timeLeft)
	return s.alphabeta(state, depth, math32.Inf(-1), math32.Inf(1), true, s.root(state))
}

func (s *Searcher) run(state game.State, depth int, timeLeft Timer) (r Result, m game.Move) {
	s.start(state, timeLeft)
	root := s.root(state)
	switch s.Algorithm {
	case AlphaBeta:
		r, m = s.alphabeta(state, depth, math32.Inf(-1), math32.Inf(1), true, root)
	default:
		r, m = s.minimax(state, depth, true, root)
	}
	if !r.Aborted() && root != nil {
		s.tree = root
	}
	return r, m
}

func (s *Searcher) start(state game.State, timeLeft Timer) {
	s.self = state.ToMove()
	s.timeLeft = timeLeft
	s.deeper = false
	s.nextID = 0
}

func (s *Searcher) completed(depth int, r Result, best game.Move) {
	s.stats.Depth = depth
	s.stats.Score = r
	s.log.Debug().
		Int("depth", depth).
		Stringer("best", best).
		Float32("score", float32(r)).
		Int("nodes", s.stats.Nodes).
		Int("cutoffs", s.stats.Cutoffs).
		Msg("search completed")
}

// expired returns true once the time left is below the threshold.
func (s *Searcher) expired() bool {
	return s.timeLeft != nil && s.timeLeft() < s.Threshold
}

// leaf scores state if the search stops here.
func (s *Searcher) leaf(state game.State, depth int, legal []game.Move, n *node) (Result, game.Move, bool) {
	if depth > 0 && len(legal) > 0 {
		return 0, game.NoMove, false
	}
	if len(legal) > 0 {
		s.deeper = true
	}
	score := s.Evaluator.Score(state, s.self)
	if math32.IsNaN(score) {
		score = 0
	}
	r := Result(score)
	n.set(r, game.NoMove)
	return r, game.NoMove, true
}

func worst(maximizing bool) Result {
	if maximizing {
		return Result(math32.Inf(-1))
	}
	return Result(math32.Inf(1))
}

// better reports if a is strictly better than b for the side choosing. Ties go to whichever came first.
func better(a, b Result, maximizing bool) bool {
	if maximizing {
		return a > b
	}
	return a < b
}
