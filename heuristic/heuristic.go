// Package heuristic provides board evaluation functions for two player games.
//
// Every evaluator scores a state from the point of view of the given player: higher is better for
// that player. A finished game scores its utility (+Inf or -Inf) unchanged, so that searches rank
// real wins and losses above any estimate.
//
// The evaluators here are based on mobility: how many legal moves each side has. They suit games
// like isolation where running out of moves loses.
//
// Null and Improved are antisymmetric: f(s, p) == -f(s, opponent), so the best child for p is the
// worst child for the opponent whichever side scores it. Open, Weighted, Aggressive and Conservative
// are not. A search only ever scores states for its root player, so they are still consistent
// within one search, but a score for one side says nothing exact about the other side's score.
package heuristic

import (
	"github.com/gorgonia/abgo/game"
	"gorgonia.org/vecf32"
)

// Func is the signature shared by every evaluator in this package. search.EvaluatorFunc accepts it.
type Func func(s game.State, p game.Player) float32

// Null scores every unfinished game as 0.
func Null(s game.State, p game.Player) float32 { return s.Utility(p) }

// Open scores a state by how many moves p has.
func Open(s game.State, p game.Player) float32 {
	if u := s.Utility(p); u != 0 {
		return u
	}
	return float32(len(s.LegalMoves(p)))
}

var (
	weighted = Linear{Weights: []float32{1, -2}}
	improved = Linear{Weights: []float32{1, -1}}
)

// Weighted scores own moves minus twice the opponent's moves.
func Weighted(s game.State, p game.Player) float32 { return weighted.Score(s, p) }

// Improved scores own moves minus the opponent's moves.
func Improved(s game.State, p game.Player) float32 { return improved.Score(s, p) }

// Aggressive chases the opponent. Until half the board is filled it scores own moves minus twice the
// opponent's moves; after that only the opponent's moves count, negated.
func Aggressive(s game.State, p game.Player) float32 {
	if u := s.Utility(p); u != 0 {
		return u
	}
	opp := float32(len(s.LegalMoves(s.Opponent(p))))
	if pastHalf(s) {
		return -opp
	}
	own := float32(len(s.LegalMoves(p)))
	return own - 2*opp
}

// Conservative is the mirror of Aggressive: past half the board only its own moves count.
func Conservative(s game.State, p game.Player) float32 {
	if u := s.Utility(p); u != 0 {
		return u
	}
	own := float32(len(s.LegalMoves(p)))
	if pastHalf(s) {
		return own
	}
	opp := float32(len(s.LegalMoves(s.Opponent(p))))
	return own - 2*opp
}

// Linear is a weighted sum of mobility features. The features are, in order:
//		- the number of moves p has
//		- the number of moves p's opponent has
// Missing weights are treated as 0, extra weights are ignored.
type Linear struct {
	Weights []float32
}

// Score implements search.Evaluator.
func (l Linear) Score(s game.State, p game.Player) float32 {
	if u := s.Utility(p); u != 0 {
		return u
	}
	features := Features(s, p)
	w := make([]float32, len(features))
	copy(w, l.Weights)
	vecf32.Mul(features, w)
	return vecf32.Sum(features)
}

// Features returns the mobility features Linear weighs.
func Features(s game.State, p game.Player) []float32 {
	return []float32{
		float32(len(s.LegalMoves(p))),
		float32(len(s.LegalMoves(s.Opponent(p)))),
	}
}

// ByName returns the named evaluator. It's used by commands that take an evaluator as a flag.
func ByName(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}

// Names lists the evaluators ByName knows.
func Names() []string { return []string{"aggressive", "conservative", "weighted", "improved", "open", "null"} }

var byName = map[string]Func{
	"aggressive":   Aggressive,
	"conservative": Conservative,
	"weighted":     Weighted,
	"improved":     Improved,
	"open":         Open,
	"null":         Null,
}

func pastHalf(s game.State) bool {
	h, w := s.BoardSize()
	return float32(s.MoveNumber())/float32(h*w) > 0.5
}
