package search

import "github.com/gorgonia/abgo/game"

// alphabeta is minimax with alpha-beta pruning. alpha and beta are this level's own copies.
//
// When a child's score reaches beta on a maximizing level (or falls to alpha on a minimizing
// level) the remaining children are skipped, and that child's score and move are returned as they
// are. Scores of pruned levels are bounds, not exact values, but the root's score and move are
// always the same as minimax's: beta stays +Inf at the root, so the root only cuts off on a win.
func (s *Searcher) alphabeta(state game.State, depth int, alpha, beta float32, maximizing bool, n *node) (Result, game.Move) {
	if s.expired() {
		return noResult(), game.NoMove
	}
	s.stats.Nodes++

	player := state.ToMove()
	legal := state.LegalMoves(player)
	if r, m, ok := s.leaf(state, depth, legal, n); ok {
		return r, m
	}

	best, bestMove := worst(maximizing), game.NoMove
	for _, m := range legal {
		r, _ := s.alphabeta(state.Forecast(m), depth-1, alpha, beta, !maximizing, n.child(player, m))
		if r.Aborted() {
			return r, game.NoMove
		}
		score := float32(r)
		if (maximizing && score >= beta) || (!maximizing && score <= alpha) {
			s.stats.Cutoffs++
			n.cut(r, m)
			return r, m
		}
		if maximizing && score > alpha {
			alpha = score
		}
		if !maximizing && score < beta {
			beta = score
		}
		if bestMove.IsNone() || better(r, best, maximizing) {
			best, bestMove = r, m
		}
	}
	n.set(best, bestMove)
	return best, bestMove
}
