package search

import "github.com/gorgonia/abgo/game"

// minimax returns the minimax score of state searched to depth, and the move that achieves it.
// Maximizing levels are the root player's turns.
func (s *Searcher) minimax(state game.State, depth int, maximizing bool, n *node) (Result, game.Move) {
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
		r, _ := s.minimax(state.Forecast(m), depth-1, !maximizing, n.child(player, m))
		if r.Aborted() {
			return r, game.NoMove
		}
		if bestMove.IsNone() || better(r, best, maximizing) {
			best, bestMove = r, m
		}
	}
	n.set(best, bestMove)
	return best, bestMove
}
