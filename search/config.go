package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Algorithm is the tree search a Searcher runs at each depth.
type Algorithm byte

const (
	Minimax Algorithm = iota
	AlphaBeta
	MAXALGORITHM
)

func (a Algorithm) String() string {
	switch a {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	}
	return fmt.Sprintf("Algorithm(%d)", byte(a))
}

// ParseAlgorithm parses the name of an algorithm as printed by String.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "minimax":
		return Minimax, nil
	case "alphabeta", "alpha-beta":
		return AlphaBeta, nil
	}
	return MAXALGORITHM, errors.Errorf("Unknown search algorithm %q", s)
}

type Config struct {
	Depth     int  // search depth when not deepening iteratively
	Iterative bool // deepen 1, 2, ... until the clock runs low
	Algorithm Algorithm

	// Threshold is how much time must be left for the search to keep going. Once the time left drops
	// below it the search is abandoned.
	Threshold time.Duration

	// MaxDepth caps iterative deepening. 0 means no cap.
	MaxDepth int

	Evaluator Evaluator
}

func DefaultConfig() Config {
	return Config{
		Depth:     3,
		Iterative: true,
		Algorithm: Minimax,
		Threshold: 15 * time.Millisecond,
		Evaluator: Utility,
	}
}

func (c Config) IsValid() bool {
	if c.Evaluator == nil || c.Algorithm >= MAXALGORITHM {
		return false
	}
	if c.Threshold < 0 || c.MaxDepth < 0 || c.Depth < 0 {
		return false
	}
	return c.Iterative || c.Depth > 0
}

// ThresholdFor returns the abort threshold for a per move time limit of timeout.
func ThresholdFor(timeout time.Duration) time.Duration { return timeout * 3 / 2 }
