package abgo

import (
	"time"

	"github.com/gorgonia/abgo/game"
)

type Config struct {
	Name      string        // name of the game
	TimeLimit time.Duration // how long an agent may think about each move. 0 means forever.

	// tournament
	Rounds      int // every pair of entrants plays twice a round, once as each colour
	Concurrency int // how many games may be played at the same time

	// extensions
	OutputEncoder OutputEncoder
}

// DefaultConfig is the setup of the isolation tournaments: 150ms a move.
func DefaultConfig() Config {
	return Config{
		Name:        "Isolation",
		TimeLimit:   150 * time.Millisecond,
		Rounds:      5,
		Concurrency: 1,
	}
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}

// Reason is why a game ended.
type Reason byte

const (
	Finished    Reason = iota // the game ended by its own rules
	Timeout                   // the player to move ran out of time
	IllegalMove               // the player to move returned a move that is not legal
)

func (r Reason) String() string {
	switch r {
	case Finished:
		return "finished"
	case Timeout:
		return "timeout"
	case IllegalMove:
		return "illegal move"
	}
	return "unknown"
}

// Outcome is the result of a game.
type Outcome struct {
	Winner  game.Player // None for draws
	Reason  Reason
	History []game.PlayerMove
}
