package game

import (
	"fmt"
)

type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		}
	case 's': // used in board games
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		}
	}
}

// Player represents a player. It's also a colour.
type Player Colour

func (p Player) Format(s fmt.State, c rune) { Colour(p).Format(s, c) }

// Opponent returns the other participant of a two player game. None has no opponent.
func Opponent(p Player) Player {
	switch Colour(p) {
	case Black:
		return Player(White)
	case White:
		return Player(Black)
	}
	return Player(None)
}

// Move is a (row, col) coordinate on the board.
//
// Move uses standard computer cartesian coordinates:
//		- (0, 0) represents the top left
//		- (6, 6) represents the bottom right of a 7x7 board
//		- (-1, -1) represents "no legal move available" (NoMove)
type Move struct {
	Row, Col int
}

// NoMove is returned when there are no legal moves left.
var NoMove = Move{-1, -1}

// IsNone returns true when the move is the NoMove sentinel.
func (m Move) IsNone() bool { return m == NoMove }

func (m Move) String() string { return fmt.Sprintf("%v", m) }

func (m Move) Format(s fmt.State, c rune) {
	if m.IsNone() {
		fmt.Fprint(s, "none")
		return
	}
	fmt.Fprintf(s, "(%d, %d)", m.Row, m.Col)
}

// PlayerMove is a tuple indicating the player and the move to be made.
type PlayerMove struct {
	Player
	Move
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Move == other.Move
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%v", p.Player, p.Move) }

// State is any two player, zero sum, perfect information game that a search can walk.
//
// A State is treated as immutable by the search: Forecast returns a new State and must never
// modify the receiver. LegalMoves must return moves in a stable order for a given state, since
// search results (tie breaks, cutoffs) depend on that order.
type State interface {
	// These methods represent the game state
	BoardSize() (int, int) // returns the board size as (height, width)
	MoveNumber() int       // returns count of moves so far that led to this point.
	ToMove() Player        // returns the player to move
	LastMove() PlayerMove  // returns the last move that was made

	// rules
	LegalMoves(p Player) []Move // all legal moves of p. Empty means p cannot move.
	Check(m Move) bool          // check if the move is legal for the player to move
	Forecast(m Move) State      // returns the state after the player to move plays m. Panics with an IllegalMoveError if m is not legal.
	Opponent(p Player) Player   // returns the other participant

	// Meta-game stuff
	Utility(p Player) float32           // +Inf/-Inf from p's point of view once the game is over, exactly 0 otherwise
	Ended() (ended bool, winner Player) // has the game ended? if yes, then who's the winner?

	// generics
	Eq(other State) bool
	Clone() State
}

// MetaState is the state of a game being played in an arena.
type MetaState interface {
	Name() string // name of the game
	Round() int
	GameNumber() int
	Score(a Player) float64
	State() State
}
