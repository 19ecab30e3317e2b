package game

import (
	"fmt"
)

// IllegalMoveError is raised (as a panic) by State.Forecast when asked to play a move that is not
// legal. It is a programming error: callers only forecast moves returned by LegalMoves.
type IllegalMoveError PlayerMove

func (err IllegalMoveError) Error() string {
	return fmt.Sprintf("Unable to make %v: illegal move", PlayerMove(err))
}
