// Package chess adapts github.com/notnil/chess positions to game.State.
//
// A chess move is encoded as a game.Move whose Row is the origin square and whose Col is the
// destination square, both numbered 0 (a1) to 63 (h8). Pawns always promote to a queen.
//
// Besides checkmate and stalemate, a game ends drawn by the fifty move rule, by threefold
// repetition, or when neither side has the material to mate.
package chess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gorgonia/abgo/game"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var (
	White = game.Player(game.White)
	Black = game.Player(game.Black)
)

var _ game.State = &Position{}

// Position is a chess position plus the moves that led to it.
type Position struct {
	pos     *chess.Position
	history []game.PlayerMove
	seen    [][16]byte // hashes of every position so far, this one included
}

func newPosition(pos *chess.Position) *Position {
	return &Position{pos: pos, seen: [][16]byte{pos.Hash()}}
}

// New returns the standard starting position.
func New() *Position { return newPosition(chess.NewGame().Position()) }

// FromFEN parses a position in Forsyth-Edwards Notation.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.WithMessage(err, "Unable to parse FEN")
	}
	return newPosition(chess.NewGame(opt).Position()), nil
}

// FEN returns the position in Forsyth-Edwards Notation.
func (p *Position) FEN() string { return p.pos.String() }

// Chess returns the underlying position.
func (p *Position) Chess() *chess.Position { return p.pos }

func (p *Position) BoardSize() (int, int) { return 8, 8 }

func (p *Position) MoveNumber() int { return len(p.history) }

func (p *Position) ToMove() game.Player { return player(p.pos.Turn()) }

func (p *Position) LastMove() game.PlayerMove {
	if len(p.history) > 0 {
		return p.history[len(p.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Move: game.NoMove}
}

// LegalMoves lists the moves of pl. The moves of the side not to move are those it would have if it
// were its turn.
func (p *Position) LegalMoves(pl game.Player) []game.Move {
	if p.drawn() {
		return nil
	}
	var pos *chess.Position
	switch pl {
	case p.ToMove():
		pos = p.pos
	case game.Opponent(p.ToMove()):
		if pos = flipped(p.pos); pos == nil {
			return nil
		}
	default:
		return nil
	}
	return encodeAll(pos.ValidMoves())
}

func (p *Position) Check(m game.Move) bool { return !p.drawn() && p.find(m) != nil }

func (p *Position) Forecast(m game.Move) game.State {
	mv := p.find(m)
	if mv == nil || p.drawn() {
		panic(game.IllegalMoveError{Player: p.ToMove(), Move: m})
	}
	history := make([]game.PlayerMove, len(p.history), len(p.history)+1)
	copy(history, p.history)
	seen := make([][16]byte, len(p.seen), len(p.seen)+1)
	copy(seen, p.seen)
	next := p.pos.Update(mv)
	return &Position{
		pos:     next,
		history: append(history, game.PlayerMove{Player: p.ToMove(), Move: m}),
		seen:    append(seen, next.Hash()),
	}
}

func (p *Position) Opponent(pl game.Player) game.Player { return game.Opponent(pl) }

// Utility is +Inf for the side delivering checkmate and -Inf for the mated side. Anything else is 0.
func (p *Position) Utility(pl game.Player) float32 {
	if p.pos.Status() != chess.Checkmate {
		return 0
	}
	switch pl {
	case p.ToMove():
		return math32.Inf(-1)
	case game.Opponent(p.ToMove()):
		return math32.Inf(1)
	}
	return 0
}

func (p *Position) Ended() (bool, game.Player) {
	switch p.pos.Status() {
	case chess.Checkmate:
		return true, game.Opponent(p.ToMove())
	case chess.Stalemate:
		return true, game.Player(game.None)
	}
	return p.drawn(), game.Player(game.None)
}

func (p *Position) Eq(other game.State) bool {
	ot, ok := other.(*Position)
	if !ok {
		return false
	}
	return p.pos.String() == ot.pos.String()
}

func (p *Position) Clone() game.State {
	history := make([]game.PlayerMove, len(p.history))
	copy(history, p.history)
	seen := make([][16]byte, len(p.seen))
	copy(seen, p.seen)
	return &Position{pos: p.pos, history: history, seen: seen}
}

// drawn reports a draw by the fifty move rule, threefold repetition or insufficient material.
// Mates take precedence: a position that is mate is never drawn.
func (p *Position) drawn() bool {
	if p.pos.Status() == chess.Checkmate {
		return false
	}
	return p.halfMoves() >= 100 || p.repetitions() >= 3 || insufficient(p.pos.Board())
}

// halfMoves is the number of plies since the last capture or pawn move.
func (p *Position) halfMoves() int {
	fields := strings.Fields(p.pos.String())
	if len(fields) < 5 {
		return 0
	}
	n, _ := strconv.Atoi(fields[4])
	return n
}

// repetitions counts how often the current position has occurred.
func (p *Position) repetitions() int {
	if len(p.seen) == 0 {
		return 1
	}
	cur := p.seen[len(p.seen)-1]
	var n int
	for _, h := range p.seen {
		if h == cur {
			n++
		}
	}
	return n
}

// insufficient reports if neither side can mate: bare kings, or kings and a single knight or bishop.
func insufficient(b *chess.Board) bool {
	var minors int
	for _, piece := range b.SquareMap() {
		switch piece.Type() {
		case chess.King:
		case chess.Knight, chess.Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}

func (p *Position) Format(s fmt.State, c rune) { fmt.Fprint(s, p.pos.Board().Draw()) }

func (p *Position) find(m game.Move) *chess.Move {
	for _, mv := range p.pos.ValidMoves() {
		if !keep(mv) {
			continue
		}
		if encode(mv) == m {
			return mv
		}
	}
	return nil
}

func encodeAll(moves []*chess.Move) []game.Move {
	retVal := make([]game.Move, 0, len(moves))
	for _, mv := range moves {
		if keep(mv) {
			retVal = append(retVal, encode(mv))
		}
	}
	return retVal
}

func encode(mv *chess.Move) game.Move { return game.Move{Row: int(mv.S1()), Col: int(mv.S2())} }

// keep drops underpromotions so that every (from, to) pair is a single move.
func keep(mv *chess.Move) bool {
	promo := mv.Promo()
	return promo == chess.NoPieceType || promo == chess.Queen
}

// flipped returns the position with the other side to move, or nil if that isn't a valid position.
func flipped(pos *chess.Position) *chess.Position {
	fields := strings.Fields(pos.String())
	if len(fields) < 4 {
		return nil
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-" // en passant only exists right after a double step
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil
	}
	return chess.NewGame(opt).Position()
}

func player(c chess.Color) game.Player {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return game.Player(game.None)
}

var pieceValues = map[chess.PieceType]float32{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// Material scores a chess position for pl as their material minus their opponent's, in pawns.
// Finished games score their utility, so drawn games score 0. States that are not chess positions
// score 0.
func Material(state game.State, pl game.Player) float32 {
	p, ok := state.(*Position)
	if !ok {
		return 0
	}
	if u := p.Utility(pl); u != 0 {
		return u
	}
	if p.drawn() {
		return 0
	}
	var retVal float32
	for _, piece := range p.pos.Board().SquareMap() {
		v := pieceValues[piece.Type()]
		if player(piece.Color()) == pl {
			retVal += v
		} else {
			retVal -= v
		}
	}
	return retVal
}
