package abgo

import (
	"time"

	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/search"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

var _ game.MetaState = &Arena{}

// Arena is where two agents play a game against each other.
//
// Each agent has TimeLimit to pick each move. An agent that is still thinking when its time is up,
// or that picks an illegal move, forfeits the game.
type Arena struct {
	r       *rand.Rand
	initial game.State
	game    game.State
	A, B    *Agent
	Logger  zerolog.Logger

	// state
	currentPlayer *Agent
	timeLimit     time.Duration
	history       []game.PlayerMove

	name       string
	round      int // which round of a tournament
	gameNumber int // which game is this in
}

// NewArena makes an arena given the starting state of a game. Every game the arena plays starts
// from g.
func NewArena(g game.State, a, b *Agent, conf Config) *Arena {
	name := conf.Name
	if name == "" {
		name = "UNKNOWN GAME"
	}
	return &Arena{
		r:         rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		initial:   g.Clone(),
		game:      g.Clone(),
		A:         a,
		B:         b,
		Logger:    zerolog.Nop(),
		timeLimit: conf.TimeLimit,
		name:      name,
	}
}

// Play plays a game with a randomly chosen agent moving first.
func (a *Arena) Play(enc OutputEncoder) (Outcome, error) {
	if a.r.Intn(2) == 0 {
		return a.PlayFirst(a.A, enc)
	}
	return a.PlayFirst(a.B, enc)
}

// PlayFirst plays a game with first to move first. The returned error is only about encoding;
// the outcome is valid regardless.
func (a *Arena) PlayFirst(first *Agent, enc OutputEncoder) (outcome Outcome, err error) {
	if first != a.A && first != a.B {
		return outcome, errors.Errorf("%q is not playing in this arena", first.Name)
	}
	a.game = a.initial.Clone()
	a.history = a.history[:0]
	a.currentPlayer = first
	a.currentPlayer.Player = a.game.ToMove()
	a.other().Player = a.game.Opponent(a.game.ToMove())

	log := a.Logger.With().
		Str("game", a.name).
		Int("round", a.round).
		Int("game_number", a.gameNumber).
		Logger()
	log.Debug().Str("first", first.Name).Str("second", a.other().Name).Msg("playing")

	var errs error
	ended, winner := a.game.Ended()
	for !ended {
		current := a.currentPlayer
		legal := a.game.LegalMoves(current.Player)

		var timeLeft search.Timer
		if a.timeLimit > 0 {
			timeLeft = search.Countdown(a.timeLimit)
		}
		move := current.Search(a.game.Clone(), legal, timeLeft)
		a.history = append(a.history, game.PlayerMove{Player: current.Player, Move: move})
		log.Debug().Str("agent", current.Name).Stringer("move", move).Int("legal", len(legal)).Msg("moved")

		if timeLeft != nil && timeLeft() < 0 {
			outcome.Reason = Timeout
			winner = a.other().Player
			break
		}
		if !a.game.Check(move) {
			outcome.Reason = IllegalMove
			winner = a.other().Player
			break
		}

		a.game = a.game.Forecast(move)
		a.switchPlayer()
		if enc != nil {
			if err := enc.Encode(a); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		ended, winner = a.game.Ended()
	}

	a.A.record(a.A.Player, winner)
	a.B.record(a.B.Player, winner)

	outcome.Winner = winner
	outcome.History = make([]game.PlayerMove, len(a.history))
	copy(outcome.History, a.history)

	evt := log.Info().Stringer("reason", outcome.Reason).Int("moves", len(a.history))
	if w := a.agentOf(winner); w != nil {
		evt = evt.Str("winner", w.Name)
	} else {
		evt = evt.Str("winner", "none")
	}
	evt.Msg("game over")
	return outcome, errs
}

func (a *Arena) Round() int                  { return a.round }
func (a *Arena) GameNumber() int             { return a.gameNumber }
func (a *Arena) Name() string                { return a.name }
func (a *Arena) State() game.State           { return a.game }
func (a *Arena) History() []game.PlayerMove  { return a.history }
func (a *Arena) Score(p game.Player) float64 { return float64(a.winsOf(p)) }

func (a *Arena) winsOf(p game.Player) float32 {
	ag := a.agentOf(p)
	if ag == nil {
		return 0
	}
	ag.Lock()
	defer ag.Unlock()
	return ag.Wins
}

func (a *Arena) agentOf(p game.Player) *Agent {
	switch p {
	case game.Player(game.None):
		return nil
	case a.A.Player:
		return a.A
	case a.B.Player:
		return a.B
	}
	return nil
}

func (a *Arena) other() *Agent {
	if a.currentPlayer == a.A {
		return a.B
	}
	return a.A
}

func (a *Arena) switchPlayer() {
	switch a.currentPlayer {
	case a.A:
		a.currentPlayer = a.B
	case a.B:
		a.currentPlayer = a.A
	}
}
