package gtp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/search"
	"github.com/pkg/errors"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func quit(e *Engine) string       { e.done = true; return "" }
func clearBoard(e *Engine) string { e.reset(e.states[0]); return "" }
func showboard(e *Engine) string  { return fmt.Sprintf("\n%v", e.State()) }

func undo(e *Engine, args []string) (string, error) {
	if len(e.states) == 1 {
		return "", errors.New("cannot undo")
	}
	e.states = e.states[:len(e.states)-1]
	return "", nil
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func boardSize(e *Engine, args []string) (string, error) {
	if e.New == nil {
		return "", errors.New("unacceptable size")
	}
	switch len(args) {
	case 0:
		return "", errors.New("Not enough arguments for \"boardsize\"")
	case 1:
		size, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.WithMessage(err, "Unable to parse first argument of boardsize")
		}
		return "", newGame(e, size, size)
	default:
		newM, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.WithMessage(err, "Unable to parse first argument of boardsize")
		}
		newN, err := strconv.Atoi(args[1])
		if err != nil {
			return "", errors.WithMessage(err, "Unable to parse second argument of boardsize")
		}
		return "", newGame(e, newM, newN)
	}
}

func newGame(e *Engine, m, n int) (err error) {
	if m <= 0 || n <= 0 {
		return errors.New("unacceptable size")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("unacceptable size: %v", r)
		}
	}()
	e.reset(e.New(m, n))
	return nil
}

// play takes an optional colour, then a row and a column.
func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	g := e.State()
	if len(args) > 2 {
		if err := checkColour(g, args[0]); err != nil {
			return "", err
		}
		args = args[1:]
	}
	m, err := parseMove(args[0], args[1])
	if err != nil {
		return "", err
	}
	if !g.Check(m) {
		return "", errors.Errorf("illegal move %v", m)
	}
	e.push(g.Forecast(m))
	return "", nil
}

func genmove(e *Engine, args []string) (string, error) {
	if e.Searcher == nil {
		return "", errors.New("Unable to generate moves. No searcher found")
	}
	g := e.State()
	if len(args) > 0 {
		if err := checkColour(g, args[0]); err != nil {
			return "", err
		}
	}

	m := e.Searcher.SelectMove(g, g.LegalMoves(g.ToMove()), search.Countdown(e.moveTime()))
	if m.IsNone() {
		return "pass", nil
	}
	e.push(g.Forecast(m))
	return fmt.Sprintf("%d %d", m.Row, m.Col), nil
}

func timeLeft(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"time_left\"")
	}
	ms, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse time_left argument")
	}
	if ms < 0 {
		return "", errors.Errorf("Negative time left %d", ms)
	}
	e.budget = time.Duration(ms) * time.Millisecond
	return "", nil
}

func parseMove(row, col string) (game.Move, error) {
	r, err := strconv.Atoi(row)
	if err != nil {
		return game.NoMove, errors.WithMessage(err, "Unable to parse row")
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return game.NoMove, errors.WithMessage(err, "Unable to parse column")
	}
	return game.Move{Row: r, Col: c}, nil
}

func checkColour(g game.State, arg string) error {
	var p game.Player
	switch arg {
	case "b", "black", "x":
		p = game.Player(game.Black)
	case "w", "white", "o":
		p = game.Player(game.White)
	default:
		return errors.Errorf("Unknown colour %q", arg)
	}
	if p != g.ToMove() {
		return errors.Errorf("%v is not to move", p)
	}
	return nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),

		"known_command": stdlib2(knownCommand),
		"boardsize":     stdlib2(boardSize),
		"undo":          stdlib2(undo),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
		"time_left":     stdlib2(timeLeft),
	}
}
