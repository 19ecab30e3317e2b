// Package gtp is a line based text protocol to play games against a Searcher. It follows the
// shape of the Go Text Protocol: every command may be prefixed with a numeric id, successful
// replies start with "=" and failures with "?", and every reply ends with an empty line.
//
// Moves are written as two integers, the row and the column.
package gtp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/search"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Engine struct {
	states []game.State // states[0] is the starting position, the last one the current

	known map[string]Command

	ch   chan string
	ret  chan string
	done bool

	Searcher *search.Searcher          // generates moves
	New      func(m, n int) game.State // creates games of different sizes
	Logger   zerolog.Logger
	MoveTime time.Duration // time for genmove until the controller sends time_left
	budget   time.Duration // set by time_left

	name, version string
}

// DefaultMoveTime is how long genmove searches for when no time was given.
const DefaultMoveTime = time.Second

func New(g game.State, name, version string, known map[string]Command) *Engine {
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		states:   []game.State{g},
		known:    known,
		Logger:   zerolog.Nop(),
		MoveTime: DefaultMoveTime,
		name:     name,
		version:  version,
	}
}

// Start starts processing commands. Commands are sent on input and replies come back on output.
// output is closed after the reply to "quit".
func (e *Engine) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

// State returns the current state of the game.
func (e *Engine) State() game.State { return e.states[len(e.states)-1] }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		id, x, args, err := e.parse(cmd)
		if x == nil && err == nil {
			continue // blank line or comment
		}
		if err != nil {
			e.ret <- handleErr(id, err)
			continue
		}
		id, result, err := x.Do(id, args, e)
		e.Logger.Debug().Str("command", cmd).Str("result", result).Err(err).Msg("handled")
		e.ret <- handleResult(id, result, err)
		if e.done {
			return
		}
	}
}

// moveTime is the time genmove may take. Searches always get a deadline, since an iterative search
// of a large game would not finish on its own.
func (e *Engine) moveTime() time.Duration {
	switch {
	case e.budget > 0:
		return e.budget
	case e.MoveTime > 0:
		return e.MoveTime
	}
	return DefaultMoveTime
}

func (e *Engine) push(s game.State) { e.states = append(e.states, s) }

func (e *Engine) reset(g game.State) { e.states = append(e.states[:0], g) }

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess drops comments and lowercases the command.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
