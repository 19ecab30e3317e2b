// Command engine plays games over the gtp text protocol on stdin and stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/game/c4"
	"github.com/gorgonia/abgo/game/chess"
	"github.com/gorgonia/abgo/game/isolation"
	"github.com/gorgonia/abgo/game/mnk"
	"github.com/gorgonia/abgo/gtp"
	"github.com/gorgonia/abgo/heuristic"
	"github.com/gorgonia/abgo/search"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

var (
	gameName  = flag.String("game", "isolation", "isolation, tictactoe, connect4 or chess")
	algo      = flag.String("algo", "alphabeta", "minimax or alphabeta")
	depth     = flag.Int("depth", 0, "search to a fixed depth. 0 deepens iteratively")
	maxDepth  = flag.Int("maxdepth", 0, "deepest iterative search. 0 means no limit")
	evalName  = flag.String("eval", "improved", "evaluator. Chess also knows \"material\"")
	moveTime  = flag.Duration("time", gtp.DefaultMoveTime, "time per move until the controller sends time_left")
	timeout   = flag.Duration("timeout", 10*time.Millisecond, "how long the engine needs to return a move once it stops searching")
	debugLogs = flag.Bool("debug", false, "log search statistics to stderr")
)

// games creates a new game. The second function creates games of other sizes, for boardsize.
func games(name string) (game.State, func(m, n int) game.State, error) {
	switch name {
	case "isolation":
		return isolation.Standard(), func(m, n int) game.State { return isolation.New(m, n) }, nil
	case "tictactoe":
		return mnk.TicTacToe(), func(m, n int) game.State { return mnk.New(m, n, 3) }, nil
	case "connect4":
		return c4.Connect4(), func(m, n int) game.State { return c4.New(m, n, 4) }, nil
	case "chess":
		return chess.New(), nil, nil
	}
	return nil, nil, errors.Errorf("Unknown game %q", name)
}

func evaluator(name string) (search.Evaluator, error) {
	if name == "material" {
		return search.EvaluatorFunc(chess.Material), nil
	}
	f, ok := heuristic.ByName(name)
	if !ok {
		return nil, errors.Errorf("Unknown evaluator %q. Known: material, %s", name, strings.Join(heuristic.Names(), ", "))
	}
	return search.EvaluatorFunc(f), nil
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debugLogs {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	g, newGame, err := games(*gameName)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	conf := search.DefaultConfig()
	if conf.Algorithm, err = search.ParseAlgorithm(*algo); err != nil {
		log.Fatal().Err(err).Send()
	}
	if conf.Evaluator, err = evaluator(*evalName); err != nil {
		log.Fatal().Err(err).Send()
	}
	conf.Iterative = *depth == 0
	conf.Depth = *depth
	conf.MaxDepth = *maxDepth
	conf.Threshold = search.ThresholdFor(*timeout)

	e := gtp.New(g, *gameName, version, nil)
	e.New = newGame
	e.Searcher = search.New(conf, search.WithLogger(log.Logger))
	e.Logger = log.Logger
	e.MoveTime = *moveTime

	input, output := e.Start()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for reply := range output {
			fmt.Print(reply)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case input <- scanner.Text():
		case <-done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("unable to read input")
	}
	close(input)
	<-done
}
