// Command isolation runs a round robin tournament of isolation playing agents.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gorgonia/abgo"
	"github.com/gorgonia/abgo/encoding/gif"
	"github.com/gorgonia/abgo/game"
	"github.com/gorgonia/abgo/game/isolation"
	"github.com/gorgonia/abgo/heuristic"
	"github.com/gorgonia/abgo/search"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	rounds      = flag.Int("rounds", 5, "number of rounds. Every pair of agents plays twice a round")
	timeLimit   = flag.Duration("time", 150*time.Millisecond, "time each agent has per move")
	timeout     = flag.Duration("timeout", 10*time.Millisecond, "how long agents need to return a move once they stop searching")
	concurrency = flag.Int("concurrency", 1, "games to play at the same time")
	size        = flag.Int("size", 7, "size of the board")
	student     = flag.String("eval", "aggressive", "evaluator of the Student agent")
	gifOut      = flag.String("gif", "", "write the games to this GIF file. Only with -concurrency 1")
	statsOut    = flag.String("stats", "", "write win rates per round to this CSV file")
	verbose     = flag.Bool("v", false, "log every game")
	seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed of the random agent")
)

func searcher(name string, algo search.Algorithm, depth int, iterative bool, f heuristic.Func) *abgo.Agent {
	conf := search.DefaultConfig()
	conf.Algorithm = algo
	conf.Depth = depth
	conf.Iterative = iterative
	conf.Threshold = search.ThresholdFor(*timeout)
	conf.Evaluator = search.EvaluatorFunc(f)
	return abgo.NewAgent(name, conf, search.WithLogger(log.Logger))
}

func agents() []*abgo.Agent {
	eval, ok := heuristic.ByName(*student)
	if !ok {
		log.Fatal().Str("eval", *student).Strs("known", heuristic.Names()).Msg("unknown evaluator")
	}
	return []*abgo.Agent{
		abgo.RandomAgent("Random", *seed),
		searcher("MM_Null", search.Minimax, 3, false, heuristic.Null),
		searcher("MM_Open", search.Minimax, 3, false, heuristic.Open),
		searcher("MM_Improved", search.Minimax, 3, false, heuristic.Improved),
		searcher("AB_Null", search.AlphaBeta, 5, false, heuristic.Null),
		searcher("AB_Open", search.AlphaBeta, 5, false, heuristic.Open),
		searcher("AB_Improved", search.AlphaBeta, 5, false, heuristic.Improved),
		searcher("ID_Improved", search.AlphaBeta, 0, true, heuristic.Improved),
		searcher("Student", search.AlphaBeta, 0, true, eval),
	}
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf := abgo.DefaultConfig()
	conf.TimeLimit = *timeLimit
	conf.Rounds = *rounds
	conf.Concurrency = *concurrency

	if *gifOut != "" {
		f, err := os.Create(*gifOut)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to create GIF file")
		}
		defer f.Close()
		enc := gif.NewGifEncoder(800, 800)
		enc.Writer = f
		conf.OutputEncoder = enc
	}

	newGame := func() game.State { return isolation.New(*size, *size) }
	t := abgo.NewTournament(newGame, conf, agents()...)
	t.Logger = log.Logger

	start := time.Now()
	if err := t.Run(); err != nil {
		log.Error().Err(err).Msg("tournament finished with errors")
	}
	log.Info().Dur("took", time.Since(start)).Msg("tournament over")

	if *statsOut != "" {
		if err := t.Dump(*statsOut); err != nil {
			log.Error().Err(err).Str("file", *statsOut).Msg("unable to write statistics")
		}
	}
	summary(t.Standings())
}

func summary(standings []abgo.Standing) {
	bold := color.New(color.Bold)
	bold.Printf("%-4s %-14s %6s %6s %6s %8s\n", "#", "Agent", "Won", "Lost", "Drawn", "Win rate")
	for i, s := range standings {
		var rate float32
		if total := s.Wins + s.Loss + s.Draw; total > 0 {
			rate = s.Wins / total
		}
		line := fmt.Sprintf("%-4d %-14s %6.0f %6.0f %6.0f %7.1f%%", i+1, s.Name, s.Wins, s.Loss, s.Draw, rate*100)
		switch {
		case i == 0:
			color.Green(line)
		case i == len(standings)-1:
			color.Red(line)
		default:
			fmt.Println(line)
		}
	}
}
