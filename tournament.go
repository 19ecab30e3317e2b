package abgo

import (
	"sort"
	"sync"

	"github.com/gorgonia/abgo/game"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Tournament is a round robin between agents. In each round every pair of agents plays two games,
// each agent moving first once.
type Tournament struct {
	Config
	Statistics
	Agents []*Agent
	Logger zerolog.Logger

	newGame func() game.State
}

// NewTournament creates a tournament of the game newGame starts. It panics with fewer than two agents
// or if two agents share a name.
func NewTournament(newGame func() game.State, conf Config, agents ...*Agent) *Tournament {
	if len(agents) < 2 {
		panic("A tournament needs at least two agents")
	}
	names := make(map[string]bool)
	for _, a := range agents {
		if names[a.Name] {
			panic("Agent names must be unique. " + a.Name + " is used twice")
		}
		names[a.Name] = true
	}
	if conf.Rounds <= 0 {
		conf.Rounds = 1
	}
	if conf.Concurrency <= 0 {
		conf.Concurrency = 1
	}
	return &Tournament{
		Config:     conf,
		Statistics: makeStatistics(),
		Agents:     agents,
		Logger:     zerolog.Nop(),
		newGame:    newGame,
	}
}

type fixture struct {
	round, number int
	a, b          int // agents; a moves first
}

// Run plays every round. Games only fail on output encoding; those errors are collected and
// returned once every game has been played.
func (t *Tournament) Run() error {
	var errs error
	for _, a := range t.Agents {
		a.resetStats()
	}
	for round := 0; round < t.Rounds; round++ {
		t.Logger.Info().Int("round", round).Msg("starting round")
		if err := t.playRound(round); err != nil {
			errs = multierror.Append(errs, err)
		}
		for _, a := range t.Agents {
			t.update(a)
		}
		for _, s := range t.Standings() {
			t.Logger.Info().
				Int("round", round).
				Str("agent", s.Name).
				Float32("wins", s.Wins).
				Float32("losses", s.Loss).
				Float32("draws", s.Draw).
				Msg("standing")
		}
	}
	if t.OutputEncoder != nil {
		if err := t.OutputEncoder.Flush(); err != nil {
			errs = multierror.Append(errs, errors.WithMessage(err, "Unable to flush output"))
		}
	}
	return errs
}

func (t *Tournament) fixtures(round int) []fixture {
	var retVal []fixture
	for i := range t.Agents {
		for j := i + 1; j < len(t.Agents); j++ {
			retVal = append(retVal,
				fixture{round: round, number: len(retVal), a: i, b: j},
				fixture{round: round, number: len(retVal) + 1, a: j, b: i},
			)
		}
	}
	return retVal
}

func (t *Tournament) playRound(round int) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	// encoders see one game at a time
	enc := t.OutputEncoder
	if t.Concurrency > 1 {
		enc = nil
	}

	sem := make(chan struct{}, t.Concurrency)
	for _, f := range t.fixtures(round) {
		f := f // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		a, b := t.Agents[f.a], t.Agents[f.b]
		if t.Concurrency > 1 {
			a, b = a.clone(), b.clone()
		}
		arena := NewArena(t.newGame(), a, b, t.Config)
		arena.Logger = t.Logger
		arena.round, arena.gameNumber = f.round, f.number

		orig := [2]*Agent{t.Agents[f.a], t.Agents[f.b]}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			outcome, err := arena.PlayFirst(arena.A, enc)
			if a != orig[0] {
				orig[0].record(a.Player, outcome.Winner)
				orig[1].record(b.Player, outcome.Winner)
			}
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, errors.WithMessagef(err, "Round %d game %d", f.round, f.number))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}

// Standing is an agent's results so far.
type Standing struct {
	Name             string
	Wins, Loss, Draw float32
}

// Standings returns the results of every agent, best first. Agents are ranked by wins, then by
// fewest losses.
func (t *Tournament) Standings() []Standing {
	retVal := make([]Standing, 0, len(t.Agents))
	for _, a := range t.Agents {
		a.Lock()
		retVal = append(retVal, Standing{Name: a.Name, Wins: a.Wins, Loss: a.Loss, Draw: a.Draw})
		a.Unlock()
	}
	sort.SliceStable(retVal, func(i, j int) bool {
		if retVal[i].Wins != retVal[j].Wins {
			return retVal[i].Wins > retVal[j].Wins
		}
		return retVal[i].Loss < retVal[j].Loss
	})
	return retVal
}
