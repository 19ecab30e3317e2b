package abgo

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics are the cumulative results of each agent, recorded after every round of a tournament.
type Statistics struct {
	Creation []string // agent names, in the order they were first recorded
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

func (s *Statistics) update(A *Agent) {
	A.Lock()
	defer A.Unlock()
	if _, ok := s.Wins[A.Name]; !ok {
		s.Creation = append(s.Creation, A.Name)
	}

	s.Wins[A.Name] = append(s.Wins[A.Name], A.Wins)
	s.Losses[A.Name] = append(s.Losses[A.Name], A.Loss)
	s.Draws[A.Name] = append(s.Draws[A.Name], A.Draw)
}

// WinRate returns the win rate of the named agent after the given round. It is 0 for unknown
// agents and rounds.
func (s *Statistics) WinRate(name string, round int) float32 {
	wins := s.Wins[name]
	if round < 0 || round >= len(wins) {
		return 0
	}
	total := wins[round] + s.Losses[name][round] + s.Draws[name][round]
	if total == 0 {
		return 0
	}
	return wins[round] / total
}

// Dump writes the win rates as a CSV: a header of agent names, then one row per round.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(s.Creation); err != nil {
		return errors.WithMessage(err, "Unable to write header")
	}

	var rounds int
	for _, agent := range s.Creation {
		if len(s.Wins[agent]) > rounds {
			rounds = len(s.Wins[agent])
		}
	}
	records := make([][]string, 0, rounds)
	for r := 0; r < rounds; r++ {
		record := make([]string, len(s.Creation))
		for i, agent := range s.Creation {
			if r < len(s.Wins[agent]) {
				record[i] = strconv.FormatFloat(float64(s.WinRate(agent, r)), 'f', 3, 32)
			}
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return errors.WithMessage(err, "Unable to write win rates")
	}
	return nil
}
