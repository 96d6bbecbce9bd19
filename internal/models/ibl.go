package models

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/cogmodel/declmem/memory"
)

// IBL choice labels and payoffs: the safe choice always pays 1, the risky
// choice pays 3 with probability one third and otherwise nothing.
const (
	ChoiceSafe  = "safe"
	ChoiceRisky = "risky"

	safePayoff  = 1.0
	riskyPayoff = 3.0
	riskyChance = 1.0 / 3.0
)

// IBLResult aggregates a safe/risky experiment over many simulated
// participants.
type IBLResult struct {
	Participants int
	Rounds       int

	// RiskyFraction[r] is the fraction of participants choosing risky on
	// round r.
	RiskyFraction []float64
}

// RunIBL simulates an instance-based-learning experiment: each participant
// starts from a memory prepopulated with one safe and two risky outcomes to
// force initial exploration, then repeatedly picks the choice with the
// higher blended outcome and learns the payoff actually received.
func RunIBL(m *memory.Memory, rng *rand.Rand, participants, rounds int) (*IBLResult, error) {
	if participants <= 0 || rounds <= 0 {
		return nil, fmt.Errorf("participants and rounds must be positive, not %d and %d", participants, rounds)
	}
	result := &IBLResult{
		Participants:  participants,
		Rounds:        rounds,
		RiskyFraction: make([]float64, rounds),
	}
	choices := []any{ChoiceSafe, ChoiceRisky}
	for p := 0; p < participants; p++ {
		m.Reset(false)
		for _, seed := range []struct {
			choice  string
			outcome float64
		}{
			{ChoiceSafe, safePayoff},
			{ChoiceRisky, 0},
			{ChoiceRisky, 2},
		} {
			if _, _, err := m.Learn(map[string]any{"choice": seed.choice, "outcome": seed.outcome}, 0); err != nil {
				return nil, fmt.Errorf("prepopulate: %w", err)
			}
		}
		if _, err := m.Advance(1); err != nil {
			return nil, err
		}
		for r := 0; r < rounds; r++ {
			choice, _, ok, err := m.BestBlend("outcome", choices, "choice", nil)
			if err != nil {
				return nil, fmt.Errorf("participant %d round %d: %w", p, r, err)
			}
			if !ok {
				return nil, fmt.Errorf("participant %d round %d: no blendable choice", p, r)
			}
			payoff := safePayoff
			if choice == ChoiceRisky {
				result.RiskyFraction[r]++
				payoff = 0
				if rng.Float64() < riskyChance {
					payoff = riskyPayoff
				}
			}
			if _, _, err := m.Learn(map[string]any{"choice": choice, "outcome": payoff}, 1); err != nil {
				return nil, fmt.Errorf("participant %d round %d learn: %w", p, r, err)
			}
		}
	}
	for r := range result.RiskyFraction {
		result.RiskyFraction[r] /= float64(participants)
	}
	return result, nil
}
