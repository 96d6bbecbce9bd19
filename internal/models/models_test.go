package models

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/cogmodel/declmem/memory"
)

func TestPlayRPS(t *testing.T) {
	m := memory.New(11)
	if err := m.SetNoise(0.1); err != nil {
		t.Fatalf("SetNoise: %v", err)
	}
	rng := rand.New(rand.NewSource(11))

	result, err := PlayRPS(m, rng, 100)
	if err != nil {
		t.Fatalf("PlayRPS: %v", err)
	}
	if result.Rounds != 100 || len(result.Moves1) != 100 || len(result.Moves2) != 100 {
		t.Fatalf("result sizes: %d rounds, %d/%d moves", result.Rounds, len(result.Moves1), len(result.Moves2))
	}

	legal := map[string]bool{"rock": true, "paper": true, "scissors": true}
	for i := range result.Moves1 {
		if !legal[result.Moves1[i]] || !legal[result.Moves2[i]] {
			t.Fatalf("illegal move on round %d: %q vs %q", i, result.Moves1[i], result.Moves2[i])
		}
	}
	if result.Score > result.Rounds || result.Score < -result.Rounds {
		t.Errorf("score %d out of bounds for %d rounds", result.Score, result.Rounds)
	}

	// every learned chunk describes a move by one of the two players
	for _, c := range m.Chunks() {
		player, ok := c.Get("player")
		if !ok || (player != "player1" && player != "player2") {
			t.Errorf("chunk %s has player %v", c.Name(), player)
		}
		move, ok := c.Get("move")
		if !ok || !legal[move.(string)] {
			t.Errorf("chunk %s has move %v", c.Name(), move)
		}
	}
}

func TestRunIBL(t *testing.T) {
	m := memory.New(5)
	rng := rand.New(rand.NewSource(5))

	result, err := RunIBL(m, rng, 300, 40)
	if err != nil {
		t.Fatalf("RunIBL: %v", err)
	}
	if len(result.RiskyFraction) != 40 {
		t.Fatalf("rounds recorded = %d, want 40", len(result.RiskyFraction))
	}
	for r, f := range result.RiskyFraction {
		if f < 0 || f > 1 {
			t.Fatalf("round %d risky fraction %v out of range", r, f)
		}
	}

	// risk aversion: the early preference for risky decays toward a low
	// steady state
	early := (result.RiskyFraction[0] + result.RiskyFraction[1] + result.RiskyFraction[2]) / 3
	n := len(result.RiskyFraction)
	late := (result.RiskyFraction[n-3] + result.RiskyFraction[n-2] + result.RiskyFraction[n-1]) / 3
	if late >= early {
		t.Errorf("risky fraction did not decline: early %v, late %v", early, late)
	}
	if early < 0.25 || early > 0.75 {
		t.Errorf("early risky fraction %v far from initial indifference", early)
	}
}

func TestModelValidation(t *testing.T) {
	m := memory.New(1)
	rng := rand.New(rand.NewSource(1))
	if _, err := PlayRPS(m, rng, 0); err == nil {
		t.Error("PlayRPS with zero rounds should fail")
	}
	if _, err := RunIBL(m, rng, 0, 10); err == nil {
		t.Error("RunIBL with zero participants should fail")
	}
}
