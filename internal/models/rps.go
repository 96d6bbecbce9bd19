// Package models holds the canonical consumers of the memory engine: a
// rock-paper-scissors move predictor and a safe/risky instance-based
// learning experiment. The CLI runs them; the tests lean on them as
// end-to-end exercises of learning, retrieval, and blending.
package models

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/cogmodel/declmem/memory"
)

// Moves are the legal rock-paper-scissors moves, ordered so that each move
// defeats its successor.
var Moves = []string{"paper", "rock", "scissors"}

// RPSResult describes one rock-paper-scissors match.
type RPSResult struct {
	Rounds int
	Score  int // positive favors player 1
	Moves1 []string
	Moves2 []string
}

// PlayRPS plays a lag-1 player against a lag-2 player for the given number
// of rounds, both drawing expectations from the same memory. Each player
// retrieves what it expects the opponent to play next, given the opponent's
// recent moves, and plays the move that defeats the expectation; with no
// expectation it moves at random.
func PlayRPS(m *memory.Memory, rng *rand.Rand, rounds int) (*RPSResult, error) {
	if rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, not %d", rounds)
	}
	result := &RPSResult{Rounds: rounds}
	for r := 0; r < rounds; r++ {
		move1, err := defeatExpectation(m, rng, map[string]any{
			"player":   "player2",
			"ultimate": lastMove(result.Moves2, 1),
		})
		if err != nil {
			return nil, fmt.Errorf("round %d player 1: %w", r, err)
		}
		move2, err := defeatExpectation(m, rng, map[string]any{
			"player":      "player1",
			"ultimate":    lastMove(result.Moves1, 1),
			"penultimate": lastMove(result.Moves1, 2),
		})
		if err != nil {
			return nil, fmt.Errorf("round %d player 2: %w", r, err)
		}

		winner := (moveIndex(move2) - moveIndex(move1) + len(Moves)) % len(Moves)
		if winner == 2 {
			result.Score--
		} else {
			result.Score += winner
		}

		if _, _, err := m.Learn(map[string]any{
			"player":      "player1",
			"ultimate":    lastMove(result.Moves1, 1),
			"penultimate": lastMove(result.Moves1, 2),
			"move":        move1,
		}, 1); err != nil {
			return nil, fmt.Errorf("round %d learn player 1: %w", r, err)
		}
		if _, _, err := m.Learn(map[string]any{
			"player":   "player2",
			"ultimate": lastMove(result.Moves2, 1),
			"move":     move2,
		}, 2); err != nil {
			return nil, fmt.Errorf("round %d learn player 2: %w", r, err)
		}
		result.Moves1 = append(result.Moves1, move1)
		result.Moves2 = append(result.Moves2, move2)
	}
	return result, nil
}

// defeatExpectation retrieves an expected opponent move matching the probe
// and returns the move defeating it, or a random move when memory offers no
// expectation.
func defeatExpectation(m *memory.Memory, rng *rand.Rand, probe map[string]any) (string, error) {
	chunk, err := m.Retrieve(probe, false)
	if err != nil {
		return "", err
	}
	if chunk != nil {
		if expectation, ok := chunk.Get("move"); ok {
			if s, ok := expectation.(string); ok {
				return Moves[(moveIndex(s)-1+len(Moves))%len(Moves)], nil
			}
		}
	}
	return Moves[rng.Intn(len(Moves))], nil
}

func moveIndex(move string) int {
	for i, m := range Moves {
		if m == move {
			return i
		}
	}
	return 0
}

// lastMove returns the lag-th most recent move, nil before enough moves
// have been played.
func lastMove(moves []string, lag int) any {
	if len(moves) < lag {
		return nil
	}
	return moves[len(moves)-lag]
}
