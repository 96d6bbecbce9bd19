package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/cogmodel/declmem/internal/models"
	"github.com/cogmodel/declmem/internal/results"
	"github.com/cogmodel/declmem/memory"
)

var rpsFlags struct {
	rounds int
	noise  float64
	seed   uint64
	record bool
	dbPath string
}

var rpsCmd = &cobra.Command{
	Use:   "rps",
	Short: "Play rock-paper-scissors between two memory-driven players",
	RunE:  runRPS,
}

func init() {
	rpsCmd.Flags().IntVar(&rpsFlags.rounds, "rounds", 100, "rounds to play")
	rpsCmd.Flags().Float64Var(&rpsFlags.noise, "noise", 0.1, "activation noise")
	rpsCmd.Flags().Uint64Var(&rpsFlags.seed, "seed", 1, "random seed")
	rpsCmd.Flags().BoolVar(&rpsFlags.record, "record", false, "record the run in the results database")
	rpsCmd.Flags().StringVar(&rpsFlags.dbPath, "db", "", "results database path")
}

func runRPS(cmd *cobra.Command, args []string) error {
	m := memory.New(rpsFlags.seed)
	if err := m.SetNoise(rpsFlags.noise); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(rpsFlags.seed))

	result, err := models.PlayRPS(m, rng, rpsFlags.rounds)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	for r := 0; r < result.Rounds; r++ {
		fmt.Printf("Round %3d\tPlayer 1: %-8s\tPlayer 2: %-8s\n", r, result.Moves1[r], result.Moves2[r])
	}
	fmt.Printf("Final score: %d (%d rounds, %d chunks learned)\n", result.Score, result.Rounds, m.Len())

	if !rpsFlags.record {
		return nil
	}
	db, err := openResults(rpsFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	run, err := db.CreateRun("rps", fmt.Sprintf(`{"rounds":%d,"noise":%g,"seed":%d}`,
		rpsFlags.rounds, rpsFlags.noise, rpsFlags.seed))
	if err != nil {
		return err
	}
	if err := db.AddObservation(run.ID, results.Observation{Round: result.Rounds - 1, Label: "score", Value: float64(result.Score)}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "recorded run %s\n", run.ID)
	return nil
}

func openResults(path string) (*results.Store, error) {
	if path == "" {
		var err error
		path, err = results.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := results.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
