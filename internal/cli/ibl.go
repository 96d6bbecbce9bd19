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

var iblFlags struct {
	participants int
	rounds       int
	seed         uint64
	record       bool
	dbPath       string
}

var iblCmd = &cobra.Command{
	Use:   "ibl",
	Short: "Run the safe/risky instance-based learning experiment",
	RunE:  runIBL,
}

func init() {
	iblCmd.Flags().IntVar(&iblFlags.participants, "participants", 10_000, "simulated participants")
	iblCmd.Flags().IntVar(&iblFlags.rounds, "rounds", 60, "rounds per participant")
	iblCmd.Flags().Uint64Var(&iblFlags.seed, "seed", 1, "random seed")
	iblCmd.Flags().BoolVar(&iblFlags.record, "record", false, "record the run in the results database")
	iblCmd.Flags().StringVar(&iblFlags.dbPath, "db", "", "results database path")
}

func runIBL(cmd *cobra.Command, args []string) error {
	m := memory.New(iblFlags.seed)
	rng := rand.New(rand.NewSource(iblFlags.seed))

	result, err := models.RunIBL(m, rng, iblFlags.participants, iblFlags.rounds)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for r, f := range result.RiskyFraction {
		fmt.Printf("round %2d\trisky %.4f\n", r, f)
	}

	if !iblFlags.record {
		return nil
	}
	db, err := openResults(iblFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	run, err := db.CreateRun("ibl", fmt.Sprintf(`{"participants":%d,"rounds":%d,"seed":%d}`,
		iblFlags.participants, iblFlags.rounds, iblFlags.seed))
	if err != nil {
		return err
	}
	for r, f := range result.RiskyFraction {
		if err := db.AddObservation(run.ID, results.Observation{Round: r, Label: "risky_fraction", Value: f}); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "recorded run %s\n", run.ID)
	return nil
}
