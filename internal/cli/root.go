package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "declmem",
	Short: "Declarative memory experiments",
	Long: "Declmem simulates cognitive models over an ACT-R style declarative memory:\n" +
		"learning, probabilistic retrieval, and blending. Runs can be recorded to a\n" +
		"results database and browsed through a small HTTP API.",
}

func init() {
	rootCmd.AddCommand(rpsCmd, iblCmd, serveCmd, versionCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}
