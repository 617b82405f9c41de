// todaylotto is the deterministic quiz scoring and report generation backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todaylotto",
	Short: "Quiz-driven lottery mood report backend",
	Long: `todaylotto serves a six-question mood quiz and turns each submission
into a deterministic report: a 0-100 score, a tone-matched message, a
strategy card deck, and a longform reading. Identical submissions always
produce identical reports.`,
	RunE:          runServe, // Default to serve mode.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, versionCmd)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
