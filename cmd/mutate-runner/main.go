package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "mutate-runner",
	Short: "Deterministic prompt mutation engine",
	Long: `mutate-runner drives the deterministic mutation engine: it derives a
seeded MT19937 stream per testcase, chains operator applications through
the engine's validity guard, and emits stable, byte-reproducible traces.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// Commands are defined in separate files:
// - generateCmd in generate.go
// - snapshotCmd in snapshot.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
