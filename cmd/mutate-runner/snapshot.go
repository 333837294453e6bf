package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llmsec/mutation-engine/pkg/logging"
	"github.com/llmsec/mutation-engine/pkg/mutate"
	"github.com/llmsec/mutation-engine/pkg/operators"
	"github.com/llmsec/mutation-engine/pkg/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Args:  cobra.ExactArgs(1),
	Short: "Run and verify (or regenerate) a snapshot file of mutation cases",
	Long: `Loads a snapshots.json file, replays every case through the mutation
engine, and compares actual output to the recorded expectation. With
--update, or UPDATE_SNAPSHOTS=1 in the environment, rewrites the file with
freshly generated expectations instead of comparing.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().Bool("update", false, "regenerate expected outputs instead of comparing")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	path := args[0]
	update, _ := cmd.Flags().GetBool("update")
	update = update || snapshot.ShouldUpdate()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := logging.Level(cfg.Logging.Level)
	if verbose {
		logLevel = logging.LevelDebug
	}
	logger := logging.New(logging.Config{Level: logLevel, Format: logging.Format(cfg.Logging.Format), Output: os.Stdout})

	file, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	registry, err := operators.Load(true)
	if err != nil {
		return fmt.Errorf("failed to load operator registry: %w", err)
	}
	selector := mutate.NewUniformSelector()

	mismatches := 0
	for i := range file.Cases {
		c := file.Cases[i]
		actual := snapshot.Run(c, registry, selector)

		if update {
			file.Cases[i].Expect = snapshot.ExpectedOutputs{Outputs: actual}
			continue
		}

		eq, err := snapshot.Compare(c.Expect.Outputs, actual)
		if err != nil {
			return fmt.Errorf("case %s: %w", c.CaseID, err)
		}
		if !eq {
			mismatches++
			logger.Error("snapshot mismatch", "case_id", c.CaseID)
		}
	}

	if update {
		logger.Info("snapshot file regenerated", "cases", len(file.Cases))
		return snapshot.Save(path, file)
	}

	logger.Info("snapshot check complete", "cases", len(file.Cases), "mismatches", mismatches)
	if mismatches > 0 {
		return fmt.Errorf("%d of %d cases mismatched", mismatches, len(file.Cases))
	}
	return nil
}
