package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/llmsec/mutation-engine/pkg/config"
	"github.com/llmsec/mutation-engine/pkg/logging"
	"github.com/llmsec/mutation-engine/pkg/mutate"
	"github.com/llmsec/mutation-engine/pkg/operators"
)

// generateEnvelope is the JSON shape written by the generate subcommand:
// the batch parameters alongside the generated children, per spec.md §6.
type generateEnvelope struct {
	BucketID    string                     `json:"bucket_id"`
	Surface     string                     `json:"surface"`
	N           int                        `json:"n"`
	K           int                        `json:"k"`
	Strength    int                        `json:"strength"`
	Constraints mutate.Constraints         `json:"constraints"`
	RecentOps   []mutate.RecentOpsSnapshot `json:"recent_ops,omitempty"`
	Novelty     []mutate.NoveltySnapshot   `json:"novelty,omitempty"`
	Children    []mutate.MutationOutput    `json:"children"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Args:  cobra.NoArgs,
	Short: "Generate mutated children from a seed text",
	Long:  `Runs the deterministic n x k mutation loop against a seed text and writes canonical JSON outputs.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("seed", "", "seed text to mutate (required)")
	generateCmd.Flags().String("seed-id", "case", "testcase identifier used to derive per-child RNG streams (must stay fixed across runs for reproducibility)")
	generateCmd.Flags().String("bucket", "", "bucket tag, e.g. LLM01_PROMPT_INJECTION (required)")
	generateCmd.Flags().String("surface", "", "target surface, e.g. PROMPT_TEXT (required)")
	generateCmd.Flags().Int("n", 0, "number of children to generate (0 = config default)")
	generateCmd.Flags().Int("k", 0, "operator applications chained per child (0 = config default)")
	generateCmd.Flags().Int("strength", 0, "mutation strength 1-5 (0 = config default)")
	generateCmd.Flags().Int64("seed-base", 0, "base seed (0 = config default)")
	generateCmd.Flags().String("risk-max", "", "highest risk level permitted, e.g. MEDIUM")
	generateCmd.Flags().Int("max-chars", 0, "guard max length in runes (0 = config default)")
	generateCmd.Flags().Bool("schema-mode", false, "treat seed/children as schema-bearing text")
	generateCmd.Flags().String("placeholder", "", "placeholder text for empty schema-mode output (empty = config default)")
	generateCmd.Flags().String("selector", "uniform", "operator selection strategy: uniform or weighted")
	generateCmd.Flags().String("out", "", "output file (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	seedText, _ := cmd.Flags().GetString("seed")
	if seedText == "" {
		return fmt.Errorf("--seed flag is required")
	}
	seedID, _ := cmd.Flags().GetString("seed-id")
	bucketID, _ := cmd.Flags().GetString("bucket")
	if bucketID == "" {
		return fmt.Errorf("--bucket flag is required")
	}
	surface, _ := cmd.Flags().GetString("surface")
	if surface == "" {
		return fmt.Errorf("--surface flag is required")
	}
	n, _ := cmd.Flags().GetInt("n")
	k, _ := cmd.Flags().GetInt("k")
	strength, _ := cmd.Flags().GetInt("strength")
	seedBase, _ := cmd.Flags().GetInt64("seed-base")
	riskMax, _ := cmd.Flags().GetString("risk-max")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	schemaMode, _ := cmd.Flags().GetBool("schema-mode")
	placeholder, _ := cmd.Flags().GetString("placeholder")
	selectorName, _ := cmd.Flags().GetString("selector")
	outPath, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if n == 0 {
		n = cfg.Engine.DefaultN
	}
	if k == 0 {
		k = cfg.Engine.DefaultK
	}
	if strength == 0 {
		strength = cfg.Engine.DefaultStrength
	}
	if seedBase == 0 {
		seedBase = cfg.Engine.DefaultSeedBase
	}
	if maxChars == 0 {
		maxChars = cfg.Engine.DefaultMaxChars
	}
	if placeholder == "" {
		placeholder = cfg.Engine.DefaultPlaceholder
	}

	logLevel := logging.Level(cfg.Logging.Level)
	if verbose {
		logLevel = logging.LevelDebug
	}
	logger := logging.New(logging.Config{Level: logLevel, Format: logging.Format(cfg.Logging.Format), Output: os.Stdout})
	runID := uuid.New().String()
	logger.Info("mutate-runner generate starting", "version", version, "run_id", runID, "bucket", bucketID, "surface", surface)

	registry, err := operators.Load(true)
	if err != nil {
		return fmt.Errorf("failed to load operator registry: %w", err)
	}

	selector, err := buildSelector(selectorName)
	if err != nil {
		return err
	}

	req := mutate.GenerateRequest{
		SeedText: seedText,
		SeedID:   seedID,
		BucketID: bucketID,
		Surface:  surface,
		Strength: strength,
		Constraints: mutate.Constraints{
			MaxChars:    maxChars,
			SchemaMode:  schemaMode,
			Placeholder: placeholder,
		},
		SeedBase: seedBase,
		N:        n,
		K:        k,
		RiskMax:  riskMax,
	}

	m := mutate.NewMutator(registry, selector)
	outputs := m.GenerateChildren(req)
	logger.Info("generation complete", "children", len(outputs))

	novelty := selector.Novelty()
	var noveltySnapshot []mutate.NoveltySnapshot
	if novelty != nil {
		noveltySnapshot = novelty.Snapshot()
	}

	var recentOpsSnapshot []mutate.RecentOpsSnapshot
	if ro := selector.RecentOps(); ro != nil {
		recentOpsSnapshot = ro.Snapshot()
	}

	envelope := generateEnvelope{
		BucketID:    bucketID,
		Surface:     surface,
		N:           n,
		K:           k,
		Strength:    strength,
		Constraints: req.Constraints,
		RecentOps:   recentOpsSnapshot,
		Novelty:     noveltySnapshot,
		Children:    outputs,
	}

	data, err := mutate.CanonicalJSON(envelope)
	if err != nil {
		return fmt.Errorf("failed to canonicalize output: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}

func buildSelector(name string) (mutate.Selector, error) {
	switch name {
	case "", "uniform":
		return mutate.NewUniformSelector(), nil
	case "weighted":
		return mutate.NewWeightedSelector(mutate.NewOperatorStatsByBucket(), mutate.NewNoveltyTracker()), nil
	default:
		return nil, fmt.Errorf("unknown selector %q: expected uniform or weighted", name)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
