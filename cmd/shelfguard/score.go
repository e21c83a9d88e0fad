package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/inventory"
	"github.com/shelfguard/shelfguard/pkg/scoring"
	"github.com/shelfguard/shelfguard/pkg/surface"
)

func newScoreCmd() *cobra.Command {
	var (
		inputs     []string
		configPath string
		storeID    string
		outputFmt  string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Full audit scoring pipeline",
		Long:  `Loads event batches, reconstructs count deltas, runs all detectors, and renders store scorecards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(scoreOpts{
				inputs:     inputs,
				configPath: configPath,
				storeID:    storeID,
				outputFmt:  outputFmt,
			})
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input", nil, "Event batch JSON file (repeatable, required)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .shelfguard/config.yaml)")
	cmd.Flags().StringVar(&storeID, "store", "", "Score only this store")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type scoreOpts struct {
	inputs     []string
	configPath string
	storeID    string
	outputFmt  string
}

// loadAndScore is the shared pipeline behind the score and export commands.
func loadAndScore(opts scoreOpts) ([]*scoring.Scorecard, error) {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Step 1/3: Loading event batches...\n")
	var events []inventory.Event
	for _, path := range opts.inputs {
		batch, err := inventory.LoadBatch(path)
		if err != nil {
			return nil, fmt.Errorf("loading batch %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "  %s: %d events\n", path, len(batch.Events))
		events = append(events, batch.Events...)
	}

	fmt.Fprintf(os.Stderr, "Step 2/3: Reconstructing count deltas...\n")
	views := inventory.BuildStoreViews(events)
	if opts.storeID != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.StoreID == opts.storeID {
				filtered = append(filtered, v)
			}
		}
		views = filtered
		if len(views) == 0 {
			return nil, fmt.Errorf("no events for store %s", opts.storeID)
		}
	}
	fmt.Fprintf(os.Stderr, "  %d stores\n", len(views))

	fmt.Fprintf(os.Stderr, "Step 3/3: Scoring...\n")
	cards, err := scoring.ScoreViews(cfg, views)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return cards, nil
}

func runScore(opts scoreOpts) error {
	cards, err := loadAndScore(opts)
	if err != nil {
		return err
	}

	var renderer surface.Renderer
	switch opts.outputFmt {
	case "json":
		renderer = &surface.JSONRenderer{}
	default:
		renderer = &surface.TerminalRenderer{}
	}
	if err := renderer.Render(os.Stdout, cards); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

// resolveConfig loads the config from the given path, or walks up from the
// working directory looking for one. Missing config means defaults.
func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		path = config.FindConfigFile(wd)
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
