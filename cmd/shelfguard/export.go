package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfguard/shelfguard/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		inputs     []string
		configPath string
		storeID    string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Score and export an audit workbook",
		Long:  `Runs the scoring pipeline and writes the results as a zip workbook of CSV sheets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(scoreOpts{
				inputs:     inputs,
				configPath: configPath,
				storeID:    storeID,
			}, outPath)
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input", nil, "Event batch JSON file (repeatable, required)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .shelfguard/config.yaml)")
	cmd.Flags().StringVar(&storeID, "store", "", "Export only this store")
	cmd.Flags().StringVar(&outPath, "out", "", "Output workbook path (default: report filename in cwd)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runExport(opts scoreOpts, outPath string) error {
	cards, err := loadAndScore(opts)
	if err != nil {
		return err
	}

	report, err := export.NewReport(cards)
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	if outPath == "" {
		outPath = report.Filename()
	}
	if err := os.WriteFile(outPath, report.Content, 0o644); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Workbook saved: %s\n", outPath)
	return nil
}
