package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/input"
)

var batchOutput string

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Enrich every company in a CSV or XLSX file",
	Long:  "Loads company identifiers from a CSV or XLSX file, enriches all of them concurrently, and writes the results as a JSON array in input order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputs, err := input.LoadFile(args[0])
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return eris.Errorf("batch: no usable rows in %s", args[0])
		}
		zap.L().Info("batch: loaded inputs", zap.String("file", args[0]), zap.Int("count", len(inputs)))

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// Create one run per row up front so a crash mid-batch still
		// leaves a queued record for every input.
		runIDs := make([]string, len(inputs))
		for i, in := range inputs {
			run, err := env.Store.CreateRun(ctx, in)
			if err != nil {
				return eris.Wrap(err, "batch: create run")
			}
			runIDs[i] = run.ID
		}

		results := env.Pipeline.EnrichAll(ctx, inputs)

		succeeded := 0
		for i := range results {
			if err := env.Store.UpdateRunResult(ctx, runIDs[i], &results[i]); err != nil {
				zap.L().Warn("batch: persist run result failed",
					zap.String("run_id", runIDs[i]), zap.Error(err))
			}
			if results[i].Success {
				succeeded++
			}
		}
		zap.L().Info("batch: finished",
			zap.Int("total", len(results)),
			zap.Int("succeeded", succeeded),
			zap.Int("failed", len(results)-succeeded))

		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return eris.Wrap(err, "batch: marshal results")
		}
		if batchOutput != "" {
			if err := os.WriteFile(batchOutput, out, 0o644); err != nil {
				return eris.Wrap(err, "batch: write output file")
			}
			fmt.Printf("wrote %d results to %s (%d succeeded)\n", len(results), batchOutput, succeeded)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write JSON results to this file instead of stdout")
	rootCmd.AddCommand(batchCmd)
}
