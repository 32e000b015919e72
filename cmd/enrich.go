package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/report"
)

var (
	enrichDomain   string
	enrichName     string
	enrichLinkedIn string
	enrichReport   bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single company",
	Long:  "Runs the full enrichment sequence for one company identified by domain, name, or LinkedIn URL and prints the result as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		input := model.EnrichmentInput{
			Domain:      enrichDomain,
			Name:        enrichName,
			LinkedInURL: enrichLinkedIn,
		}

		result, err := runAndRecord(ctx, env, input)
		if err != nil {
			return err
		}

		if enrichReport {
			fmt.Println(report.Format(result))
		} else {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "enrich: marshal result")
			}
			fmt.Println(string(out))
		}

		if !result.Success {
			os.Exit(1)
		}
		return nil
	},
}

// runAndRecord executes one enrichment and persists the run lifecycle.
func runAndRecord(ctx context.Context, env *appEnv, input model.EnrichmentInput) (model.EnrichmentResult, error) {
	run, err := env.Store.CreateRun(ctx, input)
	if err != nil {
		return model.EnrichmentResult{}, eris.Wrap(err, "enrich: create run")
	}
	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		zap.L().Warn("enrich: mark run running failed", zap.String("run_id", run.ID), zap.Error(err))
	}

	result := env.Pipeline.Enrich(ctx, input)

	if err := env.Store.UpdateRunResult(ctx, run.ID, &result); err != nil {
		zap.L().Warn("enrich: persist run result failed", zap.String("run_id", run.ID), zap.Error(err))
	}

	zap.L().Info("enrich: run finished",
		zap.String("run_id", run.ID),
		zap.Bool("success", result.Success),
		zap.Int("confidence", result.Confidence),
		zap.Duration("elapsed", result.ProcessingTime))

	return result, nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichDomain, "domain", "", "company website domain")
	enrichCmd.Flags().StringVar(&enrichName, "name", "", "company name")
	enrichCmd.Flags().StringVar(&enrichLinkedIn, "linkedin", "", "company LinkedIn URL")
	enrichCmd.Flags().BoolVar(&enrichReport, "report", false, "print a Markdown report instead of JSON")
	rootCmd.AddCommand(enrichCmd)
}
