package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/store"
)

var (
	runsStatus string
	runsDomain string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List stored enrichment runs, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return eris.Wrap(err, "runs: marshal run")
			}
			fmt.Println(string(out))
			return nil
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Domain: runsDomain,
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Printf("%s  %-8s  %-30s  %s\n",
				run.ID, run.Status, run.Input.Domain, run.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%d run(s)\n", len(runs))
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status (queued, running, complete, failed)")
	runsCmd.Flags().StringVar(&runsDomain, "domain", "", "filter by input domain")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
