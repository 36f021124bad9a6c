package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/pipeline"
)

var (
	runDaysBack int
	runDryRun   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full lead sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		daysBack := runDaysBack
		if daysBack == 0 {
			daysBack = cfg.Dodge.DaysBack
		}

		run, err := env.Pipeline.Run(ctx, pipeline.Options{
			DaysBack: daysBack,
			DryRun:   runDryRun,
		})
		if err != nil {
			return eris.Wrap(err, "sync run")
		}

		zap.L().Info("sync complete",
			zap.String("run_id", run.ID),
			zap.Int("emitted", run.Result.Emitted),
		)

		// Print run record JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	runCmd.Flags().IntVar(&runDaysBack, "days-back", 0, "publish date window in days (default from config)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "write the dataset but skip delivery and the seen-set commit")
	rootCmd.AddCommand(runCmd)
}
