package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"whopaysthem/internal/config"
	"whopaysthem/internal/pipeline"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "whopaysthem",
	Short: "Campaign-finance lookup data pipeline",
	Long: `whopaysthem builds the static datasets behind a campaign-finance
lookup by location: a postal-code to electoral-district index and, for every
tracked race, each candidate's funding profile (totals, funding breakdown,
top donors, outside spending).

Configuration comes from the environment (or a .env file); FEC_API_KEY is
required for the full run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and publish all artifacts",
	Long: `Runs the whole batch: downloads the district crosswalk, enumerates
Senate, House, and governor candidates, aggregates their finance records, and
publishes districts.json, candidates.json, and metadata.json atomically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.Run(ctx)
		})
	},
}

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "Rebuild only the postal-code district index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.RunDistricts(ctx)
		})
	},
}

var governorsCmd = &cobra.Command{
	Use:   "governors",
	Short: "Refresh only governor races in the published dataset",
	Long: `Re-fetches the governor roster and state-level finance records and
merges the resulting races into candidates.json, leaving federal races as
previously published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.RunGovernors(ctx)
		})
	},
}

func withPipeline(ctx context.Context, fn func(context.Context, *pipeline.Pipeline) error) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	p, err := pipeline.New(cfg, logger.Sugar())
	if err != nil {
		return err
	}
	return fn(ctx, p)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, districtsCmd, governorsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
