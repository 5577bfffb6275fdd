package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

// NewScheduleCommand creates the command that repeats generate-ai on a cron schedule
func NewScheduleCommand(open EnvFactory) *cobra.Command {
	var expr string
	opts := &generateAIOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run generate-ai on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd.Context(), open, expr, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&expr, "cron", "", "cron expression (default from config)")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "category slugs (default all)")
	cmd.Flags().StringSliceVar(&opts.industries, "industry", nil, "industry slugs (default all)")

	return cmd
}

func runSchedule(ctx context.Context, open EnvFactory, expr string, opts *generateAIOptions, out io.Writer) error {
	env, cleanup, err := open(ctx, false)
	if err != nil {
		return err
	}
	if expr == "" {
		expr = env.Config.Generation.Schedule
	}
	log := env.Logger
	cleanup()

	var running sync.Mutex
	job := func() {
		// a batch still in progress wins over the next tick
		if !running.TryLock() {
			log.Warn("previous batch still running; skipping tick")
			return
		}
		defer running.Unlock()

		if err := runGenerateAI(ctx, open, opts, out); err != nil {
			log.Error("scheduled batch failed", infralogger.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(expr, job); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	log.Info("scheduler started", infralogger.String("cron", expr))
	fmt.Fprintf(out, "Scheduled generate-ai with %q; press Ctrl+C to stop\n", expr)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	log.Info("scheduler stopped")
	return nil
}
