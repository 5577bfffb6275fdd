// Package cli implements the scout batch driver: page generation from the
// authored templates or the text generator, once or on a schedule.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/usecase"
)

// Env holds the collaborators a command runs against
type Env struct {
	Config      *config.Config
	Logger      infralogger.Logger
	Catalog     *catalog.Catalog
	Pages       domain.PageRepository
	Tools       usecase.ToolLister
	Generator   domain.TextGenerator // nil unless requested
	Metrics     usecase.PipelineMetrics
	Invalidator usecase.PageInvalidator
}

// EnvFactory opens an Env. withGenerator asks for a text generator. The
// returned cleanup releases everything the Env opened.
type EnvFactory func(ctx context.Context, withGenerator bool) (*Env, func(), error)

// NewRootCommand creates the root command of the scout CLI
func NewRootCommand(open EnvFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scout",
		Short: "SoftwareScout page generator",
		Long: `Generates "best {category} for {industry}" pages and stores them.

generate uses the authored profiles and templates; generate-ai asks the
configured text generator and validates its answer; schedule repeats the
generate-ai batch on a cron schedule.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewGenerateCommand(open))
	cmd.AddCommand(NewGenerateAICommand(open))
	cmd.AddCommand(NewScheduleCommand(open))

	return cmd
}
