package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/usecase"
)

// testIndustries is the sample batch of generate-ai --test
var testIndustries = []string{"landscaping", "food-trucks", "dental-practices"}

const testCategory = "crm"

type generateOptions struct {
	force bool
	count int
}

// NewGenerateCommand creates the template generation command
func NewGenerateCommand(open EnvFactory) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <category> <industry>...",
		Short: "Generate pages from the authored templates",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), open, opts, args[0], args[1:], cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "regenerate pages that already exist")
	cmd.Flags().IntVar(&opts.count, "count", 0, "tools recommended per page (default from config)")

	return cmd
}

func runGenerate(ctx context.Context, open EnvFactory, opts *generateOptions, category string, industries []string, out io.Writer) error {
	env, cleanup, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := checkCategory(env.Catalog, category); err != nil {
		return err
	}
	for _, industry := range industries {
		if err := checkIndustry(env.Catalog, industry); err != nil {
			return err
		}
	}

	count := opts.count
	if count <= 0 {
		count = env.Config.Generation.RecommendationCount
	}

	source := usecase.NewTemplateSource(env.Catalog, env.Tools, count)
	items := usecase.BuildWorkList([]string{category}, industries)

	report := runPipeline(ctx, env, usecase.PipelineConfig{Force: opts.force}, items, source, out)
	return reportError(report)
}

type generateAIOptions struct {
	test       bool
	force      bool
	categories []string
	industries []string
}

// NewGenerateAICommand creates the AI-assisted generation command
func NewGenerateAICommand(open EnvFactory) *cobra.Command {
	opts := &generateAIOptions{}

	cmd := &cobra.Command{
		Use:   "generate-ai",
		Short: "Generate pages with the text generator",
		Long: `Generates pages for every category and industry (or the ones given with
--category and --industry) using the configured text generator. Pages that
already exist are skipped unless --force is set, so an interrupted run can
simply be started again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateAI(cmd.Context(), open, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.test, "test", false, "generate the crm sample batch only")
	cmd.Flags().BoolVar(&opts.force, "force", false, "regenerate pages that already exist")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "category slugs (default all)")
	cmd.Flags().StringSliceVar(&opts.industries, "industry", nil, "industry slugs (default all)")

	return cmd
}

func runGenerateAI(ctx context.Context, open EnvFactory, opts *generateAIOptions, out io.Writer) error {
	env, cleanup, err := open(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	items, err := aiWorkList(env, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Generating %d pages\n", len(items))

	source := usecase.NewAISource(env.Catalog, env.Tools, env.Generator)
	cfg := usecase.PipelineConfig{Delay: env.Config.Generation.Delay, Force: opts.force}

	report := runPipeline(ctx, env, cfg, items, source, out)
	return reportError(report)
}

func aiWorkList(env *Env, opts *generateAIOptions) ([]usecase.WorkItem, error) {
	if opts.test {
		return usecase.BuildWorkList([]string{testCategory}, testIndustries), nil
	}

	categories := opts.categories
	if len(categories) == 0 {
		for _, c := range env.Catalog.Categories() {
			categories = append(categories, c.Slug)
		}
	}
	for _, c := range categories {
		if err := checkCategory(env.Catalog, c); err != nil {
			return nil, err
		}
	}

	industries := opts.industries
	if len(industries) == 0 {
		for _, i := range env.Catalog.Industries() {
			industries = append(industries, i.Slug)
		}
	}
	for _, i := range industries {
		if err := checkIndustry(env.Catalog, i); err != nil {
			return nil, err
		}
	}

	return usecase.BuildWorkList(categories, industries), nil
}

func checkCategory(cat *catalog.Catalog, slug string) error {
	_, err := cat.Category(slug)
	if err == nil {
		return nil
	}
	known := make([]string, 0, len(cat.Categories()))
	for _, c := range cat.Categories() {
		known = append(known, c.Slug)
	}
	known = append(known, cat.CuratedCategories()...)
	return withSuggestion(err, slug, known)
}

func checkIndustry(cat *catalog.Catalog, slug string) error {
	_, err := cat.Industry(slug)
	if err == nil {
		return nil
	}
	known := make([]string, 0, len(cat.Industries()))
	for _, i := range cat.Industries() {
		known = append(known, i.Slug)
	}
	return withSuggestion(err, slug, known)
}

func withSuggestion(err error, slug string, known []string) error {
	if suggestion := usecase.SuggestSlug(slug, known); suggestion != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
	}
	return err
}

func runPipeline(
	ctx context.Context,
	env *Env,
	cfg usecase.PipelineConfig,
	items []usecase.WorkItem,
	source usecase.PageSource,
	out io.Writer,
) usecase.Report {
	pipeline := usecase.NewPagePipeline(env.Pages, env.Logger, env.Metrics, cfg)
	pipeline.OnProgress(progressPrinter(out))
	if env.Invalidator != nil {
		pipeline.InvalidateWith(env.Invalidator)
	}

	report := pipeline.Run(ctx, items, source)
	printReport(out, report)
	return report
}

// reportError fails the command when any item errored
func reportError(report usecase.Report) error {
	if report.Errored > 0 {
		return fmt.Errorf("%d of %d pages failed", report.Errored, report.Total)
	}
	return nil
}
