package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

const tracerName = "softwarescout/page-pipeline"

// Work item outcomes
const (
	OutcomeGenerated           = "generated"
	OutcomeSkippedExisting     = "skipped_existing"
	OutcomeSkippedInsufficient = "skipped_insufficient"
	OutcomeErrored             = "errored"
)

// WorkItem is one (category, industry) page to produce
type WorkItem struct {
	CategorySlug string
	IndustrySlug string
}

// PageSlug returns the page key of the item
func (w WorkItem) PageSlug() string {
	return domain.IndustryPageSlug(w.CategorySlug, w.IndustrySlug)
}

// BuildWorkList pairs every category with every industry, categories outermost.
func BuildWorkList(categories, industries []string) []WorkItem {
	items := make([]WorkItem, 0, len(categories)*len(industries))
	for _, c := range categories {
		for _, i := range industries {
			items = append(items, WorkItem{CategorySlug: c, IndustrySlug: i})
		}
	}
	return items
}

// PageSource produces the content of one industry page. Prepare runs before
// pacing and returns an error wrapping domain.ErrInsufficientTools when the
// category has fewer than two tools; Generate may return the same.
type PageSource interface {
	Name() string
	Prepare(ctx context.Context, item WorkItem) error
	Generate(ctx context.Context, item WorkItem) (*domain.IndustryPage, error)
}

// PageInvalidator drops cached copies of a page after it is stored
type PageInvalidator interface {
	InvalidatePage(ctx context.Context, slug string)
}

// PipelineMetrics receives per-item outcomes
type PipelineMetrics interface {
	PageOutcome(outcome string)
}

type nopPipelineMetrics struct{}

func (nopPipelineMetrics) PageOutcome(string) {}

// ItemResult describes the outcome of one work item
type ItemResult struct {
	Index   int
	Total   int
	Slug    string
	Outcome string
	Elapsed time.Duration
	Err     error
}

// Report summarizes a pipeline run
type Report struct {
	Total               int
	Generated           int
	SkippedExisting     int
	SkippedInsufficient int
	Errored             int
	Failed              []string
	// CategoryCounts holds the stored page count of every category touched by the run.
	CategoryCounts map[string]int
	TotalPages     int
	Interrupted    bool
}

// Skipped is the number of items not generated for either skip reason
func (r Report) Skipped() int {
	return r.SkippedExisting + r.SkippedInsufficient
}

// PipelineConfig holds configuration for the page pipeline
type PipelineConfig struct {
	// Delay is the minimum spacing between generation attempts.
	Delay time.Duration
	// Force regenerates pages that already exist.
	Force bool
}

// PagePipeline generates and stores industry pages one item at a time.
// A failing item is recorded and the run continues.
type PagePipeline struct {
	pages       domain.PageRepository
	logger      infralogger.Logger
	metrics     PipelineMetrics
	tracer      trace.Tracer
	limiter     *rate.Limiter
	force       bool
	progress    func(ItemResult)
	invalidator PageInvalidator
}

// NewPagePipeline creates a pipeline. metrics may be nil.
func NewPagePipeline(
	pages domain.PageRepository,
	log infralogger.Logger,
	metrics PipelineMetrics,
	config PipelineConfig,
) *PagePipeline {
	if metrics == nil {
		metrics = nopPipelineMetrics{}
	}

	limit := rate.Inf
	if config.Delay > 0 {
		limit = rate.Every(config.Delay)
	}

	return &PagePipeline{
		pages:   pages,
		logger:  log,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		limiter: rate.NewLimiter(limit, 1),
		force:   config.Force,
	}
}

// OnProgress registers a callback invoked after every item
func (p *PagePipeline) OnProgress(fn func(ItemResult)) {
	p.progress = fn
}

// InvalidateWith registers a cache to clear for every stored page
func (p *PagePipeline) InvalidateWith(inv PageInvalidator) {
	p.invalidator = inv
}

// Run processes items in order with source. Cancelling ctx stops the run
// between items and returns the partial report; rerunning resumes because
// existing pages are skipped.
func (p *PagePipeline) Run(ctx context.Context, items []WorkItem, source PageSource) Report {
	report := Report{
		Total:          len(items),
		Failed:         []string{},
		CategoryCounts: map[string]int{},
	}

	p.logger.Info("page pipeline started",
		infralogger.String("source", source.Name()),
		infralogger.Int("items", len(items)),
		infralogger.Bool("force", p.force))

	for i, item := range items {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}

		res := p.processItem(ctx, item, source)
		res.Index = i + 1
		res.Total = len(items)

		switch res.Outcome {
		case OutcomeGenerated:
			report.Generated++
		case OutcomeSkippedExisting:
			report.SkippedExisting++
		case OutcomeSkippedInsufficient:
			report.SkippedInsufficient++
		case OutcomeErrored:
			report.Errored++
			report.Failed = append(report.Failed, res.Slug)
		}
		report.CategoryCounts[item.CategorySlug] = 0
		p.metrics.PageOutcome(res.Outcome)

		if p.progress != nil {
			p.progress(res)
		}
	}

	p.fillCounts(context.WithoutCancel(ctx), &report)

	p.logger.Info("page pipeline finished",
		infralogger.String("source", source.Name()),
		infralogger.Int("generated", report.Generated),
		infralogger.Int("skipped", report.Skipped()),
		infralogger.Int("errored", report.Errored),
		infralogger.Bool("interrupted", report.Interrupted))

	return report
}

func (p *PagePipeline) processItem(ctx context.Context, item WorkItem, source PageSource) ItemResult {
	slug := item.PageSlug()
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "pages.generate",
		trace.WithAttributes(
			attribute.String("slug", slug),
			attribute.String("category", item.CategorySlug),
			attribute.String("industry", item.IndustrySlug),
			attribute.String("source", source.Name()),
		))
	defer span.End()

	res := ItemResult{Slug: slug}
	finish := func(outcome string, err error) ItemResult {
		res.Outcome = outcome
		res.Err = err
		res.Elapsed = time.Since(start)
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil && outcome == OutcomeErrored {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return res
	}

	if !p.force {
		existing, err := p.pages.GetIndustryPage(ctx, slug)
		if err != nil {
			p.logger.Error("failed to check existing page", infralogger.String("slug", slug), infralogger.Error(err))
			return finish(OutcomeErrored, fmt.Errorf("check existing: %w", err))
		}
		if existing != nil {
			return finish(OutcomeSkippedExisting, nil)
		}
	}

	if err := source.Prepare(ctx, item); err != nil {
		if errors.Is(err, domain.ErrInsufficientTools) {
			p.logger.Debug("skipping page", infralogger.String("slug", slug), infralogger.Error(err))
			return finish(OutcomeSkippedInsufficient, err)
		}
		p.logger.Error("failed to prepare page", infralogger.String("slug", slug), infralogger.Error(err))
		return finish(OutcomeErrored, err)
	}

	// Pacing applies to generation attempts only; skips are free.
	if err := p.limiter.Wait(ctx); err != nil {
		return finish(OutcomeErrored, fmt.Errorf("wait for pacing: %w", err))
	}

	page, err := source.Generate(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientTools) {
			p.logger.Debug("skipping page", infralogger.String("slug", slug), infralogger.Error(err))
			return finish(OutcomeSkippedInsufficient, err)
		}
		p.logger.Error("failed to generate page", infralogger.String("slug", slug), infralogger.Error(err))
		return finish(OutcomeErrored, err)
	}

	if err := p.pages.UpsertIndustryPage(ctx, page); err != nil {
		p.logger.Error("failed to store page", infralogger.String("slug", slug), infralogger.Error(err))
		return finish(OutcomeErrored, fmt.Errorf("store page: %w", err))
	}

	if p.invalidator != nil {
		p.invalidator.InvalidatePage(ctx, slug)
	}

	p.logger.Debug("page generated",
		infralogger.String("slug", slug),
		infralogger.Int("recommendations", len(page.Recommendations)))
	return finish(OutcomeGenerated, nil)
}

// fillCounts reads the stored totals back; failures leave the counts at zero.
func (p *PagePipeline) fillCounts(ctx context.Context, report *Report) {
	for category := range report.CategoryCounts {
		n, err := p.pages.CountIndustryPages(ctx, category)
		if err != nil {
			p.logger.Warn("failed to count category pages", infralogger.String("category", category), infralogger.Error(err))
			continue
		}
		report.CategoryCounts[category] = n
	}

	total, err := p.pages.CountIndustryPages(ctx, "")
	if err != nil {
		p.logger.Warn("failed to count pages", infralogger.Error(err))
		return
	}
	report.TotalPages = total
}
