package textgen

import (
	"context"
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

// Provider names
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// TracerName names the tracer of generation spans
const TracerName = "softwarescout/textgen"

const (
	defaultMaxAttempts = 3
	defaultBackoff    = 500 * time.Millisecond
)

// Provider is a text generator that can name itself
type Provider interface {
	domain.TextGenerator
	Name() string
}

// CallRecorder counts provider calls by result
type CallRecorder interface {
	TextGenCall(provider, result string)
}

type nopRecorder struct{}

func (nopRecorder) TextGenCall(string, string) {}

// PacedConfig configures a PacedGenerator
type PacedConfig struct {
	RequestsPerMinute int // <= 0 disables pacing
	MaxAttempts       int
	Timeout           time.Duration // per attempt; 0 means none
	Backoff           time.Duration // multiplied by the attempt number
}

// PacedGenerator wraps a provider with a request rate limit and bounded
// attempts. Every failure it returns wraps domain.ErrTextGeneration.
type PacedGenerator struct {
	next        Provider
	limiter     *rate.Limiter
	maxAttempts int
	timeout     time.Duration
	backoff     time.Duration
	logger      infralogger.Logger
	calls       CallRecorder
	tracer      trace.Tracer
}

// NewPacedGenerator wraps next. calls may be nil.
func NewPacedGenerator(next Provider, cfg PacedConfig, log infralogger.Logger, calls CallRecorder) *PacedGenerator {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if calls == nil {
		calls = nopRecorder{}
	}

	return &PacedGenerator{
		next:        next,
		limiter:     rate.NewLimiter(limit, 1),
		maxAttempts: cfg.MaxAttempts,
		timeout:     cfg.Timeout,
		backoff:     cfg.Backoff,
		logger:      log.With(infralogger.String("provider", next.Name())),
		calls:       calls,
		tracer:      otel.Tracer(TracerName),
	}
}

// Name returns the wrapped provider's name
func (g *PacedGenerator) Name() string {
	return g.next.Name()
}

// Generate calls the provider, retrying failed attempts with linear backoff
func (g *PacedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "textgen.generate",
		trace.WithAttributes(
			attribute.String("textgen.provider", g.next.Name()),
			attribute.Int("textgen.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	text, err := g.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return text, err
}

func (g *PacedGenerator) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrTextGeneration, err)
		}

		start := time.Now()
		text, err := g.attempt(ctx, prompt)
		if err == nil {
			g.calls.TextGenCall(g.next.Name(), "ok")
			g.logger.Debug("text generated",
				infralogger.Int("attempt", attempt),
				infralogger.Int("chars", len(text)),
				infralogger.Duration("elapsed", time.Since(start)),
			)
			return text, nil
		}

		g.calls.TextGenCall(g.next.Name(), "error")
		lastErr = err

		// the caller gave up; the provider error would only be noise
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTextGeneration, ctx.Err())
		}

		g.logger.Warn("text generation attempt failed",
			infralogger.Int("attempt", attempt),
			infralogger.Int("max_attempts", g.maxAttempts),
			infralogger.Error(err),
		)

		if attempt < g.maxAttempts {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrTextGeneration, ctx.Err())
			case <-time.After(time.Duration(attempt) * g.backoff):
			}
		}
	}

	return "", fmt.Errorf("%w: %d attempts: %v", domain.ErrTextGeneration, g.maxAttempts, lastErr)
}

func (g *PacedGenerator) attempt(ctx context.Context, prompt string) (string, error) {
	if g.timeout <= 0 {
		return g.next.Generate(ctx, prompt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(attemptCtx, prompt)
}
