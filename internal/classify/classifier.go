package classify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zelapb/api/internal/store"
)

type Classifier interface {
	Classify(ctx context.Context, description string) (Analysis, error)
}

type ConfigGenerator interface {
	GenerateConfig(ctx context.Context, current store.SystemConfig, command string) (store.SystemConfig, error)
}

// Guarded wraps a Classifier and a ConfigGenerator with a deadline and
// fixed fallbacks, so callers never see an error.
type Guarded struct {
	classifier Classifier
	generator  ConfigGenerator
	timeout    time.Duration
	logger     *zap.Logger
}

func WithFallback(classifier Classifier, generator ConfigGenerator, timeout time.Duration, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarded{classifier: classifier, generator: generator, timeout: timeout, logger: logger}
}

// Classify returns the classifier's answer, or Fallback on any failure.
// fellBack reports which one the caller got.
func (g *Guarded) Classify(ctx context.Context, description string) (analysis Analysis, fellBack bool) {
	if g.classifier == nil {
		return Fallback, true
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	type outcome struct {
		analysis Analysis
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := g.classifier.Classify(ctx, description)
		done <- outcome{analysis: result, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			g.logger.Warn("classification failed, using fallback", zap.Error(out.err))
			return Fallback, true
		}
		return out.analysis, false
	case <-ctx.Done():
		g.logger.Warn("classification timed out, using fallback", zap.Error(ctx.Err()))
		return Fallback, true
	}
}

// GenerateConfig returns a proposed configuration, or current unchanged on any
// failure. fellBack is true when current came back because of a failure.
func (g *Guarded) GenerateConfig(ctx context.Context, current store.SystemConfig, command string) (proposed store.SystemConfig, fellBack bool) {
	if g.generator == nil {
		return current, true
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	type outcome struct {
		config store.SystemConfig
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := g.generator.GenerateConfig(ctx, current, command)
		done <- outcome{config: result, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			g.logger.Warn("config generation failed, keeping current", zap.Error(out.err))
			return current, true
		}
		return out.config, false
	case <-ctx.Done():
		g.logger.Warn("config generation timed out, keeping current", zap.Error(ctx.Err()))
		return current, true
	}
}

func (g *Guarded) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}
