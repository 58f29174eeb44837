package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
)

// BatchExtractor pulls up to batchSize flight schedule messages.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer evaluates the weather risk of one flight message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.FlightRiskAssessment, error)
}

// BatchLoader publishes finished assessments.
type BatchLoader interface {
	LoadBatch(ctx context.Context, assessments []domain.FlightRiskAssessment) error
}

// Pipeline assesses each scheduled flight against current weather at both
// ends of the route and publishes one assessment per flight. A flight's
// message offset is committed only once its assessment is published, so a
// crash replays unpublished flights.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	published   atomic.Bool
	batchSize   int
}

// New wires a Pipeline from its stages.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness reports the service ready once at least one flight
// assessment has reached the output topic. Until then either no schedule
// has arrived or every publish has failed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.published.Load() {
		return errors.New("no flight assessment published yet")
	}
	return nil
}

// Run assesses flights until ctx is cancelled. Broker failures are retried
// with exponential backoff and never end the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("flight risk pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	retry := newBackoff()
	for ctx.Err() == nil {
		if !p.step(ctx, retry) {
			break
		}
	}
	p.logger.Info("flight risk pipeline stopping", "reason", ctx.Err())
	return nil
}

// step handles one batch of flights. It returns false once the pipeline
// should stop.
func (p *Pipeline) step(ctx context.Context, retry *backoff) bool {
	start := time.Now()

	msgs, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("reading flight schedules failed", "error", err)
		return retry.wait(ctx)
	}
	if len(msgs) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(msgs)))
	p.metrics.BatchSize.Observe(float64(len(msgs)))
	retry.reset()

	assessments, assessed, ok := p.assess(ctx, msgs)
	if !ok {
		return false
	}
	if len(assessments) == 0 {
		return true
	}

	if err := p.loader.LoadBatch(ctx, assessments); err != nil {
		p.logger.Error("publishing assessments failed", "error", err, "flights", len(assessments))
		return retry.wait(ctx)
	}
	p.metrics.MessagesProduced.Add(float64(len(assessments)))
	for _, msg := range assessed {
		p.commit(ctx, msg)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.published.Store(true)
	return true
}

// assess evaluates every flight in msgs. Flights that cannot be assessed
// (malformed schedule, unknown airport) are committed and dropped so they
// do not block the partition. An evaluation interrupted by shutdown stops
// the batch without committing anything.
func (p *Pipeline) assess(ctx context.Context, msgs []domain.RawEvent) ([]domain.FlightRiskAssessment, []domain.RawEvent, bool) {
	assessments := make([]domain.FlightRiskAssessment, 0, len(msgs))
	assessed := make([]domain.RawEvent, 0, len(msgs))

	for _, msg := range msgs {
		a, err := p.transformer.Transform(ctx, msg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, false
			}
			p.logger.Warn("skipping flight that could not be assessed",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, msg)
			continue
		}
		assessments = append(assessments, a)
		assessed = append(assessed, msg)
	}
	return assessments, assessed, true
}

func (p *Pipeline) commit(ctx context.Context, msg domain.RawEvent) {
	if msg.Commit == nil {
		return
	}
	if err := msg.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	}
}

const (
	initialBackoff  = 200 * time.Millisecond
	maxBackoffDelay = 5 * time.Second
)

// backoff doubles from initialBackoff up to maxBackoffDelay and resets
// after a successful read.
type backoff struct {
	delay time.Duration
}

func newBackoff() *backoff {
	return &backoff{delay: initialBackoff}
}

func (b *backoff) reset() {
	b.delay = initialBackoff
}

// wait sleeps for the current delay and grows it. It returns false if ctx
// ends first.
func (b *backoff) wait(ctx context.Context) bool {
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	b.delay = min(b.delay*2, maxBackoffDelay)
	return true
}
