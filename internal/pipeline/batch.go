package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"meshpreview/internal/logging"
)

// Outcome is the per-attachment result of a batch.
type Outcome struct {
	Attachment Attachment
	Artifact   *Artifact
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the attachment produced an artifact.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Artifact != nil
}

// Supervisor fans a batch of attachments out over a bounded worker pool.
type Supervisor struct {
	pipeline    *Pipeline
	concurrency int
	logger      *slog.Logger
}

// NewSupervisor constructs a supervisor running at most concurrency runs in
// parallel.
func NewSupervisor(p *Pipeline, concurrency int, logger *slog.Logger) *Supervisor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Supervisor{
		pipeline:    p,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "supervisor"),
	}
}

// Filter returns the attachments whose filenames name a renderable format,
// preserving order.
func Filter(attachments []Attachment) []Attachment {
	eligible := make([]Attachment, 0, len(attachments))
	for _, att := range attachments {
		if att.Eligible() {
			eligible = append(eligible, att)
		}
	}
	return eligible
}

// Process runs every attachment and returns outcomes in input order. A
// failed attachment is reported in its outcome; it never aborts the batch.
func (s *Supervisor) Process(ctx context.Context, attachments []Attachment) []Outcome {
	outcomes := make([]Outcome, len(attachments))
	s.run(ctx, attachments, func(i int, outcome Outcome) {
		outcomes[i] = outcome
	})
	return outcomes
}

// ProcessEach runs every attachment and hands each outcome to deliver as it
// completes. Delivery happens from the worker goroutine that produced the
// outcome; deliver must be safe for concurrent use.
func (s *Supervisor) ProcessEach(ctx context.Context, attachments []Attachment, deliver func(Outcome)) {
	s.run(ctx, attachments, func(_ int, outcome Outcome) {
		deliver(outcome)
	})
}

func (s *Supervisor) run(ctx context.Context, attachments []Attachment, emit func(int, Outcome)) {
	if len(attachments) == 0 {
		return
	}
	s.logger.Info("batch started",
		logging.Int("attachments", len(attachments)),
		logging.Int("concurrency", s.concurrency),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i, att := range attachments {
		i, att := i, att
		group.Go(func() error {
			start := time.Now()
			artifact, err := s.pipeline.Run(groupCtx, att)
			emit(i, Outcome{
				Attachment: att,
				Artifact:   artifact,
				Err:        err,
				Duration:   time.Since(start),
			})
			// Failures are carried in the outcome so sibling runs proceed.
			return nil
		})
	}
	_ = group.Wait()
}
