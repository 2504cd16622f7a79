package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
	"github.com/felixgeelhaar/aiscan/internal/domain/policy"
)

// RecordSource loads the ordered input sequence for a run.
type RecordSource interface {
	Load() ([]inventory.SoftwareRecord, error)
}

// ResultWriter persists the reviewed records of a completed run.
type ResultWriter interface {
	Write([]classify.ReviewedRecord) error
}

// Options tune a scan run. Zero values fall back to the documented defaults.
type Options struct {
	Concurrency int           // parallel classifier calls; 1 = sequential
	Retries     int           // attempts per record for transient failures
	RetryDelay  time.Duration // initial backoff delay, doubled per attempt
	Timeout     time.Duration // ceiling per classifier attempt
	ReasonMax   int           // reason length cap in characters
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Retries < 1 {
		o.Retries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.ReasonMax < 1 {
		o.ReasonMax = policy.DefaultReasonMax
	}
	return o
}

// Progress is invoked once per record as it finishes. Under parallel
// execution it is called from worker goroutines and must be safe for
// concurrent use.
type Progress func(index, total int, rec classify.ReviewedRecord)

// Summary is the operator-facing outcome of a run. Row-level flags never
// fail a run; only structural errors do.
type Summary struct {
	Total    int
	Flagged  int
	Errored  int
	Provider string
	Usage    ai.TokenUsage
	Duration time.Duration
}

// ScanService drives the pipeline end to end: load records, classify each
// with retry, apply review policy, and write the results table in input
// order. A record that exhausts its retries degrades to an errored, flagged
// row rather than aborting the run.
type ScanService struct {
	source     RecordSource
	classifier *ClassifierService
	writer     ResultWriter
	audit      *AuditService // optional; nil outside an initialized workspace
	usage      *UsageService // optional
	opts       Options
	progress   Progress
}

func NewScanService(source RecordSource, classifier *ClassifierService, writer ResultWriter, audit *AuditService, usage *UsageService, opts Options) *ScanService {
	return &ScanService{
		source:     source,
		classifier: classifier,
		writer:     writer,
		audit:      audit,
		usage:      usage,
		opts:       opts.withDefaults(),
	}
}

// SetProgress registers a per-record completion callback.
func (s *ScanService) SetProgress(fn Progress) {
	s.progress = fn
}

// Run executes one full scan. The returned error is structural (unreadable
// input, unwritable output); per-record failures are visible only in the
// results table and the summary counts.
func (s *ScanService) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	records, err := s.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	// Results are keyed by input position so output order matches input
	// order regardless of completion order.
	reviewed := make([]classify.ReviewedRecord, len(records))
	usages := make([]ai.TokenUsage, len(records))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, rec := range records {
		g.Go(func() error {
			res, usage := s.classifyWithRetry(ctx, rec)

			res, needsReview, truncated := policy.Review(res, s.opts.ReasonMax)
			reviewed[i] = classify.ReviewedRecord{
				Record:      rec,
				Result:      res,
				NeedsReview: needsReview,
				Truncated:   truncated,
			}
			usages[i] = usage

			if s.progress != nil {
				s.progress(i, len(records), reviewed[i])
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers degrade rows instead of returning errors

	if err := s.writer.Write(reviewed); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}

	summary := &Summary{
		Total:    len(reviewed),
		Provider: s.classifier.ProviderID(),
		Duration: time.Since(start),
	}
	for i, rec := range reviewed {
		if rec.NeedsReview {
			summary.Flagged++
		}
		if rec.Result.RawError != "" {
			summary.Errored++
		}
		summary.Usage.Add(usages[i])
	}

	s.record(summary)

	return summary, nil
}

// classifyWithRetry wraps one record's classification in the per-attempt
// timeout and the transient-failure retry ceiling. Terminal provider errors
// and exhausted retries both degrade to an errored result.
func (s *ScanService) classifyWithRetry(ctx context.Context, rec inventory.SoftwareRecord) (classify.Result, ai.TokenUsage) {
	type outcome struct {
		result classify.Result
		usage  ai.TokenUsage
	}

	r := retry.New[outcome](retry.Config{
		MaxAttempts:   s.opts.Retries,
		InitialDelay:  s.opts.RetryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	t := timeout.New[outcome](timeout.Config{
		DefaultTimeout: s.opts.Timeout,
	})

	out, err := r.Do(ctx, func(ctx context.Context) (outcome, error) {
		return t.Execute(ctx, s.opts.Timeout, func(ctx context.Context) (outcome, error) {
			result, usage, err := s.classifier.Classify(ctx, rec)
			if err != nil {
				if ai.IsTransient(err) {
					return outcome{}, err
				}
				// Terminal failure: degrade immediately, no retry.
				return outcome{result: classify.ErrorResult(err.Error()), usage: usage}, nil
			}
			return outcome{result: result, usage: usage}, nil
		})
	})
	if err != nil {
		return classify.ErrorResult(err.Error()), out.usage
	}

	return out.result, out.usage
}

// record emits the audit event and usage telemetry for a completed run when
// a workspace is present.
func (s *ScanService) record(summary *Summary) {
	if s.audit != nil {
		_ = s.audit.Log("scan.completed", "scanner", map[string]interface{}{
			"provider":      summary.Provider,
			"total":         summary.Total,
			"flagged":       summary.Flagged,
			"errored":       summary.Errored,
			"input_tokens":  summary.Usage.InputTokens,
			"output_tokens": summary.Usage.OutputTokens,
		})
	}
	if s.usage != nil {
		_ = s.usage.RecordRun(summary.Provider, summary.Total, summary.Usage)
	}
}
