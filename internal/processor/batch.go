package processor

import (
	"context"
	"sync"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/classifier"
	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/telemetry"
)

const defaultConcurrency = 10

// BatchClassifier classifies listings in parallel using a worker pool.
// Classification is a pure function of (make, model) and the immutable rule
// table, so concurrent workers need no coordination beyond index ownership.
type BatchClassifier struct {
	classifier  *classifier.ModelClassifier
	concurrency int
	telemetry   *telemetry.Provider
	logger      logger.Logger
}

// NewBatchClassifier creates a batch classifier.
func NewBatchClassifier(mc *classifier.ModelClassifier, concurrency int, tp *telemetry.Provider, log logger.Logger) *BatchClassifier {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BatchClassifier{
		classifier:  mc,
		concurrency: concurrency,
		telemetry:   tp,
		logger:      log,
	}
}

// Classify fills the canonical identity fields of every listing in place.
// Each worker owns the indices it drains from the jobs channel, so the
// shared slice needs no locking. Respects context cancellation between
// items; already-classified items keep their values.
func (b *BatchClassifier) Classify(ctx context.Context, listings []domain.Listing) {
	if len(listings) == 0 {
		return
	}

	start := time.Now()
	jobs := make(chan int, len(listings))

	var wg sync.WaitGroup
	var ruleMatches, fallbacks, unknowns int64
	var mu sync.Mutex

	for w := 0; w < b.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var localMatches, localFallbacks, localUnknowns int64

			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				l := &listings[i]
				id := b.classifier.Identity(l.Make, l.Model)
				l.Make = id.Make
				l.Model = id.Model
				l.ModelBase = id.ModelBase
				l.Slug = id.Slug

				if id.RuleMatched {
					localMatches++
				} else {
					localFallbacks++
				}
				if id.ModelBase == domain.Unknown {
					localUnknowns++
				}
			}

			mu.Lock()
			ruleMatches += localMatches
			fallbacks += localFallbacks
			unknowns += localUnknowns
			mu.Unlock()
		}()
	}

	for i := range listings {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if b.telemetry != nil {
		m := b.telemetry.Metrics
		m.ListingsClassified.Add(float64(len(listings)))
		m.RuleMatches.Add(float64(ruleMatches))
		m.Fallbacks.Add(float64(fallbacks))
		m.UnknownModels.Add(float64(unknowns))
	}

	b.logger.Info("batch classification complete",
		logger.Int("listings", len(listings)),
		logger.Int("workers", b.concurrency),
		logger.Int64("rule_matches", ruleMatches),
		logger.Int64("fallbacks", fallbacks),
		logger.Int64("unknown_models", unknowns),
		logger.Duration("duration", time.Since(start)),
	)
}
