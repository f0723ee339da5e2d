package worker

import (
	"context"
	"extractor/internal/contact"
	"extractor/internal/scanner"
	"extractor/pkg/domain"
	"extractor/pkg/fetcher"
	"extractor/pkg/logger"
	"extractor/pkg/metrics"
	"extractor/pkg/serrors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultPaths returns the pages requested for every website, in order.
func DefaultPaths() []string {
	return []string{"", "/contact", "/about", "/contact-us"}
}

// ProcessorOptions configure a Processor.
type ProcessorOptions struct {
	// Paths are requested in order for every website. Empty uses DefaultPaths.
	Paths []string
	// Delay is waited after every fetch attempt, successful or not.
	Delay time.Duration
}

// Processor extracts contact information for one business at a time:
// it normalizes the website, fetches each configured page, scans the pages
// that could be fetched, then cleans the emails and selects a social link.
//
// A page that cannot be fetched is logged and skipped. Only a website that
// cannot be normalized makes the processor skip the business entirely.
type Processor struct {
	fetcher fetcher.Fetcher
	cleaner *contact.Cleaner
	metrics *metrics.Metrics
	options ProcessorOptions
}

// NewProcessor constructs a Processor.
func NewProcessor(f fetcher.Fetcher, cleaner *contact.Cleaner, m *metrics.Metrics, options ProcessorOptions) *Processor {
	if len(options.Paths) == 0 {
		options.Paths = DefaultPaths()
	}

	return &Processor{
		fetcher: f,
		cleaner: cleaner,
		metrics: m,
		options: options,
	}
}

// Process builds the ExtractionResult of a business. It never fails: fetch
// errors leave the result without contact information. When ctx is canceled
// the remaining pages are not fetched.
func (p *Processor) Process(ctx context.Context, business domain.Business) domain.ExtractionResult {
	result := domain.ExtractionResult{
		BusinessName: business.Name,
		Website:      business.Website,
	}

	baseURL, err := scanner.NormalizeURL(business.Website)
	if err != nil {
		logger.Warn(ctx, "skipping business without a usable website",
			zap.String("website", business.Website), zap.Error(err))
		result.SkipReason = err.Error()
		p.metrics.Businesses.WithLabelValues(metrics.OutcomeSkipped).Inc()

		return result
	}
	ctx = logger.WithFields(ctx, zap.String("baseURL", baseURL))

	var (
		candidates []string
		socials    []domain.SocialLink
	)
	for _, path := range p.options.Paths {
		if ctx.Err() != nil {
			break
		}

		page, err := p.fetcher.Fetch(ctx, baseURL, path)
		if err != nil {
			logger.Warn(ctx, "could not fetch page", zap.String("path", path), zap.Error(err))
			p.metrics.PageFetches.WithLabelValues(fetchOutcome(err)).Inc()
		} else {
			result.PagesFetched++
			p.metrics.PageFetches.WithLabelValues(metrics.OutcomeOK).Inc()
			p.metrics.PageFetchDuration.Observe(page.Duration.Seconds())

			found := scanner.Scan(page.Body)
			candidates = append(candidates, found.Emails...)
			socials = append(socials, found.Socials...)

			logger.Debug(ctx, "page scanned",
				zap.String("url", page.URL),
				zap.Int("emailCandidates", len(found.Emails)),
				zap.Int("socialCandidates", len(found.Socials)))
		}

		if err := sleep(ctx, p.options.Delay); err != nil {
			break
		}
	}

	result.Emails = p.cleaner.Clean(candidates)
	if link, ok := contact.Select(socials); ok {
		result.Social = &link
	}

	p.metrics.EmailsFound.Add(float64(result.EmailsFound()))
	if result.HasContact() {
		p.metrics.Businesses.WithLabelValues(metrics.OutcomeContact).Inc()
	} else {
		p.metrics.Businesses.WithLabelValues(metrics.OutcomeNoContact).Inc()
	}

	return result
}

// fetchOutcome names a fetch failure after its serrors kind.
func fetchOutcome(err error) string {
	if kind := serrors.KindOf(err); kind != nil {
		return strings.ToLower(kind.Error())
	}

	return "error"
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
