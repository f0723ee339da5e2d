// Package worker runs the extraction: Processor handles a single business
// and Runner drives a whole batch of them, one at a time, in input order.
package worker

import (
	"context"
	"extractor/pkg/domain"
	"extractor/pkg/logger"
	"fmt"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"
)

// socialLogLimit truncates social links in progress logs.
const socialLogLimit = 50

// BusinessProcessor processes a single business.
type BusinessProcessor interface {
	Process(ctx context.Context, business domain.Business) domain.ExtractionResult
}

// Summary holds the counters of a run.
type Summary struct {
	// Total is the number of input rows.
	Total int
	// Processed is the number of rows that went through the processor.
	Processed int
	// WithContact counts results with at least one email or a social link.
	WithContact int
	// WithEmails counts results with at least one email.
	WithEmails int
	// WithSocial counts results with a social link.
	WithSocial int
	// Failed counts businesses that were skipped or whose pages all failed to load.
	Failed int
}

func (s *Summary) add(r domain.ExtractionResult) {
	s.Processed++
	if r.HasContact() {
		s.WithContact++
	}
	if r.EmailsFound() > 0 {
		s.WithEmails++
	}
	if r.Social != nil {
		s.WithSocial++
	}
	if r.Skipped() || r.PagesFetched == 0 {
		s.Failed++
	}
}

// Runner processes a batch of businesses sequentially.
type Runner struct {
	processor BusinessProcessor
}

// NewRunner constructs a Runner backed by the given processor.
func NewRunner(processor BusinessProcessor) *Runner {
	return &Runner{processor: processor}
}

// Run processes businesses one at a time in input order and returns their
// results sorted by SortResults, along with the run counters.
//
// If ctx is canceled, Run stops before the next business and returns the
// results gathered so far together with the context error.
func (r *Runner) Run(ctx context.Context, businesses []domain.Business) ([]domain.ExtractionResult, Summary, error) {
	summary := Summary{Total: len(businesses)}
	results := make([]domain.ExtractionResult, 0, len(businesses))

	logger.Info(ctx, "starting email and social media extraction", zap.Int("businesses", len(businesses)))

	for i, business := range businesses {
		if err := ctx.Err(); err != nil {
			SortResults(results)

			return results, summary, fmt.Errorf("extraction interrupted after %d of %d businesses: %w",
				summary.Processed, summary.Total, err)
		}

		bctx := logger.WithFields(ctx, zap.Int("row", i+1), zap.String("business", business.Name))
		logger.Info(bctx, "processing business", zap.Int("index", i+1), zap.Int("total", len(businesses)))

		res := r.processor.Process(bctx, business)
		results = append(results, res)
		summary.add(res)

		logger.Info(bctx, "business processed",
			zap.Strings("emails", res.Emails),
			zap.String("social", truncate(res.SocialURL(), socialLogLimit)),
			zap.Bool("hasContact", res.HasContact()))
	}

	SortResults(results)

	return results, summary, nil
}

// SortResults moves results with contact information before those without,
// keeping the input order within each group.
func SortResults(results []domain.ExtractionResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].HasContact() && !results[j].HasContact()
	})
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)

	return string(r[:n]) + "..."
}
