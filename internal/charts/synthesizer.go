package charts

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
)

// Synthesizer renders chart batches. It holds no per-request state, so one
// instance is shared process-wide.
type Synthesizer struct {
	logger zerolog.Logger
}

// NewSynthesizer creates a chart synthesizer.
func NewSynthesizer(logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{logger: logger.With().Str("component", "charts").Logger()}
}

// Synthesize renders a single chart kind.
func (s *Synthesizer) Synthesize(years []projection.YearRecord, scenario *storage.Scenario, summary projection.Summary, kind Kind, style Style) (*Image, error) {
	return Synthesize(years, scenario, summary, kind, style)
}

// SynthesizeMany renders the requested kinds in parallel. Each kind is a pure
// computation over read-only inputs, so kind-level parallelism is safe. An
// individual kind's failure is logged and skipped; the partial set is an
// acceptable degraded result. onProgress, when set, is called with completed
// and total counts as kinds finish.
func (s *Synthesizer) SynthesizeMany(ctx context.Context, years []projection.YearRecord, scenario *storage.Scenario, summary projection.Summary, kinds []Kind, style Style, onProgress func(done, total int)) []Image {
	results := make([]*Image, len(kinds))

	var mu sync.Mutex
	done := 0

	g, _ := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			img, err := Synthesize(years, scenario, summary, kind, style)
			if err != nil {
				s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("chart synthesis failed, skipping")
			} else {
				results[i] = img
			}

			// The callback runs under the lock so counts are delivered in
			// order and never concurrently.
			mu.Lock()
			done++
			if onProgress != nil {
				onProgress(done, len(kinds))
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait() // error is always nil; failures are skipped above

	images := make([]Image, 0, len(kinds))
	for _, img := range results {
		if img != nil {
			images = append(images, *img)
		}
	}
	return images
}
