package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/webshepherd/webshepherd/internal/model"
)

// ScanBatch scans multiple URLs concurrently, at most limit at a time,
// and returns one terminal record per URL in argument order. Individual
// scan failures are recorded in their records and never abort the batch;
// context cancellation surfaces as Failed records for the scans it
// interrupted.
func (s *Scanner) ScanBatch(ctx context.Context, urls []string, limit int) []*model.ScanRecord {
	if limit < 1 {
		limit = 1
	}

	records := make([]*model.ScanRecord, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			records[i] = s.Scan(ctx, url)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return records
}
