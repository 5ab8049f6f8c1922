package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rcliao/aurvo/internal/config"
	"github.com/rcliao/aurvo/internal/model"
)

// Dump is a snapshot of insights keyed by module slug.
type Dump map[string][]model.Insight

// Export returns every module's insights, ordered by key.
func (s *Store) Export(ctx context.Context) (Dump, error) {
	modules, err := s.resolver.List()
	if err != nil {
		return nil, err
	}

	dump := make(Dump, len(modules))
	for _, m := range modules {
		err := s.Connect(ctx, m.Slug, func(c *Conn) error {
			if err := c.InitialiseSchema(ctx); err != nil {
				return err
			}
			insights, err := c.Insights(ctx)
			dump[m.Slug] = insights
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", m.Slug, err)
		}
	}
	return dump, nil
}

// Import upserts every insight in the dump, module by module in slug
// order. Timestamps in the dump are ignored; rows get the time of import.
// Slugs that are not configured are skipped and reported in the returned
// error while the remaining modules are still written. Returns the number
// of rows written.
func (s *Store) Import(ctx context.Context, dump Dump) (int, error) {
	imported := 0
	var skipped []error
	for _, slug := range slices.Sorted(maps.Keys(dump)) {
		if _, err := s.resolver.Module(slug); err != nil {
			var nf *config.NotFoundError
			if errors.As(err, &nf) {
				skipped = append(skipped, fmt.Errorf("skip %s: %w", slug, err))
				continue
			}
			return imported, err
		}

		insights := dump[slug]
		records := make([]Record, len(insights))
		for i, in := range insights {
			records[i] = Record{Key: in.Key, Value: in.Value}
		}
		if err := s.Seed(ctx, slug, records); err != nil {
			return imported, fmt.Errorf("import %s: %w", slug, err)
		}
		imported += len(records)
	}
	return imported, errors.Join(skipped...)
}
