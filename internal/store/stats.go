package store

import (
	"context"
	"os"
)

// Stats holds storage statistics across all modules.
type Stats struct {
	DataDir      string        `json:"data_dir"`
	TotalRecords int           `json:"total_records"`
	TotalBytes   int64         `json:"total_bytes"`
	Modules      []ModuleStats `json:"modules"`
}

// ModuleStats holds per-module file and row counts.
type ModuleStats struct {
	Slug      string `json:"slug"`
	DBPath    string `json:"db_path"`
	SizeBytes int64  `json:"size_bytes"`
	Records   int    `json:"records"`
}

// Stats returns storage statistics. Module files are created if missing.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	settings, err := s.resolver.Settings()
	if err != nil {
		return nil, err
	}

	st := &Stats{DataDir: settings.DataDir, Modules: []ModuleStats{}}
	for _, m := range settings.Modules {
		ms := ModuleStats{Slug: m.Slug}
		err := s.Connect(ctx, m.Slug, func(c *Conn) error {
			ms.DBPath = c.Path()
			if err := c.InitialiseSchema(ctx); err != nil {
				return err
			}
			n, err := c.Count(ctx)
			ms.Records = n
			return err
		})
		if err != nil {
			return nil, err
		}

		if info, err := os.Stat(ms.DBPath); err == nil {
			ms.SizeBytes = info.Size()
		}
		st.TotalRecords += ms.Records
		st.TotalBytes += ms.SizeBytes
		st.Modules = append(st.Modules, ms)
	}
	return st, nil
}
