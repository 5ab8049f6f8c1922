// Package service implements the module insight operations on top of the
// registry and the per-module store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/aurvo/internal/config"
	"github.com/rcliao/aurvo/internal/model"
	"github.com/rcliao/aurvo/internal/store"
)

// Default insights seeded for every module at startup.
const (
	KeyDescription = "description"
	KeyStatus      = "status"
	StatusOK       = "operational"
)

// Registry resolves module definitions.
type Registry interface {
	List() ([]model.ModuleDefinition, error)
	Module(slug string) (model.ModuleDefinition, error)
}

// Storage opens module databases.
type Storage interface {
	Connect(ctx context.Context, slug string, fn func(c *store.Conn) error) error
	BootstrapAll(ctx context.Context) error
}

// Service composes the registry and the store.
type Service struct {
	registry Registry
	storage  Storage
	logger   *slog.Logger
}

// New creates a Service. A nil logger discards output.
func New(registry Registry, storage Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{registry: registry, storage: storage, logger: logger}
}

// IsNotFound reports whether err means an unknown module slug.
func IsNotFound(err error) bool {
	var nf *config.NotFoundError
	return errors.As(err, &nf)
}

// ListSummaries returns every module with its current record count.
func (s *Service) ListSummaries(ctx context.Context) ([]model.ModuleSummary, error) {
	modules, err := s.registry.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.ModuleSummary, 0, len(modules))
	for _, m := range modules {
		var count int
		err := s.storage.Connect(ctx, m.Slug, func(c *store.Conn) error {
			if err := c.InitialiseSchema(ctx); err != nil {
				return err
			}
			var err error
			count, err = c.Count(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", m.Slug, err)
		}
		summaries = append(summaries, model.ModuleSummary{
			Slug:        m.Slug,
			Title:       m.Title,
			Description: m.Description,
			Records:     count,
		})
	}
	return summaries, nil
}

// Detail returns a module and all of its insights ordered by key.
func (s *Service) Detail(ctx context.Context, slug string) (*model.ModuleDetail, error) {
	m, err := s.registry.Module(slug)
	if err != nil {
		return nil, err
	}

	var insights []model.Insight
	err = s.storage.Connect(ctx, slug, func(c *store.Conn) error {
		if err := c.InitialiseSchema(ctx); err != nil {
			return err
		}
		var err error
		insights, err = c.Insights(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.ModuleDetail{
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Insights:    insights,
	}, nil
}

// UpsertInsight creates or overwrites key for a module and returns the
// stored row. Unknown modules fail before storage is touched.
func (s *Service) UpsertInsight(ctx context.Context, slug, key, value string) (*model.Insight, error) {
	if _, err := s.registry.Module(slug); err != nil {
		return nil, err
	}

	var in *model.Insight
	err := s.storage.Connect(ctx, slug, func(c *store.Conn) error {
		if err := c.InitialiseSchema(ctx); err != nil {
			return err
		}
		var err error
		in, err = c.Put(ctx, key, value)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("insight upserted", "module", slug, "key", key)
	return in, nil
}

// Bootstrap initialises every module database and seeds the default
// description and status insights.
func (s *Service) Bootstrap(ctx context.Context) error {
	if err := s.storage.BootstrapAll(ctx); err != nil {
		return err
	}

	modules, err := s.registry.List()
	if err != nil {
		return err
	}
	for _, m := range modules {
		if _, err := s.UpsertInsight(ctx, m.Slug, KeyDescription, m.Description); err != nil {
			return fmt.Errorf("seed %s: %w", m.Slug, err)
		}
		if _, err := s.UpsertInsight(ctx, m.Slug, KeyStatus, StatusOK); err != nil {
			return fmt.Errorf("seed %s: %w", m.Slug, err)
		}
	}
	s.logger.Info("module databases initialised", "modules", len(modules))
	return nil
}
