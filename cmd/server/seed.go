package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/core/codec"
	"folio/internal/core/entity"
	"folio/internal/domain"
	"folio/internal/domain/catalogs/about"
	"folio/internal/domain/catalogs/award"
	"folio/internal/domain/catalogs/brand"
	"folio/internal/domain/catalogs/experience"
	"folio/internal/domain/catalogs/skill"
	"folio/internal/domain/catalogs/work"
	"folio/internal/domain/filter"
	"folio/internal/infrastructure/storage/postgres"
	"folio/internal/infrastructure/storage/postgres/content_repo"
	"folio/pkg/logger"
)

// seedCmd fills an empty database with demo content.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo content into an empty database",
	Long: `Inserts one published row per homepage section so a fresh install renders.
Nothing is written when works already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return errors.New("seed requires database.url")
		}

		log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger.SetDefault(log)

		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		log.Info("connected to database")
		return seed(ctx, postgres.NewTxManager(pool), log.WithComponent("seed"))
	},
}

func seed(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	works := work.NewService(content_repo.New(txm, work.Resource, work.New), txm)

	existing, err := works.List(ctx, filter.Options{
		IncludeUnpublished: true,
		IncludeDrafts:      true,
		IncludeDeleted:     true,
		Limit:              1,
	})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		log.Infow("works already present, skipping seed", "count", existing.TotalCount)
		return nil
	}

	w := &work.Work{
		Title:       "Portfolio Platform",
		Description: "Content API and editor for a personal portfolio.",
		Category:    "Engineering",
		Year:        2024,
		Tags:        codec.Of([]string{"go", "postgres"}),
		TechStack:   codec.Of([]string{"gin", "pgx", "squirrel"}),
	}
	w.IsFeatured = true
	if err := create(ctx, works.ContentService, w); err != nil {
		return err
	}

	a := &about.About{
		Title:       "Hello",
		Description: "Engineer building content platforms.",
		Highlights:  codec.Of([]string{"10 years of backend work"}),
	}
	if err := create(ctx, service(txm, about.Resource, about.New), a); err != nil {
		return err
	}

	s := &skill.Skill{Name: "Go", Category: "Languages", Level: 90, Years: 6}
	if err := create(ctx, service(txm, skill.Resource, skill.New), s); err != nil {
		return err
	}

	e := &experience.Experience{
		Company:        "Acme",
		Position:       "Backend Engineer",
		EmploymentType: "full-time",
		StartDate:      "2020-01",
		IsCurrent:      true,
	}
	if err := create(ctx, service(txm, experience.Resource, experience.New), e); err != nil {
		return err
	}

	aw := &award.Award{Title: "Best API", Issuer: "DevConf", Year: 2023}
	if err := create(ctx, service(txm, award.Resource, award.New), aw); err != nil {
		return err
	}

	b := &brand.Brand{Name: "Acme", Type: "employer"}
	if err := create(ctx, service(txm, brand.Resource, brand.New), b); err != nil {
		return err
	}

	log.Info("seeding completed successfully")
	return nil
}

func service[T entity.Content](txm *postgres.TxManager, resource domain.Resource, newFn func() T) *domain.ContentService[T] {
	return domain.NewContentService(domain.ContentServiceConfig[T]{
		Repo:      content_repo.New(txm, resource, newFn),
		TxManager: txm,
		Resource:  resource,
		New:       newFn,
	})
}

// create inserts e as published content.
func create[T entity.Content](ctx context.Context, svc *domain.ContentService[T], e T) error {
	e.Base().IsPublished = true
	if err := svc.Create(ctx, e); err != nil {
		return fmt.Errorf("seed %s: %w", svc.Resource().Name, err)
	}
	return nil
}
