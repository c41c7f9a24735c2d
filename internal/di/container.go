package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
	"formwalker/internal/infrastructure/browser/rod"
	"formwalker/internal/infrastructure/logger"
	"formwalker/internal/infrastructure/monitor"
	"formwalker/internal/infrastructure/userinteraction"
	"formwalker/internal/usecase/extraction"
	"formwalker/internal/usecase/failure"
	"formwalker/internal/usecase/resolution"
	"formwalker/internal/usecase/traversal"
)

type Container struct {
	RunID      string
	Page       output.PagePort
	Logger     output.LoggerPort
	Monitor    *monitor.Monitor
	Controller *traversal.Controller
}

type Config struct {
	Headless        bool
	MaxIterations   int
	NavigationWait  time.Duration
	MonitorInterval time.Duration

	// Optional YAML overlays; empty paths keep the built-in defaults.
	CatalogPath string
	TablesPath  string

	Profile entity.DataProfile
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	runID := uuid.New().String()

	log, err := logger.NewLoggerAdapter(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	pageCfg := rod.DefaultConfig()
	pageCfg.Headless = cfg.Headless
	page, err := rod.NewPageAdapter(ctx, pageCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create page session: %w", err)
	}

	catalog := extraction.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = extraction.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			page.Close()
			log.Close()
			return nil, fmt.Errorf("failed to load selector catalog: %w", err)
		}
	}

	tables := resolution.DefaultTables()
	if cfg.TablesPath != "" {
		tables, err = resolution.LoadTables(cfg.TablesPath)
		if err != nil {
			page.Close()
			log.Close()
			return nil, fmt.Errorf("failed to load resolution tables: %w", err)
		}
	}

	classifier := extraction.NewClassifier(log)
	builder := extraction.NewBuilder(page, log, catalog.DefaultOptions)
	extractor := extraction.NewExtractor(classifier, builder, log)

	resolver := resolution.NewResolver(tables)
	retry := failure.NewPolicy(log)
	filler := rod.NewFiller(page, log)
	progress := userinteraction.NewConsoleProgress()

	travCfg := traversal.DefaultConfig()
	if cfg.MaxIterations > 0 {
		travCfg.MaxIterations = cfg.MaxIterations
	}
	if cfg.NavigationWait > 0 {
		travCfg.NavigationWait = cfg.NavigationWait
	}

	controller := traversal.NewController(
		page, filler, extractor, resolver, catalog,
		retry, progress, log, cfg.Profile, travCfg,
	)

	mon := monitor.New(cfg.MonitorInterval, log)

	return &Container{
		RunID:      runID,
		Page:       page,
		Logger:     log,
		Monitor:    mon,
		Controller: controller,
	}, nil
}

func (c *Container) Close() {
	if c.Monitor != nil {
		c.Monitor.Stop()
	}
	if c.Page != nil {
		c.Page.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
