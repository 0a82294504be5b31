package app

import (
	"context"
	"fmt"
	"log/slog"

	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	catalogCommands "github.com/felixgeelhaar/convrisk/internal/catalog/application/commands"
	catalogQueries "github.com/felixgeelhaar/convrisk/internal/catalog/application/queries"
	catalogDomain "github.com/felixgeelhaar/convrisk/internal/catalog/domain"
	catalogPersistence "github.com/felixgeelhaar/convrisk/internal/catalog/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/convrisk/internal/shared/application"
	"github.com/felixgeelhaar/convrisk/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/convrisk/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/convrisk/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/convrisk/pkg/config"
	"github.com/felixgeelhaar/convrisk/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Repositories
	ConversionRepo catalogDomain.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Analysis
	Analyzer *analysisApp.Analyzer

	// Catalog Command Handlers
	RegisterConversionHandler *catalogCommands.RegisterConversionHandler

	// Catalog Query Handlers
	ListConversionsHandler *catalogQueries.ListConversionsHandler
	GetConversionHandler   *catalogQueries.GetConversionHandler
}

// NewContainer creates and wires all application dependencies.
// With no DATABASE_URL the catalog runs on a zero-config local SQLite file.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	metrics := observability.NewInMemoryMetrics()
	analyzer := analysisApp.NewAnalyzer(logger, metrics)

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var conversionRepo catalogDomain.Repository
	switch conn.Driver() {
	case database.DriverPostgres:
		conversionRepo, err = catalogPersistence.NewPostgresConversionRepository(ctx, conn)
	default:
		conversionRepo, err = catalogPersistence.NewSQLiteConversionRepository(ctx, conn)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize conversion repository: %w", err)
	}

	uow := database.NewUnitOfWork(conn)

	logger.Debug("container initialized", "driver", string(conn.Driver()))

	return &Container{
		Config:                    cfg,
		Logger:                    logger,
		Metrics:                   metrics,
		DBConn:                    conn,
		DBDriver:                  conn.Driver(),
		ConversionRepo:            conversionRepo,
		UnitOfWork:                uow,
		Analyzer:                  analyzer,
		RegisterConversionHandler: catalogCommands.NewRegisterConversionHandler(conversionRepo, analyzer, uow),
		ListConversionsHandler:    catalogQueries.NewListConversionsHandler(conversionRepo),
		GetConversionHandler:      catalogQueries.NewGetConversionHandler(conversionRepo, analyzer),
	}, nil
}

// Close releases all container resources.
func (c *Container) Close() {
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Error("failed to close database connection", "error", err)
		}
	}
}
