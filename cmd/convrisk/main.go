package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/convrisk/adapter/cli"
	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	"github.com/felixgeelhaar/convrisk/internal/app"
	"github.com/felixgeelhaar/convrisk/pkg/config"
	"github.com/felixgeelhaar/convrisk/pkg/observability"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development", LogLevel: "info", LogFormat: "text", DefaultPolicy: "reject"}
	}

	// Setup logger
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	defaultPolicy, err := analysisApp.ParsePolicy(cfg.DefaultPolicy)
	if err != nil {
		logger.Warn("invalid CONVRISK_POLICY, using reject", "policy", cfg.DefaultPolicy)
		defaultPolicy = analysisApp.PolicyReject
	}

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		// Analysis works without a catalog database; only the catalog
		// commands need the connection.
		logger.Warn("running without catalog database", "error", err)
		analyzer := analysisApp.NewAnalyzer(logger, observability.NewInMemoryMetrics())
		cliApp = cli.NewApp(analyzer, nil, nil, nil)
	} else {
		defer container.Close()
		cliApp = cli.NewApp(
			container.Analyzer,
			container.RegisterConversionHandler,
			container.ListConversionsHandler,
			container.GetConversionHandler,
		)
	}
	cliApp.DefaultPolicy = defaultPolicy
	cli.SetApp(cliApp)

	cli.Execute()
}
