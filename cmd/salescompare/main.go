package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"sales-comparison/internal/cli"
	"sales-comparison/internal/config"
	"sales-comparison/internal/domain"
	"sales-comparison/internal/gateway"
	"sales-comparison/internal/usecase"
)

var version = "0.0.0-dev"

// build wires the application from the loaded configuration.
func build(cfg *config.Config) (*cli.Services, error) {
	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	// 1. Create the readers (the outermost layer)
	reader := gateway.NewFileTableReader(
		gateway.NewCSVTableReader(),
		gateway.NewXLSXTableReader(cfg.DateColumns()...),
	)

	// 2. Create the usecase and inject the reader and caches
	opts := []usecase.Option{
		usecase.WithLogger(logger),
		usecase.WithColumnAliases(cfg.ColumnAliases()),
	}
	if cfg.Cache.Datasets > 0 {
		opts = append(opts, usecase.WithDatasetCache(gateway.NewMemoryCache[*domain.Dataset](cfg.Cache.Datasets)))
	}
	if cfg.Cache.Reports > 0 {
		opts = append(opts, usecase.WithReportCache(gateway.NewMemoryCache[*domain.ComparisonReport](cfg.Cache.Reports)))
	}
	comparison := usecase.NewComparisonUseCase(reader, opts...)

	return &cli.Services{
		Comparer: comparison,
		Exporter: gateway.NewExportRepository(),
		Logger:   logger,
	}, nil
}

func main() {
	app := cli.NewCLIApp(version, build)
	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
