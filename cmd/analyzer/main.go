package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"feiralens/internal/analytics"
	"feiralens/internal/config"
	"feiralens/internal/dataprocessing"
	"feiralens/internal/exporter"
	"feiralens/internal/files"
	"feiralens/internal/infrastructure"
	"feiralens/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	outDir := flag.String("out", "reports", "output directory for exports")
	format := flag.String("format", "csv", "export format: csv | xlsx")
	topLimit := flag.Int("top", 0, "category rollup size (defaults from config)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [flags] <sales files...>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	reader := files.NewReader(logger, cfg.Import.MaxFileSize)
	uploads, err := reader.ReadAll(flag.Args())
	if err != nil {
		logger.Error("failed to load input files", "error", err)
		os.Exit(1)
	}

	tabular := dataprocessing.NewTabularImporter(logger, dataprocessing.TabularConfig{
		MarketMarker:    cfg.Import.MarketMarker,
		RequiredColumns: cfg.Import.RequiredColumns,
	})
	orchestrator := pipeline.New(logger, dataprocessing.NewLedgerParser(logger, nil), tabular, nil)

	result := orchestrator.Run(context.Background(), uploads)
	for _, line := range result.Log {
		fmt.Println(line)
	}

	svc := analytics.NewService(logger)
	svc.SetSales(result.Sales)

	limit := cfg.Analytics.TopCategories
	if *topLimit > 0 {
		limit = *topLimit
	}
	items := svc.ItemRollup()
	categories := svc.TopCategories(limit)

	switch *format {
	case "csv":
		writer := exporter.NewCSVWriter(logger, *outDir)
		if err := writer.ExportSalesCSV("vendas.csv", result.Sales); err != nil {
			logger.Error("failed to export sales", "error", err)
			os.Exit(1)
		}
		if err := writer.ExportItemsCSV("produtos.csv", items); err != nil {
			logger.Error("failed to export items", "error", err)
			os.Exit(1)
		}
		if err := writer.ExportCategoriesCSV("tipos.csv", categories); err != nil {
			logger.Error("failed to export categories", "error", err)
			os.Exit(1)
		}
	case "xlsx":
		writer := exporter.NewXLSXWriter(logger)
		path := fmt.Sprintf("%s/analise.xlsx", *outDir)
		if err := writer.ExportWorkbook(path, result.Sales, items, categories); err != nil {
			logger.Error("failed to export workbook", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	fmt.Println()
	for _, kpi := range svc.KPIs() {
		fmt.Printf("%-28s %.2f\n", kpi.Label, kpi.Value)
	}

	insights := svc.Insights()
	if len(insights) > 0 {
		fmt.Println()
		for _, insight := range insights {
			fmt.Printf("[%s] %s: %s\n", insight.Priority, insight.Title, insight.Description)
		}
	}
}
