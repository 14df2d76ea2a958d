// Package pipeline drives uploaded files through the format parsers, merges
// their sales, deduplicates the collection and aggregates run statistics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"feiralens/internal/dataprocessing"
	"feiralens/internal/metrics"
	"feiralens/pkg/contracts/domain"
)

// Version is stamped on every pipeline result.
const Version = "1.0.0"

// Orchestrator owns one run at a time. Files are processed sequentially in
// submission order; that order decides which duplicate survives, so no
// concurrent scatter is allowed here.
type Orchestrator struct {
	logger   *slog.Logger
	ledger   *dataprocessing.LedgerParser
	tabular  *dataprocessing.TabularImporter
	recorder *metrics.Recorder
}

// New creates an orchestrator. Nil collaborators fall back to defaults.
func New(logger *slog.Logger, ledger *dataprocessing.LedgerParser, tabular *dataprocessing.TabularImporter, recorder *metrics.Recorder) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = dataprocessing.NewLedgerParser(logger, nil)
	}
	if tabular == nil {
		tabular = dataprocessing.NewTabularImporter(logger, dataprocessing.TabularConfig{})
	}
	return &Orchestrator{logger: logger, ledger: ledger, tabular: tabular, recorder: recorder}
}

// fileOutcome carries one file's contribution before merging.
type fileOutcome struct {
	sales    []domain.Sale
	errors   []domain.ProcessingError
	warnings []domain.ProcessingError
	counters domain.LineCounters
	items    int
}

// Run processes every file and returns the merged, deduplicated result.
// Failures never escape: a bad file contributes zero sales and a file-level
// error; the run itself always yields a result object.
func (o *Orchestrator) Run(ctx context.Context, files []domain.UploadedFile) domain.PipelineResult {
	stats := domain.ProcessingStatistics{TotalFiles: len(files)}
	log := []string{fmt.Sprintf("Starting processing of %d file(s)", len(files))}
	var sales []domain.Sale

	for _, file := range files {
		log = append(log, fmt.Sprintf("Processing file: %s", file.Name))

		outcome := o.processFile(ctx, file)

		sales = append(sales, outcome.sales...)
		stats.Errors = append(stats.Errors, outcome.errors...)
		stats.Warnings = append(stats.Warnings, outcome.warnings...)
		stats.TotalLines += outcome.counters.Total
		stats.ParsedLines += outcome.counters.Parsed
		stats.DiscardedLines += outcome.counters.Discarded
		stats.CorrectedLines += outcome.counters.Corrected
		stats.ItemsProcessed += outcome.items

		if len(outcome.errors) > 0 {
			log = append(log, fmt.Sprintf("✗ %s: %s", file.Name, outcome.errors[0].Message))
		} else {
			log = append(log, fmt.Sprintf("✓ %s: %d sale(s) processed", file.Name, len(outcome.sales)))
		}

		if o.recorder != nil {
			o.recorder.ObserveFile(string(file.Kind), outcome.counters, len(outcome.sales))
		}
	}

	deduplicated, removed := deduplicate(sales)
	if removed > 0 {
		log = append(log, fmt.Sprintf("Removed %d duplicate sale(s)", removed))
		if o.recorder != nil {
			o.recorder.ObserveDuplicates(removed)
		}
	}

	stats.SalesGenerated = len(deduplicated)
	stats.DuplicatesRemoved = removed

	log = append(log, fmt.Sprintf("Processing finished: %d final sale(s)", len(deduplicated)))

	o.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("files", len(files)),
		slog.Int("sales", len(deduplicated)),
		slog.Int("duplicates_removed", removed),
		slog.Int("errors", len(stats.Errors)),
		slog.Int("warnings", len(stats.Warnings)))

	return domain.PipelineResult{
		Sales:      deduplicated,
		Statistics: stats,
		Log:        log,
		Timestamp:  time.Now(),
		Version:    Version,
	}
}

// processFile dispatches one file by declared kind. All parser failures are
// converted to structured records at this boundary.
func (o *Orchestrator) processFile(ctx context.Context, file domain.UploadedFile) fileOutcome {
	switch file.Kind {
	case domain.FileKindLedger:
		return o.processLedger(file)
	case domain.FileKindTabular:
		return o.processTabular(file)
	case domain.FileKindSpreadsheet:
		// Spreadsheet import is a known incompleteness: the file is accepted
		// but contributes zero sales until a converter exists.
		return fileOutcome{warnings: []domain.ProcessingError{{
			File:     file.Name,
			Severity: domain.SeverityWarning,
			Message:  "spreadsheet processing pending CSV conversion",
		}}}
	default:
		return fileOutcome{errors: []domain.ProcessingError{{
			File:     file.Name,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("unsupported file kind: %s", file.Kind),
		}}}
	}
}

func (o *Orchestrator) processLedger(file domain.UploadedFile) fileOutcome {
	outcome := fileOutcome{}
	outcome.counters.Total = countNonEmptyLines(file.Content)

	sales := o.ledger.Parse(file.Content, file.Name)
	outcome.sales = sales

	for _, sale := range sales {
		outcome.items += len(sale.Items)
	}
	outcome.counters.Parsed = outcome.items
	outcome.counters.Discarded = outcome.counters.Total - outcome.counters.Parsed

	if incomplete := countIncomplete(sales); incomplete > 0 {
		outcome.warnings = append(outcome.warnings, domain.ProcessingError{
			File:     file.Name,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("%d sale(s) with uncategorized products", incomplete),
		})
	}
	return outcome
}

func (o *Orchestrator) processTabular(file domain.UploadedFile) fileOutcome {
	result := o.tabular.Import(file.Content, file.Name)

	outcome := fileOutcome{
		sales:    result.Sales,
		errors:   result.Errors,
		warnings: result.Warnings,
		counters: result.Counters,
	}
	for _, sale := range result.Sales {
		outcome.items += len(sale.Items)
	}
	return outcome
}

// deduplicate removes sales sharing an exact (isoDate, location, totalValue)
// triple. The first occurrence wins, so submission order matters.
func deduplicate(sales []domain.Sale) ([]domain.Sale, int) {
	seen := make(map[string]struct{}, len(sales))
	out := make([]domain.Sale, 0, len(sales))

	for _, sale := range sales {
		key := fmt.Sprintf("%s-%s-%v", sale.DateKey(), sale.Location, sale.TotalValue)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sale)
	}
	return out, len(sales) - len(out)
}

func countNonEmptyLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func countIncomplete(sales []domain.Sale) int {
	count := 0
	for _, sale := range sales {
		if sale.Incomplete {
			count++
		}
	}
	return count
}
