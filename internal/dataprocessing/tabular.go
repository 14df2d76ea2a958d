package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"feiralens/pkg/contracts/domain"
)

// Default header contract of the tabular export format.
const (
	ColumnDate     = "Data"
	ColumnWeekday  = "Dia"
	ColumnProduct  = "Produto"
	ColumnType     = "Tipo"
	ColumnCategory = "Categoria"
	ColumnLocation = "Local"
	ColumnQuantity = "Qnt"
	ColumnTotal    = "Total"
)

// DefaultMarketMarker is the Local value a row must carry to be imported.
const DefaultMarketMarker = "FEIRA"

// TabularLocation is the location stamped on sales built from tabular rows.
const TabularLocation = "feira"

// ImportResult is the complete outcome of importing one tabular file.
type ImportResult struct {
	Sales    []domain.Sale
	Errors   []domain.ProcessingError
	Warnings []domain.ProcessingError
	Counters domain.LineCounters
}

// TabularImporter reconstructs sale records from delimited tables with a
// fixed header contract. One bad row never aborts the file.
type TabularImporter struct {
	logger          *slog.Logger
	marketMarker    string
	requiredColumns []string
}

// TabularConfig overrides the importer defaults. Zero values keep them.
type TabularConfig struct {
	MarketMarker    string
	RequiredColumns []string
}

// NewTabularImporter creates an importer. A nil logger falls back to
// slog.Default.
func NewTabularImporter(logger *slog.Logger, cfg TabularConfig) *TabularImporter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MarketMarker == "" {
		cfg.MarketMarker = DefaultMarketMarker
	}
	if len(cfg.RequiredColumns) == 0 {
		cfg.RequiredColumns = []string{ColumnDate, ColumnProduct, ColumnQuantity, ColumnTotal}
	}
	return &TabularImporter{
		logger:          logger,
		marketMarker:    cfg.MarketMarker,
		requiredColumns: cfg.RequiredColumns,
	}
}

// Import parses the table and groups its rows into one sale per date. Rows
// whose Local column differs from the market marker are discarded silently;
// malformed rows are discarded and counted, and structural row problems are
// downgraded to warnings so processing always continues.
func (t *TabularImporter) Import(content, sourceFile string) ImportResult {
	result := ImportResult{}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, domain.ProcessingError{
			File:     sourceFile,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("unreadable table: %v", err),
		})
		return result
	}
	rows = dropEmptyRows(rows)

	if len(rows) == 0 {
		result.Errors = append(result.Errors, domain.ProcessingError{
			File:     sourceFile,
			Severity: domain.SeverityError,
			Message:  "empty table",
		})
		return result
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	result.Counters.Total = len(rows) - 1

	var missing []string
	for _, col := range t.requiredColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, domain.ProcessingError{
			File:     sourceFile,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		})
		result.Counters.Discarded = result.Counters.Total
		return result
	}

	builder := newSaleBuilder(domain.SourceTabular, sourceFile, TabularLocation)

	for i, row := range rows[1:] {
		lineNo := i + 2 // 1-based, after the header

		cell := func(column string) string {
			idx, ok := header[column]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		date, err := parseTableDate(cell(ColumnDate))
		if err != nil {
			result.Counters.Discarded++
			continue
		}

		if !strings.EqualFold(cell(ColumnLocation), t.marketMarker) {
			result.Counters.Discarded++
			continue
		}

		product := cell(ColumnProduct)
		quantity, qtyErr := parseTableNumber(cell(ColumnQuantity))
		total, totalErr := parseTableNumber(cell(ColumnTotal))
		if qtyErr != nil || totalErr != nil {
			result.Counters.Discarded++
			result.Warnings = append(result.Warnings, domain.ProcessingError{
				File:          sourceFile,
				Line:          lineNo,
				Severity:      domain.SeverityWarning,
				Message:       "unparseable numeric value",
				Field:         ColumnQuantity,
				OriginalValue: cell(ColumnQuantity) + "/" + cell(ColumnTotal),
			})
			continue
		}
		if product == "" || quantity == 0 {
			result.Counters.Discarded++
			continue
		}

		itemType := cell(ColumnType)
		if itemType == "" {
			itemType = domain.TypeNotFound
		}
		category := cell(ColumnCategory)
		if category == "nan" {
			category = ""
		}

		var unitPrice float64
		if quantity > 0 {
			unitPrice = total / quantity
		}

		item := domain.LineItem{
			ID:         uuid.NewString(),
			Name:       product,
			Type:       itemType,
			Category:   category,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalValue: total,
		}
		builder.add(date, cell(ColumnWeekday), item)

		result.Counters.Parsed++
	}

	result.Sales = builder.finalize()

	if incomplete := countIncomplete(result.Sales); incomplete > 0 {
		result.Warnings = append(result.Warnings, domain.ProcessingError{
			File:     sourceFile,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("%d sale(s) with uncategorized products", incomplete),
		})
	}

	t.logger.Debug("table imported",
		slog.String("file", sourceFile),
		slog.Int("sales", len(result.Sales)),
		slog.Int("rows_parsed", result.Counters.Parsed),
		slog.Int("rows_discarded", result.Counters.Discarded))

	return result
}

// parseTableDate parses a D/M/Y cell. Both two- and four-digit years are
// accepted; two-digit years read as 2000+yy.
func parseTableDate(value string) (time.Time, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected D/M/Y, got %q", value)
	}

	day, dayErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, monthErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, yearErr := strconv.Atoi(strings.TrimSpace(parts[2]))
	if dayErr != nil || monthErr != nil || yearErr != nil {
		return time.Time{}, fmt.Errorf("non-numeric date part in %q", value)
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date out of range: %q", value)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, fmt.Errorf("invalid calendar date: %q", value)
	}
	return date, nil
}

func parseTableNumber(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
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
