package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"feiralens/pkg/contracts/domain"
)

const (
	salesSheet      = "Vendas"
	itemsSheet      = "Produtos"
	categoriesSheet = "Tipos"
)

// XLSXWriter exports a workbook with the sale collection and the analytics
// rollups on separate sheets.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new Excel writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// ExportWorkbook writes sales plus product and type rollups to one .xlsx file.
func (w *XLSXWriter) ExportWorkbook(
	path string,
	sales []domain.Sale,
	items []domain.ItemRollup,
	categories []domain.CategoryRollup,
) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, salesSheet, SalesHeaders, SalesRecords(sales)); err != nil {
		return err
	}
	if err := writeSheet(f, itemsSheet, ItemHeaders, ItemRecords(items)); err != nil {
		return err
	}
	if err := writeSheet(f, categoriesSheet, CategoryHeaders, CategoryRecords(categories)); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("workbook exported",
		slog.String("path", path),
		slog.Int("sales", len(sales)),
		slog.Int("items", len(items)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	writeRow := func(rowIdx int, values []string) error {
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return fmt.Errorf("failed to resolve cell on sheet %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s on sheet %s: %w", cell, sheet, err)
			}
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return err
	}
	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return err
		}
	}
	return nil
}
