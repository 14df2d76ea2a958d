package exporter

import (
	"strconv"

	"feiralens/pkg/contracts/domain"
)

// SalesHeaders is the flattened per-item column set used by every sales
// export, matching the layout the spreadsheets came in with.
var SalesHeaders = []string{
	"Data", "Dia", "Local", "Produto", "Qnt", "Valor Uni.", "Total",
	"Tipo", "Categoria", "Caracteristica", "Material 1", "Material 2",
}

// ItemHeaders is the column set of the per-product rollup export.
var ItemHeaders = []string{
	"Produto", "Categoria", "Qnt", "Receita", "Participacao %", "Preco Medio", "Frequencia",
}

// CategoryHeaders is the column set of the per-type rollup export.
var CategoryHeaders = []string{
	"Tipo", "Receita", "Qnt", "Participacao %", "Produtos",
}

// SalesRecords flattens sales into one record per line item.
func SalesRecords(sales []domain.Sale) [][]string {
	var records [][]string
	for _, sale := range sales {
		date := sale.Date.Format("02/01/2006")
		for _, item := range sale.Items {
			records = append(records, []string{
				date,
				sale.Weekday,
				sale.Location,
				item.Name,
				formatQuantity(item.Quantity),
				formatMoney(item.UnitPrice),
				formatMoney(item.TotalValue),
				item.Type,
				item.Category,
				item.Characteristic,
				item.Material1,
				item.Material2,
			})
		}
	}
	return records
}

// ItemRecords converts a product rollup into CSV records.
func ItemRecords(rollups []domain.ItemRollup) [][]string {
	records := make([][]string, 0, len(rollups))
	for _, r := range rollups {
		records = append(records, []string{
			r.Name,
			r.Category,
			formatQuantity(r.Quantity),
			formatMoney(r.Revenue),
			formatMoney(r.Share),
			formatMoney(r.AveragePrice),
			strconv.Itoa(r.Frequency),
		})
	}
	return records
}

// CategoryRecords converts a type rollup into CSV records.
func CategoryRecords(rollups []domain.CategoryRollup) [][]string {
	records := make([][]string, 0, len(rollups))
	for _, r := range rollups {
		records = append(records, []string{
			r.Name,
			formatMoney(r.Revenue),
			formatQuantity(r.Quantity),
			formatMoney(r.Share),
			strconv.Itoa(r.Items),
		})
	}
	return records
}

// ExportSalesCSV writes the flattened sale collection tab-separated, the
// layout the historical exports used.
func (w *CSVWriter) ExportSalesCSV(filePath string, sales []domain.Sale) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   SalesHeaders,
		Records:   SalesRecords(sales),
		BOMPrefix: true,
		Delimiter: '\t',
	})
}

// ExportItemsCSV writes a product rollup to a CSV file.
func (w *CSVWriter) ExportItemsCSV(filePath string, rollups []domain.ItemRollup) error {
	return w.WriteSimpleCSV(filePath, ItemHeaders, ItemRecords(rollups))
}

// ExportCategoriesCSV writes a type rollup to a CSV file.
func (w *CSVWriter) ExportCategoriesCSV(filePath string, rollups []domain.CategoryRollup) error {
	return w.WriteSimpleCSV(filePath, CategoryHeaders, CategoryRecords(rollups))
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
