package domain

import (
	"time"
)

// SourceFormat identifies the input format a sale was reconstructed from.
type SourceFormat string

const (
	SourceFreeText    SourceFormat = "free-text"
	SourceTabular     SourceFormat = "tabular"
	SourceSpreadsheet SourceFormat = "spreadsheet"
)

// TypeNotFound is the sentinel product type assigned when no categorization
// rule matches a line item description.
const TypeNotFound = "NOT_FOUND"

// LineItem represents one product sold within a Sale. Items are created during
// parsing and never mutated after their parent sale is finalized.
type LineItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name" validate:"required"`
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	Characteristic string  `json:"characteristic,omitempty"`
	Material1      string  `json:"material_1,omitempty"`
	Material2      string  `json:"material_2,omitempty"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	UnitPrice      float64 `json:"unit_price,omitempty"`
	TotalValue     float64 `json:"total_value" validate:"gte=0"`
}

// Uncategorized reports whether the item failed type classification.
func (i LineItem) Uncategorized() bool {
	return i.Type == "" || i.Type == TypeNotFound
}

// PaymentMethod enumerates how a sale (or part of it) was paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "dinheiro"
	PaymentPix   PaymentMethod = "pix"
	PaymentCard  PaymentMethod = "cartao"
	PaymentOther PaymentMethod = "outro"
)

// Payment records a partial payment against a sale. Parsers never populate
// payments; they only enter through manual edits on stored analyses.
type Payment struct {
	Method PaymentMethod `json:"method"`
	Value  float64       `json:"value"`
}

// Sale groups all line items recorded for one fair date.
// Invariant: TotalValue equals the sum of the item totals, and Incomplete is
// true iff at least one item failed categorization.
type Sale struct {
	ID         string       `json:"id"`
	Date       time.Time    `json:"date"`
	Weekday    string       `json:"weekday"`
	Location   string       `json:"location"`
	ISOWeek    int          `json:"iso_week"`
	Year       int          `json:"year"`
	Items      []LineItem   `json:"items"`
	TotalValue float64      `json:"total_value"`
	Notes      string       `json:"notes,omitempty"`
	Payments   []Payment    `json:"payments,omitempty"`
	Incomplete bool         `json:"incomplete"`
	Source     SourceFormat `json:"source_format"`
	SourceFile string       `json:"source_file"`
}

// DateKey returns the sale date as an ISO calendar date string. Deduplication
// and distinct-date KPIs key on this value.
func (s Sale) DateKey() string {
	return s.Date.Format("2006-01-02")
}

// ItemQuantity returns the summed quantity across all items of the sale.
func (s Sale) ItemQuantity() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// portugueseWeekdays maps time.Weekday (Sunday = 0) to its Portuguese label.
var portugueseWeekdays = [7]string{
	"domingo", "segunda", "terça", "quarta", "quinta", "sexta", "sábado",
}

// WeekdayPT returns the Portuguese weekday name for a date.
func WeekdayPT(date time.Time) string {
	return portugueseWeekdays[int(date.Weekday())]
}
