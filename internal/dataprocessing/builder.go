package dataprocessing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"feiralens/pkg/contracts/domain"
)

// saleBuilder accumulates line items into per-date sales while a file is being
// consumed. Partially built sales are never exposed; Finalize returns the
// immutable collection once the source is exhausted.
type saleBuilder struct {
	source     domain.SourceFormat
	sourceFile string
	location   string
	keys       []string
	sales      map[string]*domain.Sale
}

func newSaleBuilder(source domain.SourceFormat, sourceFile, location string) *saleBuilder {
	return &saleBuilder{
		source:     source,
		sourceFile: sourceFile,
		location:   location,
		sales:      make(map[string]*domain.Sale),
	}
}

// add merges an item into the sale for the given date, creating the sale on
// first hit for that date. Grouping key is exact date equality.
func (b *saleBuilder) add(date time.Time, weekday string, item domain.LineItem) {
	key := date.Format(time.RFC3339)
	sale, ok := b.sales[key]
	if !ok {
		_, week := date.ISOWeek()
		if weekday == "" {
			weekday = domain.WeekdayPT(date)
		}
		sale = &domain.Sale{
			ID:         uuid.NewString(),
			Date:       date,
			Weekday:    weekday,
			Location:   b.location,
			ISOWeek:    week,
			Year:       date.Year(),
			Source:     b.source,
			SourceFile: b.sourceFile,
		}
		b.sales[key] = sale
		b.keys = append(b.keys, key)
	}

	sale.Items = append(sale.Items, item)
	sale.TotalValue += item.TotalValue
	if item.Uncategorized() {
		sale.Incomplete = true
	}
}

// Finalize returns the accumulated sales ordered by date.
func (b *saleBuilder) finalize() []domain.Sale {
	out := make([]domain.Sale, 0, len(b.sales))
	for _, key := range b.keys {
		out = append(out, *b.sales[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
