package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerParser_SingleProductLine(t *testing.T) {
	p := NewLedgerParser(nil, nil)

	sales := p.Parse("Feira 23/08/25\n90 porta chaves baleia", "feira.txt")
	require.Len(t, sales, 1)

	sale := sales[0]
	assert.Equal(t, time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), sale.Date)
	assert.Equal(t, "FEIRA", sale.Location)
	assert.Equal(t, 90.0, sale.TotalValue)
	assert.Equal(t, "sábado", sale.Weekday)
	assert.False(t, sale.Incomplete)

	require.Len(t, sale.Items, 1)
	item := sale.Items[0]
	assert.Equal(t, "porta chaves baleia", item.Name)
	assert.Equal(t, "Acessório", item.Type)
	assert.Equal(t, "Porta Toalha", item.Category)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, 90.0, item.UnitPrice)
	assert.Equal(t, 90.0, item.TotalValue)
}

func TestLedgerParser_DateFallbackToNow(t *testing.T) {
	p := NewLedgerParser(nil, nil)
	fixed := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	sales := p.Parse("200 caixa ret jag resina", "feira.txt")
	require.Len(t, sales, 1)

	sale := sales[0]
	assert.Equal(t, fixed, sale.Date)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 200.0, sale.Items[0].TotalValue)
	assert.Equal(t, 1.0, sale.Items[0].Quantity)
}

func TestLedgerParser_DateMarkerFormats(t *testing.T) {
	p := NewLedgerParser(nil, nil)

	tests := []struct {
		line string
		want time.Time
	}{
		{"Feira 23/08/25", time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC)},
		{"feira 23.08.25", time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC)},
		{"FEIRA 5/1/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		sales := p.Parse(tt.line+"\n50 brinco sol", "feira.txt")
		require.Len(t, sales, 1, tt.line)
		assert.Equal(t, tt.want, sales[0].Date, tt.line)
	}
}

func TestLedgerParser_MalformedDateFallsThrough(t *testing.T) {
	p := NewLedgerParser(nil, nil)
	p.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }

	// 31/02 does not exist, so the marker is not consumed; the line then fails
	// the product tokenizer and is discarded.
	sales := p.Parse("Feira 31/02/25\n40 pente madeira", "feira.txt")
	require.Len(t, sales, 1)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), sales[0].Date)
}

func TestLedgerParser_SkipsNonProductLines(t *testing.T) {
	p := NewLedgerParser(nil, nil)

	content := "Feira 23/08/25\n" +
		"120\n" + // running total
		"Total 350\n" +
		"Alianças encomenda\n" +
		"- 20\n" +
		"N42\n" +
		"35 rodr\n" + // signature line
		"90 porta chaves baleia\n" +
		"Encomendar mais caixas\n"

	sales := p.Parse(content, "feira.txt")
	require.Len(t, sales, 1)
	require.Len(t, sales[0].Items, 1)
	assert.Equal(t, "porta chaves baleia", sales[0].Items[0].Name)
}

func TestLedgerParser_GroupsByDate(t *testing.T) {
	p := NewLedgerParser(nil, nil)

	content := "Feira 23/08/25\n" +
		"90 porta chaves baleia\n" +
		"60 3 chaveiro tartaruga\n" +
		"Feira 30/08/25\n" +
		"45 brinco lua\n"

	sales := p.Parse(content, "feira.txt")
	require.Len(t, sales, 2)

	assert.Equal(t, 150.0, sales[0].TotalValue)
	assert.Len(t, sales[0].Items, 2)
	assert.Equal(t, 45.0, sales[1].TotalValue)
	assert.Len(t, sales[1].Items, 1)
}

func TestLedgerParser_IncompleteOnCategorizationMiss(t *testing.T) {
	p := NewLedgerParser(nil, nil)

	sales := p.Parse("Feira 23/08/25\n70 objeto misterioso", "feira.txt")
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Incomplete)
	assert.Equal(t, "NOT_FOUND", sales[0].Items[0].Type)
}

// Parsing the same ledger twice must produce identical collections modulo
// generated ids.
func TestLedgerParser_Idempotent(t *testing.T) {
	p := NewLedgerParser(nil, nil)
	content := "Feira 23/08/25\n90 porta chaves baleia\n60 3 chaveiro tartaruga"

	first := p.Parse(content, "feira.txt")
	second := p.Parse(content, "feira.txt")
	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].Date, second[i].Date)
		assert.Equal(t, first[i].TotalValue, second[i].TotalValue)
		assert.Equal(t, first[i].Weekday, second[i].Weekday)
		require.Equal(t, len(first[i].Items), len(second[i].Items))
		for j := range first[i].Items {
			a, b := first[i].Items[j], second[i].Items[j]
			a.ID, b.ID = "", ""
			assert.Equal(t, a, b)
		}
	}
}

// Revenue conservation: every sale total equals the sum of its item totals.
func TestLedgerParser_RevenueConservation(t *testing.T) {
	p := NewLedgerParser(nil, nil)
	content := "Feira 23/08/25\n90 porta chaves baleia\n60 3 chaveiro tartaruga\n" +
		"Feira 30/08/25\n45 brinco lua\n200 caixa ret jag resina"

	for _, sale := range p.Parse(content, "feira.txt") {
		var sum float64
		for _, item := range sale.Items {
			sum += item.TotalValue
		}
		assert.InDelta(t, sale.TotalValue, sum, 1e-9)
	}
}
