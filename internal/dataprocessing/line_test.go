package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     ParsedLine
	}{
		{
			name: "total and description",
			line: "90 porta chaves baleia",
			want: ParsedLine{Total: 90, Quantity: 1, UnitValue: 90, Description: "porta chaves baleia"},
		},
		{
			name: "total with quantity token",
			line: "60 3 chaveiro tartaruga",
			want: ParsedLine{Total: 60, Quantity: 3, UnitValue: 20, Description: "chaveiro tartaruga"},
		},
		{
			name: "decimal total",
			line: "45.5 brinco lua",
			want: ParsedLine{Total: 45.5, Quantity: 1, UnitValue: 45.5, Description: "brinco lua"},
		},
		{
			name: "non-integer second token stays in description",
			line: "200 caixa ret jag resina",
			want: ParsedLine{Total: 200, Quantity: 1, UnitValue: 200, Description: "caixa ret jag resina"},
		},
		{
			name: "unparseable total yields sentinel",
			line: "caixa sem preco",
			want: ParsedLine{Description: "caixa sem preco"},
		},
		{
			name: "zero quantity token is not consumed",
			line: "30 0 chaveiro",
			want: ParsedLine{Total: 30, Quantity: 1, UnitValue: 30, Description: "0 chaveiro"},
		},
		{
			name: "empty line",
			line: "",
			want: ParsedLine{},
		},
		{
			name: "runs of whitespace collapse",
			line: "15   2   ima    geladeira",
			want: ParsedLine{Total: 15, Quantity: 2, UnitValue: 7.5, Description: "ima geladeira"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line))
		})
	}
}
