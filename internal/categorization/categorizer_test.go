package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feiralens/pkg/contracts/domain"
)

func TestCategorizer_Categorize(t *testing.T) {
	c := New()

	tests := []struct {
		name         string
		description  string
		wantType     string
		wantCategory string
		wantMatched  bool
	}{
		{
			name:         "keyring accessory with towel holder category",
			description:  "porta chaves baleia",
			wantType:     "Acessório",
			wantCategory: "Porta Toalha",
			wantMatched:  true,
		},
		{
			name:         "resin box",
			description:  "caixa ret jag resina",
			wantType:     "Caixa",
			wantCategory: "",
			wantMatched:  true,
		},
		{
			name:         "kuripe",
			description:  "kuripe madeira escura",
			wantType:     "Kuripe",
			wantCategory: "",
			wantMatched:  true,
		},
		{
			name:         "earring",
			description:  "brinco lua",
			wantType:     "Acessório",
			wantCategory: "Brinco",
			wantMatched:  true,
		},
		{
			name:         "toy car",
			description:  "carrinho de madeira",
			wantType:     "Brinquedo",
			wantCategory: "Carrinho",
			wantMatched:  true,
		},
		{
			name:         "unknown product",
			description:  "objeto misterioso",
			wantType:     domain.TypeNotFound,
			wantCategory: "",
			wantMatched:  false,
		},
		{
			name:         "empty description",
			description:  "",
			wantType:     domain.TypeNotFound,
			wantCategory: "",
			wantMatched:  false,
		},
		{
			name:         "uppercase input is lowered",
			description:  "BRINCO SOL",
			wantType:     "Acessório",
			wantCategory: "Brinco",
			wantMatched:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(tt.description)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMatched, got.Matched)
		})
	}
}

// The type table is order-dependent: a description containing both "kur" and
// "impres" must resolve to whichever pattern appears first, which is "kur".
func TestCategorizer_FirstMatchWins(t *testing.T) {
	c := New()

	got := c.Categorize("kur com impressao especial")
	assert.Equal(t, "Kuripe", got.Type)
	assert.True(t, got.Matched)

	// Reversed custom table order flips the outcome.
	reversed := NewWithRules([]Rule{
		{"impres", "Encomenda"},
		{"kur", "Kuripe"},
	}, nil)
	got = reversed.Categorize("kur com impressao especial")
	assert.Equal(t, "Encomenda", got.Type)
}

func TestCategorizer_Deterministic(t *testing.T) {
	c := New()
	first := c.Categorize("chaveiro tartaruga")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Categorize("chaveiro tartaruga"))
	}
}
