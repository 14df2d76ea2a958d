package categorization

// Rule maps a lowercase substring pattern to a taxonomy label. Rules are
// evaluated in slice order and the first match wins, so more specific
// patterns must be listed ahead of generic ones.
type Rule struct {
	Pattern string
	Label   string
}

// typeRules is the canonical ordered type table. Ordering is part of the
// contract: a description matching several patterns resolves to the first.
var typeRules = []Rule{
	{"tabua", "Tábua"},
	{"kur", "Kuripe"},
	{"cuia gamela", "Cuia Gamela"},
	{"k ipe", "Kuripe"},
	{"tepi", "Kuripe"},
	{"chav", "Acessório"},
	{"ima", "Acessório"},
	{"ping", "Acessório"},
	{"brinc", "Acessório"},
	{"anel", "Acessório"},
	{"colar", "Acessório"},
	{"apoio cel", "Acessório"},
	{"suporte celular", "Acessório"},
	{"impres", "Encomenda"},
	{"caix", "Caixa"},
	{"pet", "PET"},
	{"ecowhe", "ecowheels"},
	{"abridor", "Abridor"},
	{"laser", "Laiser"},
	{"pindura", "Pindura Chaveiro"},
	{"pente", "Pente"},
	{"potinho", "Potinho"},
	{"palito", "Palito Cabelo"},
	{"plac", "Placa"},
	{"lumina", "Luminárias"},
	{"luminá", "Luminárias"},
	{"escult", "Escultura"},
	{"passaro", "Escultura"},
	{"qc", "Brinquedo"},
	{"carri", "Brinquedo"},
	{"carro", "Brinquedo"},
	{"caminh", "Brinquedo"},
	{"encome", "Encomenda"},
	{"porta", "Acessório"},
	{"rapé", "Rapé"},
	{"incens", "Incensário"},
	{"kuripe", "Kuripe"},
	{"amulet", "Acessório"},
	{"frame", "Quadro"},
	{"box", "Caixa"},
	{"rolling", "Bandeja Rolling"},
	{"ufo", "Disco Voador"},
}

// categoryRules is the canonical ordered category (subcategory) table.
// "porta" precedes "chav" so that porta-toalha and porta-chaves items land in
// the Porta Toalha category rather than the generic keyring bucket.
var categoryRules = []Rule{
	{"porta", "Porta Toalha"},
	{"chav", "Chaveiro"},
	{"ping", "Pingente"},
	{"colar", "Pingente"},
	{"brinc", "Brinco"},
	{"anel", "Anel"},
	{"apoio cel", "Suporte"},
	{"suporte celular", "Suporte"},
	{"carri", "Carrinho"},
	{"carro", "Carrinho"},
	{"caminh", "Carrinho"},
	{"qc", "Quebra-cabeça"},
	{"amulet", "Pingente"},
}

// TypeRules returns a copy of the canonical type table.
func TypeRules() []Rule {
	out := make([]Rule, len(typeRules))
	copy(out, typeRules)
	return out
}

// CategoryRules returns a copy of the canonical category table.
func CategoryRules() []Rule {
	out := make([]Rule, len(categoryRules))
	copy(out, categoryRules)
	return out
}
