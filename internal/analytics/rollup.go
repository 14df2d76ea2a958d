package analytics

import (
	"sort"

	"feiralens/pkg/contracts/domain"
)

// ItemRollup groups line items by name across the filtered sales, summing
// quantity and revenue, counting occurrences, and averaging the observed unit
// prices as an unweighted mean. Sorted by revenue descending.
func (s *Service) ItemRollup() []domain.ItemRollup {
	type accumulator struct {
		category  string
		quantity  float64
		revenue   float64
		prices    []float64
		frequency int
	}

	order := []string{}
	groups := make(map[string]*accumulator)

	for _, sale := range s.FilteredSales() {
		for _, item := range sale.Items {
			acc, ok := groups[item.Name]
			if !ok {
				category := item.Type
				if category == "" {
					category = item.Category
				}
				acc = &accumulator{category: category}
				groups[item.Name] = acc
				order = append(order, item.Name)
			}
			acc.quantity += item.Quantity
			acc.revenue += item.TotalValue
			acc.frequency++
			if item.UnitPrice != 0 {
				acc.prices = append(acc.prices, item.UnitPrice)
			}
		}
	}

	var grandTotal float64
	for _, acc := range groups {
		grandTotal += acc.revenue
	}

	out := make([]domain.ItemRollup, 0, len(groups))
	for _, name := range order {
		acc := groups[name]
		out = append(out, domain.ItemRollup{
			Name:         name,
			Category:     acc.category,
			Quantity:     acc.quantity,
			Revenue:      acc.revenue,
			Share:        share(acc.revenue, grandTotal),
			AveragePrice: mean(acc.prices),
			Frequency:    acc.frequency,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

// TopCategories builds the two-level rollup: line items grouped first by type
// (falling back to NoCategoryLabel), then by category within each type.
// Shares at both levels are percentages of the grand total. Truncated to the
// top limit by revenue descending; ties keep first-seen order.
func (s *Service) TopCategories(limit int) []domain.CategoryRollup {
	type subAccumulator struct {
		revenue  float64
		quantity float64
	}
	type accumulator struct {
		revenue  float64
		quantity float64
		subOrder []string
		subs     map[string]*subAccumulator
	}

	order := []string{}
	groups := make(map[string]*accumulator)

	for _, sale := range s.FilteredSales() {
		for _, item := range sale.Items {
			typeName := item.Type
			if typeName == "" {
				typeName = NoCategoryLabel
			}

			acc, ok := groups[typeName]
			if !ok {
				acc = &accumulator{subs: make(map[string]*subAccumulator)}
				groups[typeName] = acc
				order = append(order, typeName)
			}
			acc.revenue += item.TotalValue
			acc.quantity += item.Quantity

			if item.Category == "" {
				continue
			}
			sub, ok := acc.subs[item.Category]
			if !ok {
				sub = &subAccumulator{}
				acc.subs[item.Category] = sub
				acc.subOrder = append(acc.subOrder, item.Category)
			}
			sub.revenue += item.TotalValue
			sub.quantity += item.Quantity
		}
	}

	var grandTotal float64
	for _, acc := range groups {
		grandTotal += acc.revenue
	}

	out := make([]domain.CategoryRollup, 0, len(groups))
	for _, typeName := range order {
		acc := groups[typeName]

		subs := make([]domain.SubcategoryRollup, 0, len(acc.subs))
		for _, subName := range acc.subOrder {
			sub := acc.subs[subName]
			var avg float64
			if sub.quantity > 0 {
				avg = sub.revenue / sub.quantity
			}
			subs = append(subs, domain.SubcategoryRollup{
				Name:         subName,
				Category:     typeName,
				Revenue:      sub.revenue,
				Quantity:     sub.quantity,
				Share:        share(sub.revenue, grandTotal),
				AveragePrice: avg,
			})
		}

		out = append(out, domain.CategoryRollup{
			Name:          typeName,
			Subcategories: subs,
			Revenue:       acc.revenue,
			Quantity:      acc.quantity,
			Share:         share(acc.revenue, grandTotal),
			Items:         len(acc.subs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TopSubcategories flattens the (type, category) pairs across filtered sales
// into a single ranking by revenue descending, skipping items missing either
// level. Shares are percentages of the pair-level grand total.
func (s *Service) TopSubcategories(limit int) []domain.SubcategoryRollup {
	type accumulator struct {
		typeName  string
		name      string
		revenue   float64
		quantity  float64
		frequency int
	}

	order := []string{}
	groups := make(map[string]*accumulator)

	for _, sale := range s.FilteredSales() {
		for _, item := range sale.Items {
			if item.Type == "" || item.Category == "" {
				continue
			}
			key := item.Type + "::" + item.Category
			acc, ok := groups[key]
			if !ok {
				acc = &accumulator{typeName: item.Type, name: item.Category}
				groups[key] = acc
				order = append(order, key)
			}
			acc.revenue += item.TotalValue
			acc.quantity += item.Quantity
			acc.frequency++
		}
	}

	var grandTotal float64
	for _, acc := range groups {
		grandTotal += acc.revenue
	}

	out := make([]domain.SubcategoryRollup, 0, len(groups))
	for _, key := range order {
		acc := groups[key]
		var avg float64
		if acc.quantity > 0 {
			avg = acc.revenue / acc.quantity
		}
		out = append(out, domain.SubcategoryRollup{
			Name:         acc.name,
			Category:     acc.typeName,
			Revenue:      acc.revenue,
			Quantity:     acc.quantity,
			Share:        share(acc.revenue, grandTotal),
			AveragePrice: avg,
			Frequency:    acc.frequency,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
