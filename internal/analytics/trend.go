package analytics

import (
	"fmt"
	"sort"

	"feiralens/pkg/contracts/domain"
)

// Trend groups the filtered sales into ISO-week or calendar-month buckets.
// Each bucket sums revenue and quantity and averages revenue over the
// distinct fair dates it contains. Buckets sort chronologically by the first
// sale date seen in the bucket.
func (s *Service) Trend(grouping domain.TrendGrouping) []domain.TrendBucket {
	type accumulator struct {
		bucket domain.TrendBucket
		dates  map[string]struct{}
	}

	order := []string{}
	groups := make(map[string]*accumulator)

	for _, sale := range s.FilteredSales() {
		var key string
		if grouping == domain.TrendMonthly {
			key = fmt.Sprintf("%d-%02d", sale.Year, int(sale.Date.Month()))
		} else {
			key = fmt.Sprintf("%d-W%02d", sale.Year, sale.ISOWeek)
		}

		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				bucket: domain.TrendBucket{Period: key, Date: sale.Date},
				dates:  make(map[string]struct{}),
			}
			groups[key] = acc
			order = append(order, key)
		}
		acc.bucket.Revenue += sale.TotalValue
		acc.bucket.Quantity += sale.ItemQuantity()
		acc.dates[sale.DateKey()] = struct{}{}
	}

	out := make([]domain.TrendBucket, 0, len(groups))
	for _, key := range order {
		acc := groups[key]
		acc.bucket.DistinctDays = len(acc.dates)
		if acc.bucket.DistinctDays > 0 {
			acc.bucket.AveragePer = acc.bucket.Revenue / float64(acc.bucket.DistinctDays)
		}
		out = append(out, acc.bucket)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// DailySeries rolls the filtered sales up per calendar date, sorted by date.
// The insight rules consume this series as their trend signal.
func (s *Service) DailySeries() []domain.DailyPoint {
	order := []string{}
	groups := make(map[string]*domain.DailyPoint)

	for _, sale := range s.FilteredSales() {
		key := sale.DateKey()
		point, ok := groups[key]
		if !ok {
			point = &domain.DailyPoint{Date: key}
			groups[key] = point
			order = append(order, key)
		}
		point.Revenue += sale.TotalValue
		point.Quantity += sale.ItemQuantity()
	}

	out := make([]domain.DailyPoint, 0, len(groups))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
