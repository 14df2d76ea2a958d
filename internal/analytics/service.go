// Package analytics computes KPIs, rollups, time-bucketed trends and
// rule-based insights over a sale collection. Every query recomputes from the
// filtered view; linear re-scans are the expected cost model at typical
// dataset sizes.
package analytics

import (
	"log/slog"
	"strings"
	"sync"

	"feiralens/pkg/contracts/domain"
)

// NoCategoryLabel is the fallback group for items without a type.
const NoCategoryLabel = "No Category"

// Service holds the current sale collection and analysis filter. It borrows a
// read-only view of the sales and never mutates them.
type Service struct {
	logger *slog.Logger

	mu     sync.RWMutex
	sales  []domain.Sale
	filter domain.AnalysisFilter
}

// NewService creates an analytics service. A nil logger falls back to
// slog.Default.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SetSales replaces the sale collection under analysis.
func (s *Service) SetSales(sales []domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = sales
}

// SetFilter replaces the active analysis filter.
func (s *Service) SetFilter(filter domain.AnalysisFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// Filter returns the active analysis filter.
func (s *Service) Filter() domain.AnalysisFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredSales recomputes the filtered view. A sale passes iff it satisfies
// every present filter dimension; absent dimensions impose no constraint.
// The recomputation is idempotent and side-effect-free.
func (s *Service) FilteredSales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if s.matches(sale) {
			out = append(out, sale)
		}
	}
	return out
}

func (s *Service) matches(sale domain.Sale) bool {
	f := s.filter

	if w := f.Window; w != nil && w.Kind != domain.WindowAll {
		if !w.Start.IsZero() && sale.Date.Before(w.Start) {
			return false
		}
		if !w.End.IsZero() && sale.Date.After(w.End) {
			return false
		}
	}

	if len(f.Categories) > 0 {
		found := false
		for _, item := range sale.Items {
			if containsString(f.Categories, item.Category) || containsString(f.Categories, item.Type) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Subcategories) > 0 {
		found := false
		for _, item := range sale.Items {
			if containsString(f.Subcategories, item.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Items) > 0 {
		found := false
		for _, item := range sale.Items {
			if containsString(f.Items, item.Name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.PaymentMethods) > 0 {
		found := false
		for _, payment := range sale.Payments {
			if containsString(f.PaymentMethods, string(payment.Method)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.FreeTextQuery != "" {
		query := strings.ToLower(f.FreeTextQuery)
		found := false
		for _, item := range sale.Items {
			if strings.Contains(strings.ToLower(item.Name), query) ||
				strings.Contains(strings.ToLower(item.Category), query) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// KPIs computes the headline metrics over the filtered sales: total revenue,
// distinct fair dates, average revenue per fair date, and item quantity.
func (s *Service) KPIs() []domain.KPI {
	sales := s.FilteredSales()

	var revenue, quantity float64
	dates := make(map[string]struct{})
	for _, sale := range sales {
		revenue += sale.TotalValue
		quantity += sale.ItemQuantity()
		dates[sale.DateKey()] = struct{}{}
	}

	fairs := len(dates)
	var averageTicket float64
	if fairs > 0 {
		averageTicket = revenue / float64(fairs)
	}

	return []domain.KPI{
		{Label: "Total Revenue", Value: revenue, Format: domain.FormatCurrency},
		{Label: "Fairs Recorded", Value: float64(fairs), Format: domain.FormatNumber},
		{Label: "Average Ticket per Fair", Value: averageTicket, Format: domain.FormatCurrency},
		{Label: "Items Sold", Value: quantity, Format: domain.FormatNumber},
	}
}

func containsString(set []string, value string) bool {
	for _, entry := range set {
		if entry == value {
			return true
		}
	}
	return false
}
