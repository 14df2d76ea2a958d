package analytics

import (
	"fmt"

	"feiralens/pkg/contracts/domain"
)

// Fixed insight thresholds. These are contract constants, not configuration.
const (
	championShareThreshold      = 30.0
	concentrationShareThreshold = 50.0
	trendSwingThreshold         = 10.0
	diversificationThreshold    = 70.0
	maxInsights                 = 5
	trendLookback               = 3
)

// Insights emits at most five ranked findings from fixed threshold rules.
// The rules are independent of one another and their order reflects a fixed
// priority sequence, not insight magnitude.
func (s *Service) Insights() []domain.Insight {
	if len(s.FilteredSales()) == 0 {
		return nil
	}

	var insights []domain.Insight

	categories := s.TopCategories(5)
	subcategories := s.TopSubcategories(10)
	daily := s.DailySeries()

	// Champion category above the opportunity threshold.
	if len(categories) > 0 && categories[0].Share > championShareThreshold {
		top := categories[0]
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightOpportunity,
			Title:       fmt.Sprintf("%s is your champion category", top.Name),
			Description: fmt.Sprintf("Represents %.1f%% of total revenue (R$ %.2f)", top.Share, top.Revenue),
			Metric:      "champion_category",
			Value:       top.Share,
			Explanation: "Keep variety and stock levels adequate in this category",
			Priority:    domain.PriorityHigh,
		})
	}

	// Leading subcategory highlight.
	if len(subcategories) > 0 {
		top := subcategories[0]
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightOpportunity,
			Title:       fmt.Sprintf("%s leads the subcategories", top.Name),
			Description: fmt.Sprintf("%.0f units sold, generating R$ %.2f", top.Quantity, top.Revenue),
			Metric:      "top_subcategory",
			Value:       top.Revenue,
			Explanation: "Consider increasing production or creating variations",
			Priority:    domain.PriorityHigh,
		})
	}

	// Concentration risk above half the revenue.
	if len(categories) > 0 && categories[0].Share > concentrationShareThreshold {
		top := categories[0]
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightAlert,
			Title:       "High concentration in one category",
			Description: fmt.Sprintf("%s represents more than half of the revenue", top.Name),
			Metric:      "category_concentration",
			Value:       top.Share,
			Explanation: "Excessive dependence is a risk, diversify the portfolio",
			Priority:    domain.PriorityMedium,
		})
	}

	// Revenue swing over the last trend points.
	if len(daily) >= trendLookback {
		window := daily[len(daily)-trendLookback:]
		first := window[0].Revenue
		last := window[len(window)-1].Revenue
		if first > 0 {
			growth := (last - first) / first * 100
			if growth > trendSwingThreshold {
				insights = append(insights, domain.Insight{
					Kind:        domain.InsightOpportunity,
					Title:       "Sales are growing",
					Description: fmt.Sprintf("Growth of %.1f%% over the last %d fairs", growth, len(window)),
					Metric:      "growth",
					Value:       growth,
					Explanation: "Positive trend, keep the production pace",
					Priority:    domain.PriorityHigh,
				})
			} else if growth < -trendSwingThreshold {
				insights = append(insights, domain.Insight{
					Kind:        domain.InsightAlert,
					Title:       "Sales are falling",
					Description: fmt.Sprintf("Drop of %.1f%% over the last %d fairs", -growth, len(window)),
					Metric:      "decline",
					Value:       growth,
					Explanation: "Review product strategy and pricing",
					Priority:    domain.PriorityHigh,
				})
			}
		}
	}

	// Diversification note when the top three hold less than the threshold.
	if len(categories) >= 3 {
		var top3 float64
		for _, category := range categories[:3] {
			top3 += category.Share
		}
		if top3 < diversificationThreshold {
			insights = append(insights, domain.Insight{
				Kind:        domain.InsightOpportunity,
				Title:       "Well diversified portfolio",
				Description: fmt.Sprintf("Top 3 categories represent %.1f%% of the revenue", top3),
				Metric:      "diversification",
				Value:       top3,
				Explanation: "Good distribution reduces market risk",
				Priority:    domain.PriorityLow,
			})
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}
