package domain

import (
	"time"
)

// TimeWindowKind selects how a time window constrains the sale collection.
type TimeWindowKind string

const (
	WindowAll    TimeWindowKind = "all"
	WindowCustom TimeWindowKind = "custom"
)

// TimeWindow bounds an analysis to an inclusive date range. Zero start or end
// leaves that side unbounded.
type TimeWindow struct {
	Kind  TimeWindowKind `json:"kind" validate:"omitempty,oneof=all custom"`
	Start time.Time      `json:"start,omitempty"`
	End   time.Time      `json:"end,omitempty"`
}

// AnalysisFilter is a pure value object re-evaluated against the sale
// collection on every analytics query. Absent dimensions impose no
// constraint; present dimensions are AND-combined.
type AnalysisFilter struct {
	Window         *TimeWindow `json:"window,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
	Subcategories  []string    `json:"subcategories,omitempty"`
	Items          []string    `json:"items,omitempty"`
	PaymentMethods []string    `json:"payment_methods,omitempty"`
	FreeTextQuery  string      `json:"free_text_query,omitempty"`
}

// KPIFormat tells the presentation layer how to render a KPI value.
type KPIFormat string

const (
	FormatCurrency KPIFormat = "currency"
	FormatNumber   KPIFormat = "number"
)

// KPI is one headline metric over the filtered sale collection.
type KPI struct {
	Label  string    `json:"label"`
	Value  float64   `json:"value"`
	Format KPIFormat `json:"format"`
}

// ItemRollup aggregates one product name across the filtered sales.
// AveragePrice is the unweighted mean of observed unit prices.
type ItemRollup struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	Share        float64 `json:"share"`
	AveragePrice float64 `json:"average_price"`
	Frequency    int     `json:"frequency"`
}

// SubcategoryRollup aggregates one (type, category) pair.
type SubcategoryRollup struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Revenue      float64 `json:"revenue"`
	Quantity     float64 `json:"quantity"`
	Share        float64 `json:"share"`
	AveragePrice float64 `json:"average_price"`
	Frequency    int     `json:"frequency"`
}

// CategoryRollup aggregates one product type, with its subcategories nested.
type CategoryRollup struct {
	Name          string              `json:"name"`
	Subcategories []SubcategoryRollup `json:"subcategories"`
	Revenue       float64             `json:"revenue"`
	Quantity      float64             `json:"quantity"`
	Share         float64             `json:"share"`
	Items         int                 `json:"items"`
}

// TrendGrouping selects the bucket size of a time-series query.
type TrendGrouping string

const (
	TrendWeekly  TrendGrouping = "week"
	TrendMonthly TrendGrouping = "month"
)

// TrendBucket is one time bucket of the revenue evolution series.
type TrendBucket struct {
	Period       string    `json:"period"`
	Date         time.Time `json:"date"`
	Revenue      float64   `json:"revenue"`
	Quantity     float64   `json:"quantity"`
	AveragePer   float64   `json:"average_per_date"`
	DistinctDays int       `json:"distinct_days"`
}

// DailyPoint is one calendar date of the per-date evolution series.
type DailyPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Quantity float64 `json:"quantity"`
}

// InsightKind classifies an insight record.
type InsightKind string

const (
	InsightOpportunity InsightKind = "opportunity"
	InsightAlert       InsightKind = "alert"
	InsightInfo        InsightKind = "info"
)

// InsightPriority ranks an insight for presentation.
type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Insight is one rule-based finding over the filtered sale collection.
// Order reflects a fixed priority sequence, not insight magnitude.
type Insight struct {
	Kind        InsightKind     `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metric      string          `json:"metric"`
	Value       float64         `json:"value"`
	Explanation string          `json:"explanation"`
	Priority    InsightPriority `json:"priority"`
}
