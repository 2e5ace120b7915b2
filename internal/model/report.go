package model

// Period tokens accepted by date-filtered report tables.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ColumnShape classifies a report table by the temporal column it exposes.
// The shape, not the data, decides how the query is built.
type ColumnShape int

const (
	// ShapeNeither means the table has no date or period column and is
	// served with a fixed per-table ordering instead of a time filter.
	ShapeNeither ColumnShape = iota
	// ShapeDate means the table has a `date` column filtered by calendar
	// day / ISO week / calendar month.
	ShapeDate
	// ShapePeriod means the table stores precomputed rows keyed by a
	// `period` label column.
	ShapePeriod
)

func (s ColumnShape) String() string {
	switch s {
	case ShapeDate:
		return "date"
	case ShapePeriod:
		return "period"
	default:
		return "neither"
	}
}

// QueryPlan is the resolved filter for one report request: a WHERE fragment
// with bound args plus ordering and an optional row cap. Where and OrderBy
// are drawn from a fixed set of fragments; client input only ever appears
// in Args.
type QueryPlan struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int // 0 means no limit
}

// AggregateRow is one result record from a report query. Column sets vary
// per table; the dashboard knows which fields it expects.
type AggregateRow map[string]any

// RideSummary is the aggregate served for the daily_summary2 report.
// Rates are percentages rounded to one decimal, 0 when there were no rides.
type RideSummary struct {
	TotalRides       int64   `json:"total_rides"`
	CompletedRides   int64   `json:"completed_rides"`
	CancelledRides   int64   `json:"cancelled_rides"`
	CompletionRate   float64 `json:"completion_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
}
