package service

import (
	"context"
	"time"

	"github.com/barani-1502/Management-reports/internal/model"
)

// Storage is the slice of the repository the report pipeline needs.
type Storage interface {
	IntrospectColumns(ctx context.Context, table string) (model.ColumnShape, error)
	QueryRows(ctx context.Context, table string, plan model.QueryPlan) ([]model.AggregateRow, error)
	QueryRideSummary(ctx context.Context, start, end time.Time) (model.RideSummary, error)
}

// ReportService resolves (table, period) requests into aggregate rows.
// It holds no mutable state; concurrent requests share only the storage
// pool underneath.
type ReportService struct {
	storage Storage
	now     func() time.Time
}

// NewReportService creates the service.
func NewReportService(storage Storage) *ReportService {
	return &ReportService{storage: storage, now: time.Now}
}

// FetchReport runs the generic pipeline: allow-list gate, schema
// introspection, period resolution, one data query. The allow-list check
// comes first so an unknown table name never reaches storage.
func (s *ReportService) FetchReport(ctx context.Context, table, period string) ([]model.AggregateRow, error) {
	if !model.IsValidTable(table) {
		return nil, model.ErrInvalidTable
	}

	shape, err := s.storage.IntrospectColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	plan, err := ResolvePlan(shape, period, table)
	if err != nil {
		return nil, err
	}

	rows, err := s.storage.QueryRows(ctx, table, plan)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.AggregateRow{}
	}
	return rows, nil
}

// ResolvePlan turns the introspected column shape and the period token into
// a concrete filter.
//
// Date-filtered tables are calendar-aligned: today is the current calendar
// date, week the current ISO Monday-start week, month the current calendar
// month. Period-column tables match the token verbatim as a bound value, so
// custom period labels pass through without reopening injection. Tables
// with neither column ignore the period entirely and get a fixed per-table
// leaderboard ordering.
func ResolvePlan(shape model.ColumnShape, period, table string) (model.QueryPlan, error) {
	switch shape {
	case model.ShapeDate:
		switch period {
		case model.PeriodToday:
			return model.QueryPlan{Where: "`date` = CURDATE()"}, nil
		case model.PeriodWeek:
			return model.QueryPlan{Where: "YEARWEEK(`date`, 1) = YEARWEEK(CURDATE(), 1)"}, nil
		case model.PeriodMonth:
			return model.QueryPlan{Where: "MONTH(`date`) = MONTH(CURDATE()) AND YEAR(`date`) = YEAR(CURDATE())"}, nil
		default:
			return model.QueryPlan{}, model.ErrInvalidPeriod
		}

	case model.ShapePeriod:
		return model.QueryPlan{Where: "`period` = ?", Args: []any{period}}, nil

	default:
		return fallbackPlan(table), nil
	}
}

// fallbackPlan serves tables that are point-in-time leaderboards with no
// temporal dimension.
func fallbackPlan(table string) model.QueryPlan {
	switch table {
	case "driver_performance":
		return model.QueryPlan{OrderBy: "rides_completed DESC", Limit: 5}
	case "payment_summary":
		return model.QueryPlan{OrderBy: "amount DESC"}
	case "driver_incentives":
		return model.QueryPlan{OrderBy: "incentive_amount DESC", Limit: 10}
	default:
		return model.QueryPlan{Limit: 100}
	}
}

// FetchRideSummary runs the specialized daily_summary2 aggregation. The
// response always carries exactly one aggregate; an empty window yields the
// all-zero summary.
func (s *ReportService) FetchRideSummary(ctx context.Context, period string) (model.RideSummary, error) {
	start, end, err := RideSummaryWindow(s.now(), period)
	if err != nil {
		return model.RideSummary{}, err
	}
	return s.storage.QueryRideSummary(ctx, start, end)
}

// RideSummaryWindow computes the rolling aggregation window for the ride
// summary. Unlike the calendar-aligned generic filters, week and month here
// are relative to now (last 7 days, last calendar month). The divergence
// matches the dashboard's historical behavior and is kept on purpose.
func RideSummaryWindow(now time.Time, period string) (start, end time.Time, err error) {
	end = endOfDay(now)
	switch period {
	case model.PeriodToday:
		start = startOfDay(now)
	case model.PeriodWeek:
		start = startOfDay(now.AddDate(0, 0, -7))
	case model.PeriodMonth:
		start = startOfDay(now.AddDate(0, -1, 0))
	default:
		return time.Time{}, time.Time{}, model.ErrInvalidPeriod
	}
	return start, end, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
