package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/barani-1502/Management-reports/internal/model"
)

type fakeStorage struct {
	shape      model.ColumnShape
	shapeErr   error
	rows       []model.AggregateRow
	rowsErr    error
	summary    model.RideSummary
	summaryErr error

	introspectCalls int
	queryCalls      int
	summaryCalls    int

	lastTable string
	lastPlan  model.QueryPlan
	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeStorage) IntrospectColumns(ctx context.Context, table string) (model.ColumnShape, error) {
	f.introspectCalls++
	f.lastTable = table
	return f.shape, f.shapeErr
}

func (f *fakeStorage) QueryRows(ctx context.Context, table string, plan model.QueryPlan) ([]model.AggregateRow, error) {
	f.queryCalls++
	f.lastTable = table
	f.lastPlan = plan
	return f.rows, f.rowsErr
}

func (f *fakeStorage) QueryRideSummary(ctx context.Context, start, end time.Time) (model.RideSummary, error) {
	f.summaryCalls++
	f.lastStart = start
	f.lastEnd = end
	return f.summary, f.summaryErr
}

func TestResolvePlanDateShape(t *testing.T) {
	tests := []struct {
		period    string
		wantWhere string
		wantErr   error
	}{
		{"today", "`date` = CURDATE()", nil},
		{"week", "YEARWEEK(`date`, 1) = YEARWEEK(CURDATE(), 1)", nil},
		{"month", "MONTH(`date`) = MONTH(CURDATE()) AND YEAR(`date`) = YEAR(CURDATE())", nil},
		{"year", "", model.ErrInvalidPeriod},
		{"bogus", "", model.ErrInvalidPeriod},
		{"", "", model.ErrInvalidPeriod},
		{"Today", "", model.ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			plan, err := ResolvePlan(model.ShapeDate, tt.period, "daily_summary")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolvePlan() error = %v, want %v", err, tt.wantErr)
			}
			if plan.Where != tt.wantWhere {
				t.Errorf("Where = %q, want %q", plan.Where, tt.wantWhere)
			}
			if len(plan.Args) != 0 {
				t.Errorf("date predicates must not carry args, got %v", plan.Args)
			}
		})
	}
}

func TestResolvePlanDateShapeIsDeterministic(t *testing.T) {
	// Two resolutions in the same instant must produce identical plans;
	// the week predicate is the same SQL for any two days of one ISO week
	// because the comparison happens inside the database.
	first, err := ResolvePlan(model.ShapeDate, "week", "daily_summary")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ResolvePlan(model.ShapeDate, "week", "daily_summary")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests resolved differently: %+v vs %+v", first, second)
	}
}

func TestResolvePlanPeriodShapePassesTokenThrough(t *testing.T) {
	// Period-column tables accept any label, but only ever as a bound arg.
	for _, period := range []string{"today", "Q1-2025", "bogus", "'; DROP TABLE financials; --"} {
		plan, err := ResolvePlan(model.ShapePeriod, period, "financials")
		if err != nil {
			t.Fatalf("ResolvePlan(%q) error = %v", period, err)
		}
		if plan.Where != "`period` = ?" {
			t.Errorf("Where = %q, want `period` = ?", plan.Where)
		}
		if len(plan.Args) != 1 || plan.Args[0] != period {
			t.Errorf("Args = %v, want [%q]", plan.Args, period)
		}
	}
}

func TestResolvePlanNeitherShapeIgnoresPeriod(t *testing.T) {
	tests := []struct {
		table     string
		wantOrder string
		wantLimit int
	}{
		{"driver_performance", "rides_completed DESC", 5},
		{"payment_summary", "amount DESC", 0},
		{"driver_incentives", "incentive_amount DESC", 10},
		{"city_report", "", 100},
		{"customer_metrics", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			// Any token, including malformed ones, must yield the same plan.
			var base model.QueryPlan
			for i, period := range []string{"today", "bogus", "", "month"} {
				plan, err := ResolvePlan(model.ShapeNeither, period, tt.table)
				if err != nil {
					t.Fatalf("ResolvePlan(%q) error = %v", period, err)
				}
				if i == 0 {
					base = plan
				} else if !reflect.DeepEqual(plan, base) {
					t.Fatalf("period %q produced a different plan: %+v vs %+v", period, plan, base)
				}
			}
			if base.OrderBy != tt.wantOrder {
				t.Errorf("OrderBy = %q, want %q", base.OrderBy, tt.wantOrder)
			}
			if base.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", base.Limit, tt.wantLimit)
			}
			if base.Where != "" {
				t.Errorf("Where = %q, want empty", base.Where)
			}
		})
	}
}

func TestFetchReportRejectsUnknownTableBeforeStorage(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewReportService(storage)

	_, err := svc.FetchReport(context.Background(), "not_a_table", "today")
	if !errors.Is(err, model.ErrInvalidTable) {
		t.Fatalf("error = %v, want ErrInvalidTable", err)
	}
	if storage.introspectCalls != 0 || storage.queryCalls != 0 {
		t.Errorf("storage touched for invalid table: introspect=%d query=%d",
			storage.introspectCalls, storage.queryCalls)
	}
}

func TestFetchReportInvalidPeriodSkipsDataQuery(t *testing.T) {
	storage := &fakeStorage{shape: model.ShapeDate}
	svc := NewReportService(storage)

	_, err := svc.FetchReport(context.Background(), "daily_summary", "fortnight")
	if !errors.Is(err, model.ErrInvalidPeriod) {
		t.Fatalf("error = %v, want ErrInvalidPeriod", err)
	}
	if storage.queryCalls != 0 {
		t.Errorf("data query issued after invalid period: %d calls", storage.queryCalls)
	}
}

func TestFetchReportPipeline(t *testing.T) {
	storage := &fakeStorage{
		shape: model.ShapeNeither,
		rows: []model.AggregateRow{
			{"driver_name": "A", "rides_completed": int64(42)},
		},
	}
	svc := NewReportService(storage)

	rows, err := svc.FetchReport(context.Background(), "driver_performance", "bogus")
	if err != nil {
		t.Fatal(err)
	}
	if storage.introspectCalls != 1 || storage.queryCalls != 1 {
		t.Errorf("round trips: introspect=%d query=%d, want 1 and 1",
			storage.introspectCalls, storage.queryCalls)
	}
	if storage.lastPlan.OrderBy != "rides_completed DESC" || storage.lastPlan.Limit != 5 {
		t.Errorf("plan = %+v, want driver_performance fallback", storage.lastPlan)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestFetchReportNilRowsBecomeEmptySlice(t *testing.T) {
	storage := &fakeStorage{shape: model.ShapeDate}
	svc := NewReportService(storage)

	rows, err := svc.FetchReport(context.Background(), "daily_summary", "today")
	if err != nil {
		t.Fatal(err)
	}
	if rows == nil {
		t.Error("rows = nil, want empty slice so the response encodes as []")
	}
}

func TestFetchReportPropagatesStorageErrors(t *testing.T) {
	wantErr := model.NewStorageUnavailable(errors.New("catalog down"))
	storage := &fakeStorage{shapeErr: wantErr}
	svc := NewReportService(storage)

	_, err := svc.FetchReport(context.Background(), "daily_summary", "today")
	var storageErr *model.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %v, want *StorageError", err)
	}
	if storageErr.Stage != model.StageIntrospect {
		t.Errorf("stage = %s, want introspect", storageErr.Stage)
	}
}

func TestRideSummaryWindow(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		period    string
		wantStart time.Time
		wantErr   bool
	}{
		{"today", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false},
		{"week", time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC), false},
		{"month", time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), false},
		{"quarter", time.Time{}, true},
		{"", time.Time{}, true},
	}

	wantEnd := time.Date(2025, time.March, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start, end, err := RideSummaryWindow(now, tt.period)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidPeriod) {
					t.Fatalf("error = %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(wantEnd) {
				t.Errorf("end = %v, want %v", end, wantEnd)
			}
		})
	}
}

func TestRideSummaryWindowMonthEdge(t *testing.T) {
	// AddDate normalizes: one month before March 31 lands in early March,
	// never on an invalid February date.
	now := time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC)
	start, _, err := RideSummaryWindow(now, "month")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestFetchRideSummary(t *testing.T) {
	storage := &fakeStorage{
		summary: model.RideSummary{
			TotalRides:       100,
			CompletedRides:   80,
			CancelledRides:   20,
			CompletionRate:   80.0,
			CancellationRate: 20.0,
		},
	}
	svc := NewReportService(storage)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	}

	got, err := svc.FetchRideSummary(context.Background(), "week")
	if err != nil {
		t.Fatal(err)
	}
	if got != storage.summary {
		t.Errorf("summary = %+v, want %+v", got, storage.summary)
	}
	wantStart := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	if !storage.lastStart.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", storage.lastStart, wantStart)
	}
}

func TestFetchRideSummaryInvalidPeriodSkipsStorage(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewReportService(storage)

	_, err := svc.FetchRideSummary(context.Background(), "decade")
	if !errors.Is(err, model.ErrInvalidPeriod) {
		t.Fatalf("error = %v, want ErrInvalidPeriod", err)
	}
	if storage.summaryCalls != 0 {
		t.Errorf("storage called %d times for invalid period", storage.summaryCalls)
	}
}

func TestFetchRideSummaryEmptyWindowIsAllZero(t *testing.T) {
	// Repo returns the zero aggregate for an empty window; the service
	// must hand it through as a success, never as an error.
	storage := &fakeStorage{}
	svc := NewReportService(storage)

	got, err := svc.FetchRideSummary(context.Background(), "today")
	if err != nil {
		t.Fatal(err)
	}
	if got != (model.RideSummary{}) {
		t.Errorf("summary = %+v, want zero aggregate", got)
	}
}
