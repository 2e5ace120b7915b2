package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/barani-1502/Management-reports/internal/model"
)

// ReportRepo runs report queries against one MySQL schema. It owns no
// state beyond the pool handle; every method is a single round trip.
type ReportRepo struct {
	db     *sql.DB
	schema string
}

// NewReportRepo creates a repo bound to the configured schema.
func NewReportRepo(db *sql.DB, schema string) *ReportRepo {
	return &ReportRepo{db: db, schema: schema}
}

// IntrospectColumns checks the metadata catalog for a `date` or `period`
// column on the given table. Both schema and table are bound parameters.
// A `date` column wins when both exist.
func (r *ReportRepo) IntrospectColumns(ctx context.Context, table string) (model.ColumnShape, error) {
	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME IN ('date', 'period')
	`

	rows, err := r.db.QueryContext(ctx, query, r.schema, table)
	if err != nil {
		return model.ShapeNeither, model.NewStorageUnavailable(err)
	}
	defer rows.Close()

	var hasDate, hasPeriod bool
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return model.ShapeNeither, model.NewStorageUnavailable(err)
		}
		switch strings.ToLower(name) {
		case "date":
			hasDate = true
		case "period":
			hasPeriod = true
		}
	}
	if err := rows.Err(); err != nil {
		return model.ShapeNeither, model.NewStorageUnavailable(err)
	}

	switch {
	case hasDate:
		return model.ShapeDate, nil
	case hasPeriod:
		return model.ShapePeriod, nil
	default:
		return model.ShapeNeither, nil
	}
}

// QueryRows executes the resolved plan against the table. The table name
// was validated against the allow-list before any storage call; the plan's
// WHERE/ORDER fragments come from a fixed set and client input only ever
// travels through bound args.
func (r *ReportRepo) QueryRows(ctx context.Context, table string, plan model.QueryPlan) ([]model.AggregateRow, error) {
	rows, err := r.db.QueryContext(ctx, buildRowsQuery(table, plan), plan.Args...)
	if err != nil {
		return nil, model.NewQueryFailed(err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, model.NewQueryFailed(err)
	}
	return result, nil
}

func buildRowsQuery(table string, plan model.QueryPlan) string {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM `")
	sb.WriteString(table)
	sb.WriteString("`")
	if plan.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(plan.Where)
	}
	if plan.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(plan.OrderBy)
	}
	if plan.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", plan.Limit)
	}
	return sb.String()
}

// scanRows materializes a result set into rows keyed by column name.
// Coercion is centralized here so the dashboard never sees NULLs: numeric
// columns scan to 0, everything else to "".
func scanRows(rows *sql.Rows) ([]model.AggregateRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	result := []model.AggregateRow{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(model.AggregateRow, len(columns))
		for i, col := range columns {
			row[col] = coerceValue(values[i], types[i].DatabaseTypeName())
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func coerceValue(v any, dbType string) any {
	switch val := v.(type) {
	case nil:
		switch numericKind(dbType) {
		case kindInt:
			return int64(0)
		case kindFloat:
			return float64(0)
		default:
			return ""
		}
	case []byte:
		// DECIMAL and unsigned wide types come back as bytes even with
		// parseTime enabled.
		s := string(val)
		switch numericKind(dbType) {
		case kindInt:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
			return s
		case kindFloat:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
			return s
		default:
			return s
		}
	case time.Time:
		if dbType == "DATE" {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

type kind int

const (
	kindOther kind = iota
	kindInt
	kindFloat
)

func numericKind(dbType string) kind {
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		return kindInt
	case "DECIMAL", "FLOAT", "DOUBLE":
		return kindFloat
	default:
		return kindOther
	}
}

// QueryRideSummary aggregates the daily_summary2 table over the given
// window. NULLIF guards the rate division when no rides were recorded;
// NULL sums (no matching rows) coerce to the all-zero aggregate, so the
// caller always gets exactly one row's worth of data.
func (r *ReportRepo) QueryRideSummary(ctx context.Context, start, end time.Time) (model.RideSummary, error) {
	query := `
		SELECT
			SUM(total_rides) AS total_rides,
			SUM(completed_rides) AS completed_rides,
			SUM(cancelled_rides) AS cancelled_rides,
			ROUND((SUM(completed_rides) / NULLIF(SUM(total_rides), 0)) * 100, 1) AS completion_rate,
			ROUND((SUM(cancelled_rides) / NULLIF(SUM(total_rides), 0)) * 100, 1) AS cancellation_rate
		FROM daily_summary2
		WHERE date BETWEEN ? AND ?
	`

	var (
		total, completed, cancelled sql.NullInt64
		completionRate, cancelRate  sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, query, start, end).Scan(
		&total, &completed, &cancelled, &completionRate, &cancelRate)
	if err == sql.ErrNoRows {
		return model.RideSummary{}, nil
	}
	if err != nil {
		return model.RideSummary{}, model.NewQueryFailed(err)
	}

	return model.RideSummary{
		TotalRides:       total.Int64,
		CompletedRides:   completed.Int64,
		CancelledRides:   cancelled.Int64,
		CompletionRate:   completionRate.Float64,
		CancellationRate: cancelRate.Float64,
	}, nil
}

// TableExists probes the metadata catalog for the given table.
func (r *ReportRepo) TableExists(ctx context.Context, table string) (bool, error) {
	query := `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
	`

	var name string
	err := r.db.QueryRowContext(ctx, query, r.schema, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, model.NewStorageUnavailable(err)
	}
	return true, nil
}

// TestConnection runs the connectivity probe used by /test-db.
func (r *ReportRepo) TestConnection(ctx context.Context) ([]model.AggregateRow, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT 1 as test")
	if err != nil {
		return nil, model.NewStorageUnavailable(err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, model.NewStorageUnavailable(err)
	}
	return result, nil
}
