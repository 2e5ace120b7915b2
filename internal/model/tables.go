package model

// reportTables is the closed allow-list of reportable tables. The table
// name from the URL is interpolated into SQL as an identifier, so this
// membership test must run before any query, including introspection.
var reportTables = map[string]struct{}{
	"rides_summary":          {},
	"daily_summary":          {},
	"daily_summary2":         {},
	"driver_performance":     {},
	"city_report":            {},
	"customer_metrics":       {},
	"service_quality":        {},
	"payment_summary":        {},
	"driver_incentives":      {},
	"operational_efficiency": {},
	"marketing_roi":          {},
	"financials":             {},
}

// IsValidTable reports whether name is one of the reportable tables.
func IsValidTable(name string) bool {
	_, ok := reportTables[name]
	return ok
}

// ReportTables returns the allow-list for diagnostics.
func ReportTables() []string {
	names := make([]string, 0, len(reportTables))
	for name := range reportTables {
		names = append(names, name)
	}
	return names
}
