package schema

// Custom string types for type safety.
type (
	// RecordKind represents the kind of a farm record.
	RecordKind string

	// Preset represents a named date range shorthand.
	Preset string

	// Classification represents the direction of a period-over-period change.
	Classification string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for record storage.
	DatabaseBackend string
)

// All record kinds supported.
const (
	CropRecord             RecordKind = "crop"
	ExpenseRecord          RecordKind = "expense"
	LivestockExpenseRecord RecordKind = "livestock_expense"
)

// All range presets supported.
const (
	Last7Days     Preset = "7d"
	Last30Days    Preset = "30d"
	Last3Months   Preset = "3m"
	Last6Months   Preset = "6m"
	YearToDate    Preset = "ytd"
	LastYear      Preset = "ly" // closed calendar year, not anchored to now
	DefaultPreset        = Last30Days
)

// All trend classifications supported.
const (
	TrendNew    Classification = "new"
	TrendUp     Classification = "up"
	TrendDown   Classification = "down"
	TrendStable Classification = "stable"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	XLSXOut OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Summary metric names produced by the aggregator.
const (
	MetricTotalRecords           = "total_records"
	MetricTotalCrops             = "total_crops"
	MetricTotalArea              = "total_area"
	MetricProjectedRevenue       = "projected_revenue"
	MetricTotalExpenses          = "total_expenses"
	MetricExpenseCount           = "expense_count"
	MetricTotalLivestockExpenses = "total_livestock_expenses"
	MetricLivestockExpenseCount  = "livestock_expense_count"
	MetricTotalCosts             = "total_costs"
	MetricNetProjection          = "net_projection"
)

// Units attached to summary metrics.
const (
	UnitCount    = "count"
	UnitCurrency = "currency"
	UnitArea     = "area"
)

// AllPresets lists every preset in display order.
var AllPresets = []Preset{Last7Days, Last30Days, Last3Months, Last6Months, YearToDate, LastYear}

// AllRecordKinds lists every record kind.
var AllRecordKinds = []RecordKind{CropRecord, ExpenseRecord, LivestockExpenseRecord}

// SummaryMetricOrder is the canonical order of summary metrics and their units.
var SummaryMetricOrder = []Metric{
	{Name: MetricTotalRecords, Unit: UnitCount},
	{Name: MetricTotalCrops, Unit: UnitCount},
	{Name: MetricTotalArea, Unit: UnitArea},
	{Name: MetricProjectedRevenue, Unit: UnitCurrency},
	{Name: MetricTotalExpenses, Unit: UnitCurrency},
	{Name: MetricExpenseCount, Unit: UnitCount},
	{Name: MetricTotalLivestockExpenses, Unit: UnitCurrency},
	{Name: MetricLivestockExpenseCount, Unit: UnitCount},
	{Name: MetricTotalCosts, Unit: UnitCurrency},
	{Name: MetricNetProjection, Unit: UnitCurrency},
}

// DefaultTrendMetrics are compared when the caller does not name any.
var DefaultTrendMetrics = []string{
	MetricTotalExpenses,
	MetricTotalArea,
	MetricProjectedRevenue,
	MetricTotalCrops,
}

// ValidPresets lists all valid presets.
var ValidPresets = map[Preset]struct{}{
	Last7Days:   {},
	Last30Days:  {},
	Last3Months: {},
	Last6Months: {},
	YearToDate:  {},
	LastYear:    {},
}

// ValidRecordKinds lists all valid record kinds.
var ValidRecordKinds = map[RecordKind]struct{}{
	CropRecord:             {},
	ExpenseRecord:          {},
	LivestockExpenseRecord: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
	XLSXOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
