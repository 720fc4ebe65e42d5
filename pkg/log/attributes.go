package log

// Standard attribute keys. Keys are dotted so that logs can be filtered by
// prefix (all "data.*" keys describe the input, and so on).
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "frame", "frequency", "preprocessing"
	ComponentKey = "component"

	// OperationKey names the helper being run.
	// Examples: "read_csv", "write_excel", "fit"
	OperationKey = "operation"

	// EstimatorKey names a transformer or estimator type.
	EstimatorKey = "estimator.name"
)

// Data shape.
const (
	RowsKey    = "data.rows"
	ColumnsKey = "data.columns"
	ColumnKey  = "data.column"
	SheetKey   = "data.sheet"
	SourceKey  = "data.source"
)

// Frequency table output.
const (
	OutputPathKey     = "output.path"
	DistinctValuesKey = "freq.distinct"
	KeptRowsKey       = "freq.kept"
	TruncatedKey      = "freq.truncated"
)

// Evaluation and timing.
const (
	DurationMsKey = "perf.duration_ms"
	FoldKey       = "eval.fold"
	ScoreKey      = "eval.score"
	WorkersKey    = "perf.workers"
)

// Error context.
const (
	ErrorTypeKey = "error.type"
)

// Standard operation values.
const (
	OperationReadCSV       = "read_csv"
	OperationReadExcel     = "read_excel"
	OperationWriteExcel    = "write_excel"
	OperationFit           = "fit"
	OperationCrossValidate = "cross_validate"
	OperationPlot          = "plot"
)
