package frequency

import (
	"runtime"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// ExcelMaxRows is the row limit of one Excel worksheet.
const ExcelMaxRows = 1 << 20

// sheetRowLimit is the number of table rows a sheet holds below its header.
var sheetRowLimit = ExcelMaxRows - 1

// Options controls which columns a frequency table carries and how the
// workbook is written.
type Options struct {
	// OutputFilename is the workbook path. Empty means
	// frequency_table_<YYYYmmdd_HHMMSS>.xlsx; ".xlsx" is appended when missing.
	OutputFilename string
	// MaxEntries caps the rows per table. Default ExcelMaxRows-1, the
	// rows left below the header; larger values are capped there too.
	MaxEntries int
	// FormatWidth sizes each sheet column to its longest cell.
	FormatWidth bool

	SlNo                 bool
	Frequency            bool
	Percentage           bool
	CumulativePercentage bool
	StringLength         bool

	// DropNA leaves missing cells out of the counts.
	DropNA bool
	// Workers bounds the columns processed at once. 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the defaults: every column except the cumulative
// percentage, auto width, missing values dropped.
func DefaultOptions() Options {
	return Options{
		MaxEntries:   ExcelMaxRows - 1,
		FormatWidth:  true,
		SlNo:         true,
		Frequency:    true,
		Percentage:   true,
		StringLength: true,
		DropNA:       true,
	}
}

// Option is a function that configures Options.
type Option func(*Options)

// WithOptions replaces all settings at once, e.g. with values loaded from
// a config file.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithOutputFilename sets the workbook path.
func WithOutputFilename(name string) Option {
	return func(o *Options) { o.OutputFilename = name }
}

// WithMaxEntries caps the number of rows written per column.
func WithMaxEntries(n int) Option {
	return func(o *Options) { o.MaxEntries = n }
}

// WithFormatWidth toggles automatic column widths.
func WithFormatWidth(on bool) Option {
	return func(o *Options) { o.FormatWidth = on }
}

// WithSlNo toggles the serial number column.
func WithSlNo(on bool) Option {
	return func(o *Options) { o.SlNo = on }
}

// WithFrequency toggles the frequency column.
func WithFrequency(on bool) Option {
	return func(o *Options) { o.Frequency = on }
}

// WithPercentage toggles the percentage column.
func WithPercentage(on bool) Option {
	return func(o *Options) { o.Percentage = on }
}

// WithCumulativePercentage toggles the cumulative percentage column.
func WithCumulativePercentage(on bool) Option {
	return func(o *Options) { o.CumulativePercentage = on }
}

// WithStringLength toggles the string length column.
func WithStringLength(on bool) Option {
	return func(o *Options) { o.StringLength = on }
}

// WithDropNA controls whether missing cells are counted.
func WithDropNA(on bool) Option {
	return func(o *Options) { o.DropNA = on }
}

// WithWorkers bounds how many columns are processed concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func newOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) validate() error {
	if o.MaxEntries < 1 {
		return errors.NewValidationError("max_entries", "must be at least 1", o.MaxEntries)
	}
	if o.Workers < 0 {
		return errors.NewValidationError("workers", "must not be negative", o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
