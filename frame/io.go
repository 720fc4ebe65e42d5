package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

// readConfig holds the options shared by the readers.
type readConfig struct {
	delimiter rune
	comment   rune
	naValues  []string
	header    bool
}

func defaultReadConfig() readConfig {
	return readConfig{
		delimiter: ',',
		naValues:  DefaultNAValues,
		header:    true,
	}
}

// Option configures ReadCSV and ReadExcel.
type Option func(*readConfig)

// WithDelimiter sets the CSV field delimiter (default ',').
func WithDelimiter(r rune) Option {
	return func(c *readConfig) { c.delimiter = r }
}

// WithComment makes CSV lines starting with r be skipped.
func WithComment(r rune) Option {
	return func(c *readConfig) { c.comment = r }
}

// WithNAValues replaces the set of cell texts treated as missing.
func WithNAValues(values ...string) Option {
	return func(c *readConfig) { c.naValues = values }
}

// WithoutHeader treats the first record as data and names the columns
// col_0, col_1, ...
func WithoutHeader() Option {
	return func(c *readConfig) { c.header = false }
}

// ReadCSV reads a CSV stream whose first record is the header.
func ReadCSV(r io.Reader, opts ...Option) (*DataFrame, error) {
	cfg := defaultReadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.delimiter
	reader.Comment = cfg.comment
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "frame.ReadCSV")
	}
	df, err := fromRecords("frame.ReadCSV", records, cfg)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("frame").Debug("Read CSV",
		log.OperationKey, log.OperationReadCSV,
		log.RowsKey, df.Len(),
		log.ColumnsKey, df.Width(),
	)
	return df, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string, opts ...Option) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "frame.ReadCSVFile: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, opts...)
}

// ReadExcel reads one sheet of an .xlsx workbook. An empty sheet name
// selects the first sheet.
func ReadExcel(path, sheet string, opts ...Option) (*DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "frame.ReadExcel: open %s", path)
	}
	defer f.Close()
	return readWorkbook(f, path, sheet, opts)
}

// ReadExcelReader is ReadExcel over an in-memory workbook.
func ReadExcelReader(r io.Reader, sheet string, opts ...Option) (*DataFrame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "frame.ReadExcelReader")
	}
	defer f.Close()
	return readWorkbook(f, "<reader>", sheet, opts)
}

func readWorkbook(f *excelize.File, source, sheet string, opts []Option) (*DataFrame, error) {
	cfg := defaultReadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewValueError("frame.ReadExcel", "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "frame.ReadExcel: sheet %q", sheet)
	}
	df, err := fromRecords("frame.ReadExcel", rows, cfg)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("frame").Debug("Read Excel sheet",
		log.OperationKey, log.OperationReadExcel,
		log.SourceKey, source,
		log.SheetKey, sheet,
		log.RowsKey, df.Len(),
		log.ColumnsKey, df.Width(),
	)
	return df, nil
}

// fromRecords turns raw records into a frame. Short records are padded
// with empty cells; blank header cells become "Unnamed: j" and repeated
// header names get a ".k" suffix.
func fromRecords(op string, records [][]string, cfg readConfig) (*DataFrame, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	var names []string
	body := records
	if cfg.header {
		names = headerNames(records[0], width)
		body = records[1:]
	} else {
		names = make([]string, width)
		for j := range names {
			names[j] = fmt.Sprintf("col_%d", j)
		}
	}

	cols := make([][]string, width)
	for j := range cols {
		cols[j] = make([]string, len(body))
	}
	for i, rec := range body {
		for j := 0; j < width && j < len(rec); j++ {
			cols[j][i] = rec[j]
		}
	}
	return build(names, cols, naSet(cfg.naValues)), nil
}

func headerNames(header []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]struct{}, width)
	for j := 0; j < width; j++ {
		base := ""
		if j < len(header) {
			base = header[j]
		}
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", j)
		}
		name := base
		for k := 1; ; k++ {
			if _, dup := used[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s.%d", base, k)
		}
		used[name] = struct{}{}
		names[j] = name
	}
	return names
}

// WriteCSV writes the header and all rows.
func (df *DataFrame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(df.names); err != nil {
		return errors.Wrap(err, "DataFrame.WriteCSV")
	}
	if err := cw.WriteAll(df.Records()); err != nil {
		return errors.Wrap(err, "DataFrame.WriteCSV")
	}
	return nil
}
