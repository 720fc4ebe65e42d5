package frequency

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

const (
	maxSheetNameLen = 31
	maxColumnWidth  = 255
)

// now is replaced in tests.
var now = time.Now

// ResolveFilename returns the workbook path for name: a timestamped default
// when name is empty, and name with ".xlsx" appended when it lacks it.
func ResolveFilename(name string, at time.Time) string {
	if name == "" {
		return "frequency_table_" + at.Format("20060102_150405") + ".xlsx"
	}
	if !strings.HasSuffix(name, ".xlsx") {
		return name + ".xlsx"
	}
	return name
}

// SheetName maps a column name to a valid worksheet name. Names longer
// than 31 characters keep their first 15 and last 16 characters;
// characters Excel rejects are replaced by '_'.
func SheetName(column string) string {
	r := []rune(column)
	if len(r) > maxSheetNameLen {
		r = append(append([]rune{}, r[:15]...), r[len(r)-16:]...)
	}
	for i, c := range r {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			r[i] = '_'
		}
	}
	if len(r) > 0 && r[0] == '\'' {
		r[0] = '_'
	}
	if len(r) > 0 && r[len(r)-1] == '\'' {
		r[len(r)-1] = '_'
	}
	if len(r) == 0 {
		return "Sheet"
	}
	return string(r)
}

// sheetNamer hands out sheet names that are unique within one workbook.
// Excel compares sheet names case-insensitively.
type sheetNamer struct {
	used map[string]struct{}
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]struct{})}
}

func (n *sheetNamer) next(column string) string {
	base := SheetName(column)
	name := base
	for k := 2; n.taken(name); k++ {
		suffix := []rune(fmt.Sprintf("~%d", k))
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetNameLen {
			r = r[:maxSheetNameLen-len(suffix)]
		}
		name = string(r) + string(suffix)
	}
	n.used[strings.ToLower(name)] = struct{}{}
	return name
}

func (n *sheetNamer) taken(name string) bool {
	_, ok := n.used[strings.ToLower(name)]
	return ok
}

// WriteExcel writes the frequency table of every column of df to a
// workbook, one sheet per column, and returns the path written.
func WriteExcel(ctx context.Context, df *frame.DataFrame, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}
	path := ResolveFilename(o.OutputFilename, now())
	logger := log.GetLoggerWithName("frequency")
	logger.Info("Writing frequency table of dataset",
		log.OperationKey, log.OperationWriteExcel,
		log.OutputPathKey, path,
		log.ColumnsKey, df.Width(),
		log.WorkersKey, o.workers(),
	)

	f, err := workbook(ctx, df, o)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrapf(err, "frequency.WriteExcel: save %s", path)
	}
	logger.Info("Frequency table saved", log.OutputPathKey, path)
	return path, nil
}

// Write writes the same workbook as WriteExcel to w. OutputFilename is
// ignored.
func Write(ctx context.Context, w io.Writer, df *frame.DataFrame, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	f, err := workbook(ctx, df, o)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "frequency.Write")
	}
	return nil
}

func workbook(ctx context.Context, df *frame.DataFrame, o Options) (*excelize.File, error) {
	tables, err := buildAll(ctx, df, o)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	namer := newSheetNamer()
	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		sheet := namer.next(t.Column)
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "frequency: create sheet %q", sheet)
		}
		if err := writeSheet(f, sheet, t, o); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, t *Table, o Options) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrapf(err, "frequency: stream sheet %q", sheet)
	}

	if o.FormatWidth {
		for i, w := range t.ColumnWidths(o) {
			if w > maxColumnWidth {
				w = maxColumnWidth
			}
			if err := sw.SetColWidth(i+1, i+1, w); err != nil {
				return errors.Wrapf(err, "frequency: width of sheet %q", sheet)
			}
		}
	}

	headers := t.Headers(o)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return errors.Wrapf(err, "frequency: header of sheet %q", sheet)
	}

	for i, rec := range t.Records(o) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "frequency: cell name")
		}
		if err := sw.SetRow(cell, rec); err != nil {
			return errors.Wrapf(err, "frequency: row %d of sheet %q", i+2, sheet)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrapf(err, "frequency: flush sheet %q", sheet)
	}
	return nil
}
