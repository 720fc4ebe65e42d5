package frequency

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

const irisCSV = `species,petal_width,city
setosa,0.2,Paris
setosa,0.2,NA
virginica,1.8,Rome
virginica,2.3,Paris
versicolor,1.3,
setosa,0.4,Paris
`

func readFrame(t *testing.T, s string) *frame.DataFrame {
	t.Helper()
	df, err := frame.ReadCSV(strings.NewReader(s))
	require.NoError(t, err)
	return df
}

func TestBuild(t *testing.T) {
	df := readFrame(t, irisCSV)

	table, err := Build(df, "species", WithCumulativePercentage(true))
	require.NoError(t, err)

	assert.Equal(t, "species", table.Column)
	assert.Equal(t, 6, table.Total)
	assert.Equal(t, 3, table.Distinct)
	assert.False(t, table.Truncated)
	assert.False(t, table.Numeric)
	require.Len(t, table.Rows, 3)

	want := []Row{
		{SlNo: 1, Value: "setosa", Frequency: 3, Percentage: 50, CumulativePercentage: 50, StringLength: 6},
		{SlNo: 2, Value: "virginica", Frequency: 2, Percentage: 100.0 * 2 / 6, CumulativePercentage: 50 + 100.0*2/6, StringLength: 9},
		{SlNo: 3, Value: "versicolor", Frequency: 1, Percentage: 100.0 / 6, CumulativePercentage: 100, StringLength: 10},
	}
	for i, w := range want {
		got := table.Rows[i]
		assert.Equal(t, w.SlNo, got.SlNo)
		assert.Equal(t, w.Value, got.Value)
		assert.Equal(t, w.Frequency, got.Frequency)
		assert.InDelta(t, w.Percentage, got.Percentage, 1e-9)
		assert.InDelta(t, w.CumulativePercentage, got.CumulativePercentage, 1e-9)
		assert.Equal(t, w.StringLength, got.StringLength)
	}
}

func TestBuildDropNA(t *testing.T) {
	df := readFrame(t, irisCSV)

	dropped, err := Build(df, "city")
	require.NoError(t, err)
	assert.Equal(t, 4, dropped.Total)
	assert.InDelta(t, 75.0, dropped.Rows[0].Percentage, 1e-9)

	kept, err := Build(df, "city", WithDropNA(false))
	require.NoError(t, err)
	assert.Equal(t, 6, kept.Total)
	assert.Len(t, kept.Rows, 4)
}

func TestBuildTruncation(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	prev := log.SetLogger(testLogger)
	defer log.SetLogger(prev)

	df := readFrame(t, irisCSV)
	table, err := Build(df, "species", WithMaxEntries(2))
	require.NoError(t, err)

	assert.True(t, table.Truncated)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 3, table.Distinct)
	// percentages are relative to all counted cells, not only the kept rows
	assert.InDelta(t, 50+100.0*2/6, table.Rows[1].CumulativePercentage, 1e-9)

	assert.True(t, testLogger.ContainsMessage("frequency table for column 'species' truncated: kept 2 of 3 distinct values"))
}

func TestDefaultMaxEntriesLeavesHeaderRow(t *testing.T) {
	assert.Equal(t, ExcelMaxRows-1, DefaultOptions().MaxEntries)
	assert.NoError(t, DefaultOptions().validate())
}

func TestSheetRowLimitTruncatesOnce(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	prev := log.SetLogger(testLogger)
	defer log.SetLogger(prev)

	prevLimit := sheetRowLimit
	sheetRowLimit = 2
	defer func() { sheetRowLimit = prevLimit }()

	df, err := readFrame(t, irisCSV).Select("species")
	require.NoError(t, err)

	// MaxEntries above the sheet limit is capped in the table itself
	table, err := Build(df, "species", WithMaxEntries(10))
	require.NoError(t, err)
	assert.True(t, table.Truncated)
	assert.Len(t, table.Rows, 2)

	testLogger.Clear()
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, df))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("species")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	warnings := 0
	for _, e := range entries {
		if msg, _ := e["message"].(string); strings.Contains(msg, "column 'species' truncated") {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestBuildErrors(t *testing.T) {
	df := readFrame(t, irisCSV)

	_, err := Build(df, "nope")
	var colErr *errors.ColumnError
	assert.True(t, errors.As(err, &colErr))

	_, err = Build(df, "species", WithMaxEntries(0))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = Build(df, "species", WithWorkers(-1))
	assert.Error(t, err)
}

func TestNumericTableValues(t *testing.T) {
	df := readFrame(t, irisCSV)
	table, err := Build(df, "petal_width")
	require.NoError(t, err)

	assert.True(t, table.Numeric)
	assert.Equal(t, "0.2", table.Rows[0].Value)

	recs := table.Records(DefaultOptions())
	assert.Equal(t, []any{1, 0.2, 2, 100.0 * 2 / 6, 3}, recs[0])
}

func TestNumericValuesKeepTheirText(t *testing.T) {
	df := readFrame(t, "n\n2\n1.50\n2\ninf\n")
	table, err := Build(df, "n")
	require.NoError(t, err)
	require.True(t, table.Numeric)

	recs := table.Records(DefaultOptions())
	require.Len(t, recs, 3)
	assert.Equal(t, 2.0, recs[0][1])
	assert.Equal(t, "1.50", recs[1][1])
	assert.Equal(t, "inf", recs[2][1])

	// string_length always matches the text written to the sheet
	for _, rec := range recs {
		assert.Equal(t, len(cellText(rec[1])), rec[len(rec)-1])
	}
}

func TestHeadersAndRecords(t *testing.T) {
	df := readFrame(t, irisCSV)
	table, err := Build(df, "species")
	require.NoError(t, err)

	o := DefaultOptions()
	assert.Equal(t, []string{"sl_no", "species", "frequency", "percentage", "string_length"}, table.Headers(o))

	o.SlNo = false
	o.Percentage = false
	o.StringLength = false
	o.CumulativePercentage = true
	assert.Equal(t, []string{"species", "frequency", "cumulative_percentage"}, table.Headers(o))
	assert.Equal(t, []any{"setosa", 3, 50.0}, table.Records(o)[0])

	o.Frequency = false
	assert.Equal(t, []string{"species", "cumulative_percentage"}, table.Headers(o))
}

func TestColumnWidths(t *testing.T) {
	df := readFrame(t, irisCSV)
	table, err := Build(df, "species", WithPercentage(false))
	require.NoError(t, err)

	o := DefaultOptions()
	o.Percentage = false
	// sl_no(5), species vs versicolor(10), frequency(9), string_length(13)
	assert.Equal(t, []float64{7, 12, 11, 15}, table.ColumnWidths(o))
}

func TestBuildAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	df := readFrame(t, irisCSV)
	tables, err := BuildAll(context.Background(), df, WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "species", tables[0].Column)
	assert.Equal(t, "petal_width", tables[1].Column)
	assert.Equal(t, "city", tables[2].Column)
}

func TestBuildAllCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildAll(ctx, readFrame(t, irisCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, "frequency_table_20240309_140507.xlsx", ResolveFilename("", at))
	assert.Equal(t, "iris.xlsx", ResolveFilename("iris", at))
	assert.Equal(t, "iris.xlsx", ResolveFilename("iris.xlsx", at))
	assert.Equal(t, "iris.csv.xlsx", ResolveFilename("iris.csv", at))
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"species", "species"},
		{"customer_lifetime_value_in_local_currency", "customer_lifetin_local_currency"},
		{"Unnamed: 0", "Unnamed_ 0"},
		{"a/b[c]?*\\", "a_b_c____"},
		{"'quoted'", "_quoted_"},
		{"", "Sheet"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SheetName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 31)
		})
	}
}

func TestSheetNamerUnique(t *testing.T) {
	n := newSheetNamer()
	assert.Equal(t, "customer_lifetin_local_currency", n.next("customer_lifetime_value_in_local_currency"))
	assert.Equal(t, "customer_lifetin_local_curren~2", n.next("customer_lifetime_value_XX_in_local_currency"))
	assert.Equal(t, "city", n.next("city"))
	assert.Equal(t, "CITY~2", n.next("CITY"))
}

func TestWriteExcel(t *testing.T) {
	defer goleak.VerifyNone(t)

	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	prev := log.SetLogger(testLogger)
	defer log.SetLogger(prev)

	df := readFrame(t, irisCSV)
	out := filepath.Join(t.TempDir(), "iris_freq")

	path, err := WriteExcel(context.Background(), df, WithOutputFilename(out), WithCumulativePercentage(true))
	require.NoError(t, err)
	assert.Equal(t, out+".xlsx", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"species", "petal_width", "city"}, f.GetSheetList())

	rows, err := f.GetRows("species")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"sl_no", "species", "frequency", "percentage", "cumulative_percentage", "string_length"}, rows[0])
	assert.Equal(t, []string{"1", "setosa", "3", "50", "50", "6"}, rows[1])
	assert.Equal(t, "versicolor", rows[3][1])

	width, err := f.GetColWidth("species", "B")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)

	assert.True(t, testLogger.ContainsMessage("Writing frequency table of dataset"))
	assert.True(t, testLogger.ContainsField(log.ColumnKey, "city"))
	assert.True(t, testLogger.ContainsMessage("Frequency table saved"))
}

func TestWriteExcelDefaultName(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	prevNow := now
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = prevNow }()

	path, err := WriteExcel(context.Background(), readFrame(t, irisCSV), WithFormatWidth(false))
	require.NoError(t, err)
	assert.Equal(t, "frequency_table_20250102_030405.xlsx", path)
	_, err = os.Stat(filepath.Join(dir, path))
	assert.NoError(t, err)
}

func TestWriteToWriter(t *testing.T) {
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, readFrame(t, irisCSV), WithSlNo(false), WithStringLength(false))
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("petal_width")
	require.NoError(t, err)
	assert.Equal(t, []string{"petal_width", "frequency", "percentage"}, rows[0])
	assert.Equal(t, "0.2", rows[1][0])
}
