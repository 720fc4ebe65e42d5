package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/YuminosukeSato/dshelpers/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationReadCSV)
	testLogger.Warn("warning message", ColumnKey, "age")
	testLogger.Error("error message", fmt.Errorf("test error"), SourceKey, "data.csv")

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("leading error should be recorded under the error key")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(ComponentKey, "frequency", ColumnKey, "species")
	contextLogger.Info("Generated frequency table for column", RowsKey, 3)

	assert.True(t, testLogger.ContainsField(ComponentKey, "frequency"))
	assert.True(t, testLogger.ContainsField(ColumnKey, "species"))
	assert.True(t, testLogger.ContainsField(RowsKey, 3.0))
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))

	testLogger.Clear()
	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ComponentKey, "frame").Info("Read CSV", RowsKey, 150, ColumnsKey, 5)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Read CSV", entry["message"])
	assert.Equal(t, "frame", entry[ComponentKey])
	assert.Equal(t, 150.0, entry[RowsKey])

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestZerologLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("write failed", errors.New("disk full"), OutputPathKey, "out.xlsx")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "out.xlsx", entry[OutputPathKey])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestWarningsGoToDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := SetLogger(NewZerologLogger(&buf, LevelDebug))
	defer SetLogger(prev)

	dserrors.Warn(dserrors.NewTruncationWarning("city", 10, 2))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "TruncationWarning", entry["type"])
	assert.Equal(t, "city", entry["column"])
}

func TestGetLoggerWithName(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	prev := SetLogger(testLogger)
	defer SetLogger(prev)

	GetLoggerWithName("viz").Info("saved plot")
	assert.True(t, testLogger.ContainsField(ComponentKey, "viz"))
}

func TestSetupLoggerTo(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "debug"))

	slog.Error("failed", ErrAttr(errors.New("boom")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "failed", entry["message"])
	assert.NotEmpty(t, entry[StacktraceAttrKey])

	assert.Error(t, SetupLoggerTo(&buf, "verbose"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
