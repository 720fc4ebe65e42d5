// Package cli implements the dshelper command line.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

// app carries what the persistent flags resolve to.
type app struct {
	cfg Config
}

// Execute runs the dshelper command and exits with status 1 on error.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var configPath string
	a := &app{cfg: DefaultConfig()}

	cmd := &cobra.Command{
		Use:          "dshelper",
		Short:        "Frequency tables, summaries and quick plots for tabular data",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log.SetLogger(log.NewConsoleLogger(cmd.ErrOrStderr(), level))
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (optional)")

	cmd.AddCommand(
		freqCmd(a),
		describeCmd(),
		crosstabCmd(),
		histCmd(a),
		scatterCmd(a),
		barCmd(a),
	)
	return cmd
}

// readInput loads a .csv, .tsv or .xlsx file. sheet only applies to
// workbooks; empty means the first sheet.
func readInput(path, sheet string) (*frame.DataFrame, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return frame.ReadCSVFile(path)
	case ".tsv":
		return frame.ReadCSVFile(path, frame.WithDelimiter('\t'))
	case ".xlsx", ".xlsm":
		return frame.ReadExcel(path, sheet)
	default:
		return nil, errors.NewValidationError("input", "unsupported file type (want .csv, .tsv or .xlsx)", ext)
	}
}
