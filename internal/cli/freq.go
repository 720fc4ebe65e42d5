package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/dshelpers/frequency"
)

func freqCmd(a *app) *cobra.Command {
	var (
		sheet          string
		output         string
		columns        []string
		maxEntries     int
		noFormatWidth  bool
		noSlNo         bool
		noFrequency    bool
		noPercentage   bool
		cumulative     bool
		noStringLength bool
		keepNA         bool
	)

	c := &cobra.Command{
		Use:   "freq <input>",
		Short: "Write one frequency table per column to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			if len(columns) > 0 {
				if df, err = df.Select(columns...); err != nil {
					return err
				}
			}

			o := a.cfg.Frequency.Options()
			if cmd.Flags().Changed("max-entries") {
				o.MaxEntries = maxEntries
			}
			o.FormatWidth = o.FormatWidth && !noFormatWidth
			o.SlNo = o.SlNo && !noSlNo
			o.Frequency = o.Frequency && !noFrequency
			o.Percentage = o.Percentage && !noPercentage
			o.CumulativePercentage = o.CumulativePercentage || cumulative
			o.StringLength = o.StringLength && !noStringLength
			o.DropNA = o.DropNA && !keepNA
			o.OutputFilename = output

			path, err := frequency.WriteExcel(cmd.Context(), df, frequency.WithOptions(o))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook (default: first sheet)")
	c.Flags().StringVarP(&output, "output", "o", "", "Workbook path (default: frequency_table_<timestamp>.xlsx)")
	c.Flags().StringSliceVar(&columns, "columns", nil, "Only tabulate these columns")
	c.Flags().IntVar(&maxEntries, "max-entries", frequency.DefaultOptions().MaxEntries, "Maximum rows per table")
	c.Flags().BoolVar(&noFormatWidth, "no-format-width", false, "Keep default column widths")
	c.Flags().BoolVar(&noSlNo, "no-sl-no", false, "Omit the serial number column")
	c.Flags().BoolVar(&noFrequency, "no-frequency", false, "Omit the frequency column")
	c.Flags().BoolVar(&noPercentage, "no-percentage", false, "Omit the percentage column")
	c.Flags().BoolVar(&cumulative, "cumulative", false, "Add the cumulative percentage column")
	c.Flags().BoolVar(&noStringLength, "no-string-length", false, "Omit the string length column")
	c.Flags().BoolVar(&keepNA, "keep-na", false, "Count missing cells as a value")
	return c
}
