package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/dshelpers/frame"
	"github.com/YuminosukeSato/dshelpers/frequency"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

func describeCmd() *cobra.Command {
	var sheet string

	c := &cobra.Command{
		Use:   "describe <input>",
		Short: "Print count, mean, std, min, quartiles and max of numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			summaries, names, err := df.Describe()
			if err != nil {
				return err
			}
			return writeSummaries(cmd.OutOrStdout(), summaries, names)
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook")
	return c
}

func writeSummaries(w io.Writer, summaries map[string]frame.Summary, names []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, n := range names {
		s := summaries[n]
		fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t\n",
			n, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}
	return tw.Flush()
}

func crosstabCmd() *cobra.Command {
	var (
		sheet  string
		rows   string
		cols   string
		keepNA bool
	)

	c := &cobra.Command{
		Use:   "crosstab <input>",
		Short: "Cross-tabulate two columns and run a chi-square test of independence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			ct, err := frequency.CrossTab(df, rows, cols, !keepNA)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := writeCrossTable(out, ct); err != nil {
				return err
			}

			res, err := frequency.ChiSquare(ct)
			if err != nil {
				log.GetLoggerWithName("cli").Warn("Chi-square test skipped", log.ErrAttrKey, err)
				return nil
			}
			fmt.Fprintf(out, "\nchi2 = %.4f  dof = %d  p = %.4g  cramers_v = %.4f\n",
				res.Statistic, res.DegreesOfFreedom, res.PValue, res.CramersV)
			return nil
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook")
	c.Flags().StringVar(&rows, "rows", "", "Column whose values label the rows (required)")
	c.Flags().StringVar(&cols, "cols", "", "Column whose values label the columns (required)")
	c.Flags().BoolVar(&keepNA, "keep-na", false, "Count missing cells as a value")

	_ = c.MarkFlagRequired("rows")
	_ = c.MarkFlagRequired("cols")
	return c
}

func writeCrossTable(w io.Writer, ct *frequency.CrossTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s \\ %s\t%s\tTotal\t\n", ct.RowColumn, ct.ColColumn, strings.Join(ct.ColLabels, "\t"))
	for i, label := range ct.RowLabels {
		cells := make([]string, len(ct.ColLabels))
		for j := range ct.ColLabels {
			cells[j] = fmt.Sprint(ct.Counts[i][j])
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", label, strings.Join(cells, "\t"), ct.RowTotals[i])
	}
	totals := make([]string, len(ct.ColTotals))
	for j, v := range ct.ColTotals {
		totals[j] = fmt.Sprint(v)
	}
	fmt.Fprintf(tw, "Total\t%s\t%d\t\n", strings.Join(totals, "\t"), ct.Total)
	return tw.Flush()
}
