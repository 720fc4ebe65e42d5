package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/dshelpers/frequency"
	"github.com/YuminosukeSato/dshelpers/linear"
	"github.com/YuminosukeSato/dshelpers/viz"
)

func (a *app) save(p *plot.Plot, path string) error {
	return viz.Save(p, path, vg.Length(a.cfg.Plot.Width)*vg.Inch, vg.Length(a.cfg.Plot.Height)*vg.Inch)
}

func histCmd(a *app) *cobra.Command {
	var (
		sheet  string
		column string
		bins   int
		out    string
	)

	c := &cobra.Command{
		Use:   "hist <input>",
		Short: "Plot the histogram of a numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			values, err := df.Float64s(column)
			if err != nil {
				return err
			}
			p, err := viz.Histogram(values, bins, column)
			if err != nil {
				return err
			}
			if out == "" {
				out = column + "_hist.png"
			}
			if err := a.save(p, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook")
	c.Flags().StringVar(&column, "column", "", "Numeric column to plot (required)")
	c.Flags().IntVar(&bins, "bins", 10, "Number of bins")
	c.Flags().StringVar(&out, "out", "", "Image path; the extension selects the format (default: <column>_hist.png)")

	_ = c.MarkFlagRequired("column")
	return c
}

func scatterCmd(a *app) *cobra.Command {
	var (
		sheet string
		xName string
		yName string
		fit   bool
		out   string
	)

	c := &cobra.Command{
		Use:   "scatter <input>",
		Short: "Plot one numeric column against another, optionally with a least squares line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			x, err := df.Float64s(xName)
			if err != nil {
				return err
			}
			y, err := df.Float64s(yName)
			if err != nil {
				return err
			}

			var line *viz.Line
			if fit {
				slope, intercept, err := linear.FitLine(completePairs(x, y))
				if err != nil {
					return err
				}
				line = &viz.Line{Slope: slope, Intercept: intercept}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %.6g * %s + %.6g\n", yName, slope, xName, intercept)
			}

			p, err := viz.Scatter(x, y, yName+" vs "+xName, line)
			if err != nil {
				return err
			}
			p.X.Label.Text = xName
			p.Y.Label.Text = yName
			if out == "" {
				out = fmt.Sprintf("%s_vs_%s.png", yName, xName)
			}
			if err := a.save(p, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook")
	c.Flags().StringVar(&xName, "x", "", "Column on the horizontal axis (required)")
	c.Flags().StringVar(&yName, "y", "", "Column on the vertical axis (required)")
	c.Flags().BoolVar(&fit, "fit", false, "Draw the least squares line and print its equation")
	c.Flags().StringVar(&out, "out", "", "Image path (default: <y>_vs_<x>.png)")

	_ = c.MarkFlagRequired("x")
	_ = c.MarkFlagRequired("y")
	return c
}

// completePairs keeps the positions where both x and y are present.
func completePairs(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if i < len(y) && !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}

func barCmd(a *app) *cobra.Command {
	var (
		sheet  string
		column string
		top    int
		keepNA bool
		out    string
	)

	c := &cobra.Command{
		Use:   "bar <input>",
		Short: "Plot the most frequent values of a column as a bar chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readInput(args[0], sheet)
			if err != nil {
				return err
			}
			o := a.cfg.Frequency.Options()
			o.DropNA = o.DropNA && !keepNA
			t, err := frequency.Build(df, column, frequency.WithOptions(o))
			if err != nil {
				return err
			}
			p, err := viz.FrequencyBar(t, top)
			if err != nil {
				return err
			}
			if out == "" {
				out = column + "_bar.png"
			}
			if err := a.save(p, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read when the input is a workbook")
	c.Flags().StringVar(&column, "column", "", "Column to count (required)")
	c.Flags().IntVar(&top, "top", 20, "Number of values to draw; 0 draws all")
	c.Flags().BoolVar(&keepNA, "keep-na", false, "Count missing cells as a value")
	c.Flags().StringVar(&out, "out", "", "Image path (default: <column>_bar.png)")

	_ = c.MarkFlagRequired("column")
	return c
}
