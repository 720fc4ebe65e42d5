// Package dshelpers collects small data science helpers for Go: frequency
// tables exported to Excel, descriptive statistics, preprocessing
// transformers, evaluation metrics, data splitting and quick plots.
//
// It grew out of the need to inspect the categorical columns of a CSV or
// Excel file without leaving a Go service or pipeline.
//
// # Installation
//
//	go get github.com/YuminosukeSato/dshelpers
//
// The command line tool lives in cmd/dshelper:
//
//	go install github.com/YuminosukeSato/dshelpers/cmd/dshelper@latest
//
// # Quick Start
//
// Here's how to write one frequency table per column to a workbook:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/dshelpers/frame"
//	    "github.com/YuminosukeSato/dshelpers/frequency"
//	)
//
//	func main() {
//	    df, err := frame.ReadCSVFile("iris.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    path, err := frequency.WriteExcel(context.Background(), df,
//	        frequency.WithOutputFilename("iris_frequencies"),
//	        frequency.WithCumulativePercentage(true),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("written to", path)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - frame: DataFrame of string cells with CSV/Excel readers, value counts and describe()
//   - frequency: Frequency tables, Excel export, cross tabulation and chi-square test
//   - preprocessing: StandardScaler, MinMaxScaler, SimpleImputer, LabelEncoder, OneHotEncoder
//   - metrics: Regression and binary classification metrics
//   - linear: Least squares LinearRegression
//   - modelselection: TrainTestSplit, KFold, StratifiedKFold, CrossValScore
//   - viz: Histograms, scatter plots and bar charts with gonum/plot
//   - core/model: Core interfaces, base types and persistence
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: Structured errors, warnings and logging
//
// # Performance
//
// Work that is independent per column or per fold runs concurrently:
//
//   - frequency.BuildAll and WriteExcel tabulate columns in parallel (bounded by Options.Workers)
//   - modelselection.CrossValScore fits one estimator per fold concurrently
//   - scalers fit wide matrices column by column in parallel
//
// # License
//
// dshelpers is released under the MIT License.
package dshelpers
