// Command dshelper writes frequency tables, summaries and quick plots for
// CSV and Excel files.
package main

import "github.com/YuminosukeSato/dshelpers/internal/cli"

func main() {
	cli.Execute()
}
