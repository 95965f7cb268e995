package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nnnkkk7/tabdsv"
	"github.com/nnnkkk7/tabdsv/internal/ioutil"
	"github.com/spf13/cobra"
)

var (
	validateDelimiter     string
	validateExpectColumns int
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that every row of a DSV file has a consistent column count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer file.Close()

		opts := tabdsv.DefaultParserOptions()
		if validateDelimiter != "" {
			opts.Delimiter = validateDelimiter[0]
		}

		readerOpts := tabdsv.DefaultReaderOptions()
		readerOpts.Parser = opts
		reader := tabdsv.NewReaderWithOptions(ioutil.NewRefillSource(file, true), readerOpts)

		want := validateExpectColumns
		rows := 0
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("record %d: %w", rows+1, err)
			}
			rows++
			if want == 0 {
				want = row.ColumnCount()
				continue
			}
			if row.ColumnCount() != want {
				return fmt.Errorf("record %d (line %d): expected %d columns, found %d",
					row.RecordNumber, row.SourceLineNumber, want, row.ColumnCount())
			}
		}
		fmt.Printf("ok: %d rows, %d columns each\n", rows, want)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateDelimiter, "delimiter", "d", "", "field delimiter (default ',')")
	validateCmd.Flags().IntVar(&validateExpectColumns, "columns", 0, "expected column count (default: inferred from the first row)")
}
