package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nnnkkk7/tabdsv"
	"github.com/nnnkkk7/tabdsv/internal/ioutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	parseDelimiter string
	parseQuote     string
	parseTrim      bool
	parseComment   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse and print a DSV file's rows",
	Long: `Parse and display the contents of a DSV file with customizable
delimiter, quote character, comment character, and unquoted-field
trimming.

Example:
  tabdsv parse data.csv
  tabdsv parse --delimiter=";" --quote="'" data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer file.Close()

		opts := tabdsv.DefaultParserOptions()
		if parseDelimiter != "" {
			opts.Delimiter = parseDelimiter[0]
		}
		if parseQuote != "" {
			opts.Quote = parseQuote[0]
		}
		if parseComment != "" {
			opts.HasComment = true
			opts.Comment = parseComment[0]
		}
		opts.TrimUnquotedFields = parseTrim

		readerOpts := tabdsv.DefaultReaderOptions()
		readerOpts.Parser = opts
		reader := tabdsv.NewReaderWithOptions(ioutil.NewRefillSource(file, true), readerOpts)

		log.Debug().Str("file", filePath).Msg("starting parse")

		count := 0
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("reading record %d: %w", count+1, err)
			}
			for i := 0; i < row.ColumnCount(); i++ {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(row.FieldString(i))
			}
			fmt.Println()
			count++
		}
		log.Debug().Int("rows", count).Msg("parse complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseDelimiter, "delimiter", "d", "", "field delimiter (default ',')")
	parseCmd.Flags().StringVarP(&parseQuote, "quote", "q", "", `quote character (default '"')`)
	parseCmd.Flags().StringVarP(&parseComment, "comment", "c", "", "comment character (disabled by default)")
	parseCmd.Flags().BoolVarP(&parseTrim, "trim", "t", false, "trim ASCII space/tab in unquoted fields")
}
