package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nnnkkk7/tabdsv"
	"github.com/nnnkkk7/tabdsv/fixedwidth"
	"github.com/nnnkkk7/tabdsv/internal/ioutil"
	"github.com/spf13/cobra"
)

var (
	benchRecordLength int
	benchIterations   int
)

var benchCmd = &cobra.Command{
	Use:   "bench [file]",
	Short: "Time a file through both the DSV and fixed-width read paths",
	Long: `bench reads file repeatedly through tabdsv.Reader (the delimited
path, with its SIMD-or-scalar structural scan) and, if
--record-length is given, through fixedwidth.Reader (the positional path)
as well, reporting wall-clock and row throughput for each.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		if err := benchDSV(data); err != nil {
			return fmt.Errorf("dsv bench: %w", err)
		}
		if benchRecordLength > 0 {
			if err := benchFixedWidth(data); err != nil {
				return fmt.Errorf("fixedwidth bench: %w", err)
			}
		}
		return nil
	},
}

func benchDSV(data []byte) error {
	start := time.Now()
	var rows int
	for i := 0; i < benchIterations; i++ {
		r := tabdsv.NewReaderWithOptions(ioutil.NewRefillSource(bytes.NewReader(data), true), tabdsv.DefaultReaderOptions())
		for {
			_, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			rows++
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("dsv:        %d iterations, %d rows total, %s (%.0f rows/s)\n",
		benchIterations, rows, elapsed, float64(rows)/elapsed.Seconds())
	return nil
}

func benchFixedWidth(data []byte) error {
	opts := fixedwidth.DefaultParserOptions()
	opts.RecordLength = benchRecordLength
	opts.HasRecordLength = true

	start := time.Now()
	var rows int
	for i := 0; i < benchIterations; i++ {
		r, err := fixedwidth.NewReader(bytes.NewReader(data), opts)
		if err != nil {
			return err
		}
		for {
			_, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			rows++
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("fixedwidth: %d iterations, %d rows total, %s (%.0f rows/s)\n",
		benchIterations, rows, elapsed, float64(rows)/elapsed.Seconds())
	return nil
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchRecordLength, "record-length", 0, "fixed record byte length (enables the fixed-width pass)")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 10, "number of passes over the file")
}
