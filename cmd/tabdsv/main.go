// Command tabdsv is a thin CLI collaborator wrapping the tabdsv/fixedwidth
// core, grounded on ooyeku/csv_parser's cmd/ cobra command tree.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tabdsv",
	Short: "Streaming DSV and fixed-width reader/writer toolkit",
	Long: `tabdsv parses and validates RFC-4180-style delimited text and
fixed-width positional records using the tabdsv/fixedwidth packages, the
same streaming tokenizer a library caller would embed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "structured diagnostic logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
