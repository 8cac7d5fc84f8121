package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "ielr",
	Short: "Build LALR(1) and IELR(1) automata from a grammar",
	Long: `ielr provides the following features:
- Builds the LALR(1) or IELR(1) automaton of a grammar declared in TOML and
  writes a report of its states, conflicts, and resolutions.
- Prints a report in a readable format.
- Summarizes the conflicts of a grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setTraceLevel,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "error", "trace level (debug|info|error)")
}

func setTraceLevel(cmd *cobra.Command, args []string) error {
	switch l := strings.ToLower(*rootFlags.trace); l {
	case "debug", "info", "error":
		tracing.Select("ielr.automaton").SetTraceLevel(tracing.TraceLevelFromString(l))
		return nil
	}
	return fmt.Errorf("invalid trace level: %v", *rootFlags.trace)
}

func Execute() error {
	return rootCmd.Execute()
}
