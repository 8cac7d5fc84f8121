package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	spec "github.com/nihei9/ielr/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output     *string
	algorithm  *string
	splitLimit *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Build the automaton of a grammar and write its report",
		Example: `  ielr compile grammar.toml -o grammar-report.json --algorithm ielr`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.algorithm = cmd.Flags().String("algorithm", "", "lalr or ielr (default: the algorithm the grammar declares)")
	compileFlags.splitLimit = cmd.Flags().Int("split-limit", 0, "maximum number of states IELR may add by splitting")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	src, err := openGrammarSource(args)
	if err != nil {
		return err
	}
	defer src.close()

	report, err := buildReport(src, *compileFlags.algorithm, *compileFlags.splitLimit)
	if err != nil {
		return err
	}

	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("cannot create an output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		err = writeReport(f, report)
		if err != nil {
			return err
		}
	} else {
		err = writeReport(os.Stdout, report)
		if err != nil {
			return err
		}
	}

	return printBuildResult(os.Stderr, report)
}

func writeReport(w io.Writer, report *spec.Report) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printBuildResult(w io.Writer, report *spec.Report) error {
	fingerprint, err := report.Fingerprint()
	if err != nil {
		return err
	}
	sr, rr := report.ConflictCounts()
	fmt.Fprintf(w, "%v: %v states (%v)\n", report.Name, len(report.States), report.Algorithm)
	if sr > 0 {
		fmt.Fprintf(w, "%v shift/reduce conflicts\n", sr)
	}
	if rr > 0 {
		fmt.Fprintf(w, "%v reduce/reduce conflicts\n", rr)
	}
	fmt.Fprintf(w, "fingerprint: %v\n", fingerprint)
	return nil
}
