package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/ielr/grammar/automaton"
	spec "github.com/nihei9/ielr/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var summaryFlags = struct {
	algorithm  *string
	splitLimit *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Summarize the conflicts of a grammar",
		Example: `  ielr summary grammar.toml --algorithm ielr`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSummary,
	}
	summaryFlags.algorithm = cmd.Flags().String("algorithm", "", "lalr or ielr (default: the algorithm the grammar declares)")
	summaryFlags.splitLimit = cmd.Flags().Int("split-limit", 0, "maximum number of states IELR may add by splitting")
	rootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	src, err := openGrammarSource(args)
	if err != nil {
		return err
	}
	defer src.close()

	a, err := buildAutomaton(src, *summaryFlags.algorithm, *summaryFlags.splitLimit)
	if err != nil {
		return err
	}
	report := a.GenReport()

	pterm.Info.Println(fmt.Sprintf("%v: %v states (%v)", report.Name, len(report.States), report.Algorithm))
	ptab := automaton.NewParsingTable(a)
	ctab, err := ptab.Compress()
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("parsing table: %v entries, %v before compression", ctab.EntryCount(), ptab.EntryCount()))
	data := summaryTable(report)
	if len(data) > 1 {
		err = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		if err != nil {
			return err
		}
	}

	sr, rr := report.ConflictCounts()
	if sr == 0 && rr == 0 {
		pterm.Success.Println("No conflict")
		return nil
	}
	if sr > 0 {
		pterm.Warning.Println(fmt.Sprintf("%v shift/reduce conflicts", sr))
	}
	if rr > 0 {
		pterm.Warning.Println(fmt.Sprintf("%v reduce/reduce conflicts", rr))
	}
	return nil
}

// summaryTable lists the states that have conflicts or that were split from another state. The first
// row is the header.
func summaryTable(report *spec.Report) pterm.TableData {
	data := pterm.TableData{
		{"State", "Isocore", "Shift/Reduce", "Reduce/Reduce", "Resolved"},
	}
	for _, s := range report.States {
		if len(s.SRConflict) == 0 && len(s.RRConflict) == 0 && len(s.ResolvedConflict) == 0 && s.Isocore == s.Number {
			continue
		}

		var sr []string
		for _, c := range s.SRConflict {
			name, _ := report.SymbolName(c.Symbol)
			sr = append(sr, name)
		}
		var rr []string
		for _, c := range s.RRConflict {
			name, _ := report.SymbolName(c.Symbol)
			rr = append(rr, name)
		}

		data = append(data, []string{
			strconv.Itoa(s.Number),
			strconv.Itoa(s.Isocore),
			strings.Join(sr, " "),
			strings.Join(rr, " "),
			strconv.Itoa(len(s.ResolvedConflict)),
		})
	}
	return data
}
