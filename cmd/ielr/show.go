package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/ielr/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  ielr show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	return printReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# {{ .Name }} ({{ .Algorithm }})

# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ printIsocore . }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end -}}
{{ printDefaultReduction . }}
{{ range .ResolvedConflict -}}
{{ .Message }}
{{ end -}}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func printReport(w io.Writer, report *spec.Report) error {
	symName := func(sym int) string {
		name, ok := report.SymbolName(sym)
		if !ok {
			return fmt.Sprintf("<symbol %v>", sym)
		}
		return name
	}

	symNames := func(syms []int, sep string) string {
		names := make([]string, len(syms))
		for i, sym := range syms {
			names[i] = symName(sym)
		}
		return strings.Join(names, sep)
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			var resolvedCount int
			for _, s := range report.States {
				resolvedCount += len(s.ResolvedConflict)
			}
			sr, rr := report.ConflictCounts()

			var b strings.Builder
			if resolvedCount > 0 {
				fmt.Fprintf(&b, "%v conflicts resolved by precedences.\n", resolvedCount)
			}
			if sr > 0 {
				fmt.Fprintf(&b, "%v shift/reduce conflicts.\n", sr)
			}
			if rr > 0 {
				fmt.Fprintf(&b, "%v reduce/reduce conflicts.\n", rr)
			}
			if resolvedCount == 0 && sr == 0 && rr == 0 {
				fmt.Fprintf(&b, "No conflict")
			}
			return b.String()
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v %v", term.Number, formatPrec(term.Precedence, term.Associativity), term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			rhs := "ε"
			if len(prod.RHS) > 0 {
				rhs = symNames(prod.RHS, " ")
			}
			return fmt.Sprintf("%4v %v %v → %v", prod.Number, formatPrec(prod.Precedence, prod.Associativity), symName(prod.LHS), rhs)
		},
		"printIsocore": func(s *spec.State) string {
			if s.Isocore == s.Number {
				return ""
			}
			return fmt.Sprintf(" (split from %v)", s.Isocore)
		},
		"printItem": func(item *spec.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", symName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, symName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			s := fmt.Sprintf("reduce %4v on %v", reduce.Production, symNames(reduce.LookAhead, ", "))
			if len(reduce.NotSelected) > 0 {
				s = fmt.Sprintf("%v [not selected: %v]", s, symNames(reduce.NotSelected, ", "))
			}
			return s
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, symName(tran.Symbol))
		},
		"printDefaultReduction": func(s *spec.State) string {
			if s.DefaultReduction == nil {
				return ""
			}
			return fmt.Sprintf("default reduction %v\n", *s.DefaultReduction)
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v", sr.State, sr.Production, symName(sr.Symbol))
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v", rr.Production1, rr.Production2, symName(rr.Symbol))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}

func formatPrec(level int, assoc string) string {
	if level == 0 {
		return " - -"
	}
	if assoc == "" {
		assoc = "-"
	}
	return fmt.Sprintf("%2v %v", level, assoc)
}
