package grammar

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pelletier/go-toml"
)

// Declaration is a grammar declared in a TOML file.
//
//	name = "calc"
//	algorithm = "ielr"
//	terminals = ["NUM", "+"]
//
//	[[precedence]]
//	assoc = "left"
//	symbols = ["+"]
//
//	[[rules]]
//	lhs = "expr"
//	rhs = ["expr", "+", "expr"]
type Declaration struct {
	Name       string
	Algorithm  string
	Start      string
	StartLine  int
	Terminals  []string
	Precedence []*PrecedenceDeclaration
	Rules      []*RuleDeclaration
}

type PrecedenceDeclaration struct {
	Assoc   string
	Symbols []string
	Line    int
}

type RuleDeclaration struct {
	LHS    string
	RHS    []string
	Prec   string
	Action string
	Line   int
}

type tomlDeclaration struct {
	Name       string                `toml:"name"`
	Algorithm  string                `toml:"algorithm"`
	Start      string                `toml:"start"`
	Terminals  []string              `toml:"terminals"`
	Precedence []tomlPrecDeclaration `toml:"precedence"`
	Rules      []tomlRuleDeclaration `toml:"rules"`
}

type tomlPrecDeclaration struct {
	Assoc   string   `toml:"assoc"`
	Symbols []string `toml:"symbols"`
}

type tomlRuleDeclaration struct {
	LHS    string   `toml:"lhs"`
	RHS    []string `toml:"rhs"`
	Prec   string   `toml:"prec"`
	Action string   `toml:"action"`
}

// ParseDeclaration reads a TOML grammar declaration. Each precedence and rule declaration
// remembers the line of its table header so that later errors can point at the source.
func ParseDeclaration(r io.Reader) (*Declaration, error) {
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tree, err := toml.LoadBytes(src)
	if err != nil {
		return nil, err
	}
	td := &tomlDeclaration{}
	if err := tree.Unmarshal(td); err != nil {
		return nil, err
	}

	precLines := tableLines(tree, "precedence")
	ruleLines := tableLines(tree, "rules")

	decl := &Declaration{
		Name:      td.Name,
		Algorithm: td.Algorithm,
		Start:     td.Start,
		Terminals: td.Terminals,
	}
	if td.Start != "" {
		decl.StartLine = tree.GetPosition("start").Line
	}
	for i, p := range td.Precedence {
		if len(p.Symbols) == 0 {
			return nil, fmt.Errorf("precedence #%v has no symbols", i+1)
		}
		decl.Precedence = append(decl.Precedence, &PrecedenceDeclaration{
			Assoc:   p.Assoc,
			Symbols: p.Symbols,
			Line:    lineAt(precLines, i),
		})
	}
	for i, r := range td.Rules {
		if r.LHS == "" {
			return nil, fmt.Errorf("rule #%v has no lhs", i+1)
		}
		decl.Rules = append(decl.Rules, &RuleDeclaration{
			LHS:    r.LHS,
			RHS:    r.RHS,
			Prec:   r.Prec,
			Action: r.Action,
			Line:   lineAt(ruleLines, i),
		})
	}

	return decl, nil
}

func tableLines(tree *toml.Tree, key string) []int {
	tables, ok := tree.Get(key).([]*toml.Tree)
	if !ok {
		return nil
	}
	lines := make([]int, len(tables))
	for i, t := range tables {
		lines[i] = t.Position().Line
	}
	return lines
}

func lineAt(lines []int, i int) int {
	if i >= len(lines) {
		return 0
	}
	return lines[i]
}
