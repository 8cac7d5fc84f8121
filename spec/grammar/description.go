package grammar

import (
	"github.com/cnf/structhash"
)

type Terminal struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	Precedence    int    `json:"prec"`
	Associativity string `json:"assoc"`
}

type NonTerminal struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Nullable bool   `json:"nullable"`
}

type Production struct {
	Number        int    `json:"number"`
	LHS           int    `json:"lhs"`
	RHS           []int  `json:"rhs"`
	Precedence    int    `json:"prec"`
	Associativity string `json:"assoc"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead   []int `json:"look_ahead"`
	NotSelected []int `json:"not_selected"`
	Production  int   `json:"production"`
}

// SRConflict is a shift/reduce conflict that precedences could not resolve.
type SRConflict struct {
	Symbol     int `json:"symbol"`
	State      int `json:"state"`
	Production int `json:"production"`
}

// RRConflict is a reduce/reduce conflict. Reduce/reduce conflicts are never resolved by precedences.
type RRConflict struct {
	Symbol      int `json:"symbol"`
	Production1 int `json:"production_1"`
	Production2 int `json:"production_2"`
}

type ResolvedConflict struct {
	Symbol         int    `json:"symbol"`
	Production     int    `json:"production"`
	Which          string `json:"which"`
	SamePrecedence bool   `json:"same_prec"`
	Message        string `json:"message"`
}

type State struct {
	Number           int                 `json:"number"`
	Isocore          int                 `json:"isocore"`
	Kernel           []*Item             `json:"kernel"`
	Shift            []*Transition       `json:"shift"`
	Reduce           []*Reduce           `json:"reduce"`
	GoTo             []*Transition       `json:"goto"`
	DefaultReduction *int                `json:"default_reduction"`
	SRConflict       []*SRConflict       `json:"sr_conflict"`
	RRConflict       []*RRConflict       `json:"rr_conflict"`
	ResolvedConflict []*ResolvedConflict `json:"resolved_conflict"`
}

type Report struct {
	Name         string         `json:"name"`
	Algorithm    string         `json:"algorithm"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}

// SymbolName returns the name of a terminal or non-terminal symbol by its number.
func (r *Report) SymbolName(num int) (string, bool) {
	for _, t := range r.Terminals {
		if t.Number == num {
			return t.Name, true
		}
	}
	for _, n := range r.NonTerminals {
		if n.Number == num {
			return n.Name, true
		}
	}
	return "", false
}

// ConflictCounts returns the number of unresolved shift/reduce and reduce/reduce conflicts.
func (r *Report) ConflictCounts() (int, int) {
	var sr, rr int
	for _, s := range r.States {
		sr += len(s.SRConflict)
		rr += len(s.RRConflict)
	}
	return sr, rr
}

// Fingerprint returns a digest of the report. Two builds of the same grammar yield the same
// fingerprint.
func (r *Report) Fingerprint() (string, error) {
	return structhash.Hash(r, 1)
}
