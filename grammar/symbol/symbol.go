package symbol

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// SymbolNum is a symbol number. Terminals are numbered first, starting with the EOF symbol,
// and non-terminals follow them.
type SymbolNum int

func (n SymbolNum) Int() int {
	return int(n)
}

type AssocType string

const (
	AssocTypeNil        = AssocType("")
	AssocTypeLeft       = AssocType("left")
	AssocTypeRight      = AssocType("right")
	AssocTypeNonAssoc   = AssocType("nonassoc")
	AssocTypePrecedence = AssocType("precedence")
)

func (t AssocType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the associativity kinds a precedence declaration can have.
func (t AssocType) IsValid() bool {
	switch t {
	case AssocTypeLeft, AssocTypeRight, AssocTypeNonAssoc, AssocTypePrecedence:
		return true
	}
	return false
}

// Precedence is a precedence level and an associativity. A greater level binds tighter.
type Precedence struct {
	Level int
	Assoc AssocType
}

func (p *Precedence) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%%%v %v", p.Assoc, p.Level)
}

const (
	// These names contain `$` to avoid conflicting with user-defined symbols.
	SymbolNameEOF       = "$end"
	SymbolNameUndefined = "$undefined"
	SymbolNameAccept    = "$accept"

	SymbolNameError = "error"
)

type Symbol struct {
	num      SymbolNum
	name     string
	kind     symbolKind
	prec     *Precedence
	nullable bool
}

func (s *Symbol) String() string {
	return s.name
}

func (s *Symbol) Num() SymbolNum {
	return s.num
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) IsTerminal() bool {
	return s.kind == symbolKindTerminal
}

func (s *Symbol) IsNonTerminal() bool {
	return s.kind == symbolKindNonTerminal
}

// Precedence returns nil when the symbol has no declared precedence.
func (s *Symbol) Precedence() *Precedence {
	return s.prec
}

// IsNullable reports whether the symbol derives the empty string. It is always false for terminals.
func (s *Symbol) IsNullable() bool {
	return s.nullable
}

func (s *Symbol) IsEOF() bool {
	return s.num == symbolNumEOF
}

func (s *Symbol) IsError() bool {
	return s.num == symbolNumError
}

func (s *Symbol) IsAccept() bool {
	return s.kind == symbolKindNonTerminal && s.name == SymbolNameAccept
}

const (
	symbolNumEOF       = SymbolNum(0)
	symbolNumError     = SymbolNum(1)
	symbolNumUndefined = SymbolNum(2)
)

type SymbolTable struct {
	text2Sym map[string]*Symbol
	terms    []*Symbol
	nonTerms []*Symbol
	frozen   bool
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

// NewSymbolTable returns a table holding the reserved symbols: `$end`, `error`, and `$undefined` as
// terminals and `$accept` as the first non-terminal.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{
		text2Sym: map[string]*Symbol{},
	}
	for _, name := range []string{SymbolNameEOF, SymbolNameError, SymbolNameUndefined} {
		sym := &Symbol{
			num:  SymbolNum(len(t.terms)),
			name: name,
			kind: symbolKindTerminal,
		}
		t.text2Sym[name] = sym
		t.terms = append(t.terms, sym)
	}
	acc := &Symbol{
		name: SymbolNameAccept,
		kind: symbolKindNonTerminal,
	}
	t.text2Sym[acc.name] = acc
	t.nonTerms = append(t.nonTerms, acc)
	return t
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (*Symbol, error) {
	if w.frozen {
		return nil, fmt.Errorf("symbol table is already frozen")
	}
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsTerminal() {
			return nil, fmt.Errorf("%v is already registered as a %v symbol", text, sym.kind)
		}
		return sym, nil
	}
	sym := &Symbol{
		num:  SymbolNum(len(w.terms)),
		name: text,
		kind: symbolKindTerminal,
	}
	w.text2Sym[text] = sym
	w.terms = append(w.terms, sym)
	return sym, nil
}

// RegisterNonTerminalSymbol registers a non-terminal symbol. The symbol gets its number when the
// table is frozen because non-terminals are numbered after all terminals.
func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (*Symbol, error) {
	if w.frozen {
		return nil, fmt.Errorf("symbol table is already frozen")
	}
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return nil, fmt.Errorf("%v is already registered as a %v symbol", text, sym.kind)
		}
		return sym, nil
	}
	sym := &Symbol{
		name: text,
		kind: symbolKindNonTerminal,
	}
	w.text2Sym[text] = sym
	w.nonTerms = append(w.nonTerms, sym)
	return sym, nil
}

func (w *SymbolTableWriter) SetPrecedence(sym *Symbol, prec *Precedence) error {
	if !sym.IsTerminal() {
		return fmt.Errorf("precedence can be declared only for terminal symbols: %v", sym)
	}
	if sym.prec != nil {
		return fmt.Errorf("precedence of %v is already declared", sym)
	}
	if prec == nil || !prec.Assoc.IsValid() {
		return fmt.Errorf("invalid precedence for %v: %v", sym, prec)
	}
	sym.prec = prec
	return nil
}

func (w *SymbolTableWriter) SetNullable(sym *Symbol) {
	if sym.IsNonTerminal() {
		sym.nullable = true
	}
}

// Freeze numbers the non-terminal symbols. No symbol can be registered afterwards.
func (w *SymbolTableWriter) Freeze() {
	if w.frozen {
		return
	}
	base := len(w.terms)
	for i, sym := range w.nonTerms {
		sym.num = SymbolNum(base + i)
	}
	w.frozen = true
}

func (r *SymbolTableReader) ToSymbol(text string) (*Symbol, bool) {
	sym, ok := r.text2Sym[text]
	return sym, ok
}

func (r *SymbolTableReader) ToText(num SymbolNum) (string, bool) {
	sym, ok := r.BySymbolNum(num)
	if !ok {
		return "", false
	}
	return sym.name, true
}

func (r *SymbolTableReader) BySymbolNum(num SymbolNum) (*Symbol, bool) {
	n := num.Int()
	if n < 0 {
		return nil, false
	}
	if n < len(r.terms) {
		return r.terms[n], true
	}
	n -= len(r.terms)
	if !r.frozen || n >= len(r.nonTerms) {
		return nil, false
	}
	return r.nonTerms[n], true
}

func (r *SymbolTableReader) EOF() *Symbol {
	return r.terms[symbolNumEOF]
}

func (r *SymbolTableReader) Error() *Symbol {
	return r.terms[symbolNumError]
}

func (r *SymbolTableReader) Undefined() *Symbol {
	return r.terms[symbolNumUndefined]
}

func (r *SymbolTableReader) Accept() *Symbol {
	return r.nonTerms[0]
}

// TerminalSymbols returns the terminal symbols sorted by their numbers.
func (r *SymbolTableReader) TerminalSymbols() []*Symbol {
	syms := make([]*Symbol, len(r.terms))
	copy(syms, r.terms)
	return syms
}

// NonTerminalSymbols returns the non-terminal symbols sorted by their numbers.
func (r *SymbolTableReader) NonTerminalSymbols() []*Symbol {
	syms := make([]*Symbol, len(r.nonTerms))
	copy(syms, r.nonTerms)
	sort.SliceStable(syms, func(i, j int) bool {
		return syms[i].num < syms[j].num
	})
	return syms
}

func (r *SymbolTableReader) TerminalCount() int {
	return len(r.terms)
}

func (r *SymbolTableReader) NonTerminalCount() int {
	return len(r.nonTerms)
}

func (r *SymbolTableReader) Count() int {
	return len(r.terms) + len(r.nonTerms)
}
