package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName       = newSemanticError("name is missing")
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrUndefinedStart      = newSemanticError("start symbol has no production")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrReservedName        = newSemanticError("reserved symbol name")
	semErrPrecOnNonTerminal   = newSemanticError("precedence can be declared only for terminal symbols")
	semErrPrecRedefined       = newSemanticError("precedence is already declared")
	semErrInvalidAssoc        = newSemanticError("invalid associativity")
	semErrPrecSymNotTerminal  = newSemanticError("%prec takes a terminal symbol")
	semErrInvalidAlgorithm    = newSemanticError("invalid algorithm")
	semErrUnusedNonTerminal   = newSemanticError("unused non-terminal")
)
