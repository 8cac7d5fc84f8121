package automaton

import (
	"fmt"

	"github.com/nihei9/ielr/grammar"
)

const (
	// defaultSplitLimitFactor bounds the states IELR(1) may add, relative to the LALR(1) state count.
	defaultSplitLimitFactor = 64
	minSplitLimit           = 1024
)

type buildConfig struct {
	algorithm  grammar.Algorithm
	splitLimit int
}

type BuildOption func(config *buildConfig)

// WithAlgorithm overrides the algorithm the grammar declares.
func WithAlgorithm(algorithm grammar.Algorithm) BuildOption {
	return func(config *buildConfig) {
		config.algorithm = algorithm
	}
}

// WithSplitLimit sets the maximum number of states IELR(1) splitting may add. A non-positive limit
// selects a default proportional to the LALR(1) state count.
func WithSplitLimit(limit int) BuildOption {
	return func(config *buildConfig) {
		config.splitLimit = limit
	}
}

type Automaton struct {
	gram      *grammar.Grammar
	algorithm grammar.Algorithm
	states    []*State

	lalrStateCount int
	splitLimit     int
	splitCount     int
}

// Build constructs the automaton of a grammar. Conflicts are not errors; they are reported through
// the states. An error means the construction itself failed.
func Build(gram *grammar.Grammar, opts ...BuildOption) (a *Automaton, retErr error) {
	config := &buildConfig{
		algorithm: gram.Algorithm(),
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.algorithm == "" {
		config.algorithm = grammar.AlgorithmLALR
	}
	if !config.algorithm.IsValid() {
		return nil, fmt.Errorf("unknown algorithm: %v", config.algorithm)
	}

	defer func() {
		if v := recover(); v != nil {
			a = nil
			retErr = recoverBuildError(v)
			tracer().Errorf("failed to build the automaton of %v: %v", gram.Name(), retErr)
		}
	}()

	a = &Automaton{
		gram:      gram,
		algorithm: config.algorithm,
	}

	err := a.genLR0States()
	if err != nil {
		return nil, err
	}
	a.lalrStateCount = len(a.states)
	tracer().Infof("LR(0) states of %v: %v", gram.Name(), len(a.states))

	a.computeLookAheadSets()
	a.computeConflicts()
	a.computeDefaultReductions()
	tracer().Infof("LALR(1) conflicts of %v: %v shift/reduce, %v reduce/reduce", gram.Name(), a.SRConflictCount(), a.RRConflictCount())

	if a.algorithm == grammar.AlgorithmIELR {
		a.splitLimit = config.splitLimit
		if a.splitLimit <= 0 {
			a.splitLimit = a.lalrStateCount * defaultSplitLimitFactor
			if a.splitLimit < minSplitLimit {
				a.splitLimit = minSplitLimit
			}
		}
		err := a.computeIELR()
		if err != nil {
			return nil, err
		}
		tracer().Infof("IELR(1) states of %v: %v (%v split)", gram.Name(), len(a.states), len(a.states)-a.lalrStateCount)
	}

	return a, nil
}

func (a *Automaton) computeIELR() error {
	for _, s := range a.states {
		s.clearConflicts()
		s.itemLookaheadSet()
	}
	a.computeInadequacyAnnotations()
	tracer().Debugf("split limit: %v", a.splitLimit)
	err := a.splitStates()
	if err != nil {
		return err
	}
	a.removeUnreachableStates()

	for _, s := range a.states {
		s.clearTransitionCaches()
		s.itemLookaheads = nil
		for _, r := range s.reduces {
			r.lookAhead = nil
		}
	}
	a.computeLookAheadSets()
	a.computeConflicts()
	a.computeDefaultReductions()
	return nil
}

// computeLookAheadSets attaches look-ahead sets to all reduces. A reduce of a kernel item takes the
// look-ahead of the item; a reduce of an empty rule takes what follows its LHS in the state.
func (a *Automaton) computeLookAheadSets() {
	for _, s := range a.states {
		for _, r := range s.reduces {
			if r.item.isKernel() {
				r.lookAhead = s.itemLookahead(r.item).clone()
				continue
			}
			r.lookAhead = s.gotoFollowSet(r.item.LHS())
		}
	}
}

func (a *Automaton) computeConflicts() {
	for _, s := range a.states {
		s.computeShiftReduceConflicts()
		s.computeReduceReduceConflicts()
	}
}

func (a *Automaton) computeDefaultReductions() {
	for _, s := range a.states {
		s.computeDefaultReduction()
	}
}

func (a *Automaton) Grammar() *grammar.Grammar {
	return a.gram
}

func (a *Automaton) Algorithm() grammar.Algorithm {
	return a.algorithm
}

// States returns the states ordered by their numbers.
func (a *Automaton) States() []*State {
	return a.states
}

func (a *Automaton) State(id int) (*State, bool) {
	if id < 0 || id >= len(a.states) {
		return nil, false
	}
	return a.states[id], true
}

func (a *Automaton) InitialState() *State {
	return a.states[stateNumInitial]
}

// LALRStateCount returns the number of states before IELR(1) splitting.
func (a *Automaton) LALRStateCount() int {
	return a.lalrStateCount
}

func (a *Automaton) SRConflictCount() int {
	n := 0
	for _, s := range a.states {
		n += len(s.SRConflicts())
	}
	return n
}

func (a *Automaton) RRConflictCount() int {
	n := 0
	for _, s := range a.states {
		n += len(s.RRConflicts())
	}
	return n
}
