package automaton

import (
	"fmt"

	"github.com/nihei9/ielr/grammar/symbol"
)

// genLR0States generates the LR(0) state graph. States are numbered in the order they are found:
// the initial state first, then the successors of each state in the order of their symbols.
func (a *Automaton) genLR0States() error {
	startProd := a.gram.AugmentedStartProduction()
	if startProd == nil {
		return fmt.Errorf("the grammar has no augmented start production")
	}
	initialItem, err := newItem(startProd, 0)
	if err != nil {
		return err
	}
	k, err := newKernel([]Item{initialItem})
	if err != nil {
		return err
	}

	knownKernels := map[kernelID]stateNum{}
	initial, err := a.appendLR0State(nil, k)
	if err != nil {
		return err
	}
	knownKernels[k.id] = initial.num

	unchecked := []*State{initial}
	for len(unchecked) > 0 {
		nextUnchecked := []*State{}
		for _, state := range unchecked {
			for _, sh := range state.shifts {
				n, known := knownKernels[sh.nextItems.id]
				if !known {
					next, err := a.appendLR0State(sh.nextSym, sh.nextItems)
					if err != nil {
						return err
					}
					n = next.num
					knownKernels[sh.nextItems.id] = n
					nextUnchecked = append(nextUnchecked, next)
				}
				state.updateTransition(sh, a.states[n])
			}
		}
		unchecked = nextUnchecked
	}

	return nil
}

func (a *Automaton) appendLR0State(accessingSym *symbol.Symbol, k *kernel) (*State, error) {
	closure, err := genClosure(a.gram, k)
	if err != nil {
		return nil, err
	}
	state, err := newState(a, stateNum(len(a.states)), accessingSym, k, closure)
	if err != nil {
		return nil, err
	}
	state.isocores = &isocoreGroup{
		members: []stateNum{state.num},
	}
	a.states = append(a.states, state)
	return state, nil
}
