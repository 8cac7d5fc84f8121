package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	verr "github.com/nihei9/ielr/error"
	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/automaton"
	spec "github.com/nihei9/ielr/spec/grammar"
)

// grammarSource locates a grammar declaration. When no path is given, the declaration is read from
// stdin and saved to a temporary file so that error messages can quote the source.
type grammarSource struct {
	path       string
	sourceName string
	tmpDirPath string
}

func openGrammarSource(args []string) (*grammarSource, error) {
	if len(args) > 0 {
		return &grammarSource{
			path:       args[0],
			sourceName: args[0],
		}, nil
	}

	tmpDirPath, err := os.MkdirTemp("", "ielr-*")
	if err != nil {
		return nil, err
	}
	src, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	path := filepath.Join(tmpDirPath, "stdin.toml")
	err = ioutil.WriteFile(path, src, 0600)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	return &grammarSource{
		path:       path,
		sourceName: "stdin",
		tmpDirPath: tmpDirPath,
	}, nil
}

func (s *grammarSource) close() {
	if s.tmpDirPath == "" {
		return
	}
	os.RemoveAll(s.tmpDirPath)
}

// annotate records the source file in SpecErrors.
func (s *grammarSource) annotate(err error) {
	specErrs, ok := err.(verr.SpecErrors)
	if !ok {
		return
	}
	for _, e := range specErrs {
		e.FilePath = s.path
		e.SourceName = s.sourceName
	}
}

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	decl, err := spec.ParseDeclaration(f)
	if err != nil {
		return nil, err
	}
	return grammar.NewGrammarFromDeclaration(decl)
}

func buildOptions(algorithm string, splitLimit int) ([]automaton.BuildOption, error) {
	var opts []automaton.BuildOption
	if algorithm != "" {
		a := grammar.Algorithm(algorithm)
		if !a.IsValid() {
			return nil, fmt.Errorf("invalid algorithm: %v (lalr|ielr)", algorithm)
		}
		opts = append(opts, automaton.WithAlgorithm(a))
	}
	if splitLimit > 0 {
		opts = append(opts, automaton.WithSplitLimit(splitLimit))
	}
	return opts, nil
}

// buildAutomaton reads a grammar and builds its automaton.
func buildAutomaton(src *grammarSource, algorithm string, splitLimit int) (a *automaton.Automaton, retErr error) {
	defer func() {
		if retErr != nil {
			src.annotate(retErr)
		}
	}()

	opts, err := buildOptions(algorithm, splitLimit)
	if err != nil {
		return nil, err
	}
	gram, err := readGrammar(src.path)
	if err != nil {
		return nil, err
	}
	return automaton.Build(gram, opts...)
}

func buildReport(src *grammarSource, algorithm string, splitLimit int) (*spec.Report, error) {
	a, err := buildAutomaton(src, algorithm, splitLimit)
	if err != nil {
		return nil, err
	}
	return a.GenReport(), nil
}
