// Package transforms holds the validations and rewrites applied to a program before it is
// printed or handed to code generators.
//
// Rewrites take a program and return a new one that shares every unchanged definition with
// the input. Validations return the diagnostics they found. In both cases problems in the
// user's documents are returned as operationreport.Diagnostics, broken invariants of the
// compiler itself panic.
package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

func finish(program *ir.Program, report *operationreport.Report) (*ir.Program, error) {
	if report.HasErrors() {
		return nil, report.Err()
	}
	return program, nil
}

// spreadCollector gathers the spreads of a selection list without following them.
// Every fragment name is collected once, at its first spread.
type spreadCollector struct {
	*irvisitor.Walker
	seen    intern.StringKeySet
	spreads []*ir.FragmentSpread
}

func collectSpreads(selections []ir.Selection) []*ir.FragmentSpread {
	c := &spreadCollector{seen: intern.StringKeySet{}}
	c.Walker = irvisitor.NewWalker(c, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	c.WalkSelections(selections)
	return c.spreads
}

func (c *spreadCollector) VisitFragmentSpread(spread *ir.FragmentSpread) {
	if c.seen.Contains(spread.Fragment.Item) {
		return
	}
	c.seen.Add(spread.Fragment.Item)
	c.spreads = append(c.spreads, spread)
}

// variableCollector gathers the variables referenced in a selection list, in order of first use.
type variableCollector struct {
	*irvisitor.Walker
	seen      intern.StringKeySet
	variables []*ir.Variable
}

func collectVariables(selections []ir.Selection) []*ir.Variable {
	c := &variableCollector{seen: intern.StringKeySet{}}
	c.Walker = irvisitor.NewWalker(c)
	c.WalkSelections(selections)
	return c.variables
}

func (c *variableCollector) VisitVariable(variable *ir.Variable) {
	if c.seen.Contains(variable.Name.Item) {
		return
	}
	c.seen.Add(variable.Name.Item)
	c.variables = append(c.variables, variable)
}

func appendSelection(selections []ir.Selection, selection ir.Selection) []ir.Selection {
	out := make([]ir.Selection, 0, len(selections)+1)
	out = append(out, selections...)
	return append(out, selection)
}

func prependSelection(selections []ir.Selection, selection ir.Selection) []ir.Selection {
	out := make([]ir.Selection, 0, len(selections)+1)
	out = append(out, selection)
	return append(out, selections...)
}
