package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/scope"
)

// ValidateGlobalVariables reports variables an operation uses without defining them, including
// variables used by the fragments it spreads, and spread arguments the fragment does not declare.
//
// Inside a fragment a variable refers to the fragment's local argument of that name, otherwise
// to a variable of the operation the fragment is spread into.
func ValidateGlobalVariables(program *ir.Program) error {
	v := &globalVariableVisitor{
		program:          program,
		reportedSpreadAt: make(map[ir.Location]bool),
	}
	v.Walker = irvisitor.NewWalker(v)
	for _, operation := range program.Operations() {
		v.operation = operation
		v.scope = scope.Root(operation)
		v.active = intern.StringKeySet{}
		v.undefined = make(map[intern.StringKey][]ir.Location)
		v.undefinedOrder = v.undefinedOrder[:0]

		v.WalkOperation(operation)

		for _, name := range v.undefinedOrder {
			v.report.AddDiagnostic(operationreport.ErrUndefinedVariable(operation.Name.Item, name, v.undefined[name]...))
		}
	}
	return v.report.Err()
}

type globalVariableVisitor struct {
	*irvisitor.Walker
	program   *ir.Program
	operation *ir.Operation
	scope     *scope.Scope
	// active holds the fragments currently being visited.
	active           intern.StringKeySet
	undefined        map[intern.StringKey][]ir.Location
	undefinedOrder   []intern.StringKey
	reportedSpreadAt map[ir.Location]bool
	report           operationreport.Report
}

func (v *globalVariableVisitor) VisitVariable(variable *ir.Variable) {
	name := variable.Name.Item
	if _, ok := v.scope.Lookup(name); ok {
		return
	}
	if _, ok := v.operation.VariableDefinitions.Named(name); ok {
		return
	}
	if _, seen := v.undefined[name]; !seen {
		v.undefinedOrder = append(v.undefinedOrder, name)
	}
	v.undefined[name] = append(v.undefined[name], variable.Name.Loc)
}

func (v *globalVariableVisitor) VisitFragmentSpread(spread *ir.FragmentSpread) {
	// arguments are evaluated where the spread is, before the fragment's frame is pushed
	v.DefaultVisitFragmentSpread(spread)

	name := spread.Fragment.Item
	fragment, ok := v.program.Fragment(name)
	if !ok {
		return
	}
	if !v.reportedSpreadAt[spread.Fragment.Loc] {
		for _, argument := range spread.Arguments {
			if _, declared := fragment.VariableDefinitions.Named(argument.Name.Item); !declared {
				v.reportedSpreadAt[spread.Fragment.Loc] = true
				v.report.AddDiagnostic(operationreport.ErrUnknownFragmentArgument(name, argument.Name.Item, argument.Name.Loc))
			}
		}
	}
	if v.active.Contains(name) {
		return
	}
	v.active.Add(name)
	v.scope.Within(spread.Fragment.Loc, fragment.VariableDefinitions, spread.Arguments, func() {
		v.WalkSelections(fragment.Selections)
	})
	delete(v.active, name)
}
