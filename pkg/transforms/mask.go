package transforms

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

// Mask inlines the spreads marked @relay(mask: false), so the parent reads the fragment's
// data as its own. The variables of an unmasked fragment, its local arguments with their
// defaults and the global variables it uses, become global variables of the parent:
// variable definitions of an operation, used global variables of a fragment. A variable
// joined with two different types is a conflict. Unmasked spreads cannot pass arguments.
func Mask(program *ir.Program) (*ir.Program, error) {
	t := &maskTransform{
		program:    program,
		unmasked:   make(map[intern.StringKey]*unmaskedFragment),
		inProgress: intern.StringKeySet{},
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	out := t.TransformProgram(program)
	return finish(out, &t.report)
}

type unmaskedFragment struct {
	selections []ir.Selection
	variables  ir.VariableDefinitions
}

type maskTransform struct {
	*irvisitor.Transformer
	program    *ir.Program
	unmasked   map[intern.StringKey]*unmaskedFragment
	inProgress intern.StringKeySet
	// reachable are the variables of the fragments unmasked in the definition being transformed.
	reachable ir.VariableDefinitions
	report    operationreport.Report
}

func isUnmasked(spread *ir.FragmentSpread) bool {
	directive, ok := spread.Directives.Named(literal.RELAY)
	if !ok {
		return false
	}
	argument, ok := directive.Arguments.Named(literal.MASK)
	if !ok {
		return false
	}
	mask, ok := ir.ConstantBool(argument.Value)
	return ok && !mask
}

func (t *maskTransform) TransformOperation(operation *ir.Operation) irvisitor.Transformed[*ir.Operation] {
	t.reachable = nil
	result := t.DefaultTransformOperation(operation)
	if len(t.reachable) == 0 {
		return result
	}
	current := result.Or(operation)
	definitions, changed := t.join(current.VariableDefinitions, t.reachable)
	if !changed {
		return result
	}
	next := *current
	next.VariableDefinitions = definitions
	return irvisitor.Replace(&next)
}

func (t *maskTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	t.reachable = nil
	result := t.DefaultTransformFragment(fragment)
	if len(t.reachable) == 0 {
		return result
	}
	current := result.Or(fragment)
	for _, variable := range t.reachable {
		if local, ok := current.VariableDefinitions.Named(variable.Name.Item); ok {
			t.checkCompatible(local, variable)
		}
	}
	used, changed := t.join(current.UsedGlobalVariables, t.reachable)
	if !changed {
		return result
	}
	next := *current
	next.UsedGlobalVariables = used
	return irvisitor.Replace(&next)
}

func (t *maskTransform) TransformFragmentSpread(spread *ir.FragmentSpread) irvisitor.Transformed[ir.Selection] {
	if !isUnmasked(spread) {
		return irvisitor.Keep[ir.Selection]()
	}
	fragment, ok := t.program.Fragment(spread.Fragment.Item)
	if !ok {
		return irvisitor.Keep[ir.Selection]()
	}
	if len(spread.Arguments) != 0 {
		t.report.AddDiagnostic(operationreport.ErrUnmaskWithArguments(fragment.Name.Item, spread.Fragment.Loc))
		return irvisitor.Keep[ir.Selection]()
	}

	unmasked := t.unmask(fragment)
	t.reachable, _ = t.join(t.reachable, unmasked.variables)
	return irvisitor.Replace[ir.Selection](&ir.InlineFragment{
		TypeCondition: fragment.TypeCondition,
		Directives:    spread.Directives.Without(literal.RELAY),
		Selections:    unmasked.selections,
		Location:      spread.Fragment.Loc,
	})
}

// unmask transforms the body of fragment once and collects its variables.
func (t *maskTransform) unmask(fragment *ir.Fragment) *unmaskedFragment {
	name := fragment.Name.Item
	if cached, ok := t.unmasked[name]; ok {
		return cached
	}
	if t.inProgress.Contains(name) {
		panic(fmt.Sprintf("mask: fragment %s unmasks itself", name))
	}
	t.inProgress.Add(name)

	outer := t.reachable
	t.reachable = nil
	selections := t.WalkSelections(fragment.Selections).Or(fragment.Selections)
	nested := t.reachable
	t.reachable = outer
	delete(t.inProgress, name)

	variables, _ := t.join(nil, fragment.VariableDefinitions)
	variables, _ = t.join(variables, fragment.UsedGlobalVariables)
	variables, _ = t.join(variables, nested)

	unmasked := &unmaskedFragment{selections: selections, variables: variables}
	t.unmasked[name] = unmasked
	return unmasked
}

// join returns existing followed by the additions it does not define yet. existing is never
// written to.
func (t *maskTransform) join(existing, additions ir.VariableDefinitions) (ir.VariableDefinitions, bool) {
	out := existing
	changed := false
	for _, addition := range additions {
		if prior, ok := out.Named(addition.Name.Item); ok {
			t.checkCompatible(prior, addition)
			continue
		}
		if !changed {
			out = append(make(ir.VariableDefinitions, 0, len(existing)+len(additions)), existing...)
			changed = true
		}
		out = append(out, addition)
	}
	return out, changed
}

func (t *maskTransform) checkCompatible(prior, addition *ir.VariableDefinition) {
	if prior == addition || prior.Type == nil || addition.Type == nil {
		return
	}
	if !ir.TypeReferencesEqual(prior.Type, addition.Type) {
		t.report.AddDiagnostic(operationreport.ErrUnmaskArgumentConflict(addition.Name.Item, prior.Name.Loc, addition.Name.Loc))
	}
}
