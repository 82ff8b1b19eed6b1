package transforms

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/scope"
)

// ApplyFragmentArguments removes fragment-local arguments. Every spread of a fragment with
// local arguments becomes a spread of a copy of the fragment specialized for the bound values,
// named <Fragment>_<hash of the bindings>, with every local variable replaced by its value.
// Spreads binding the same values share one specialization.
//
// The result holds the operations and the fragments they reach. Global variables stay as
// they are.
func ApplyFragmentArguments(program *ir.Program) (*ir.Program, error) {
	t := &fragmentArgumentsTransform{
		program:    program,
		fragments:  make(map[intern.StringKey]*ir.Fragment),
		inProgress: intern.StringKeySet{},
	}
	t.Transformer = irvisitor.NewTransformer(t)

	out := program.CloneWithoutDefinitions()
	for _, operation := range program.Operations() {
		t.scope = scope.Root(operation)
		out.InsertOperation(t.WalkOperation(operation).Or(operation))
	}
	for _, fragment := range t.fragments {
		out.InsertFragment(fragment)
	}
	return finish(out, &t.report)
}

type fragmentArgumentsTransform struct {
	*irvisitor.Transformer
	program *ir.Program
	scope   *scope.Scope
	// fragments are the fragments reached so far, by output name.
	fragments  map[intern.StringKey]*ir.Fragment
	inProgress intern.StringKeySet
	report     operationreport.Report
}

func (t *fragmentArgumentsTransform) TransformValue(value ir.Value) irvisitor.Transformed[ir.Value] {
	variable, ok := value.(*ir.Variable)
	if !ok {
		return t.DefaultTransformValue(value)
	}
	binding, ok := t.scope.Lookup(variable.Name.Item)
	if !ok {
		return irvisitor.Keep[ir.Value]()
	}
	if bound, isVariable := binding.(*ir.Variable); isVariable && bound.Name.Item == variable.Name.Item {
		return irvisitor.Keep[ir.Value]()
	}
	return irvisitor.Replace(binding)
}

func (t *fragmentArgumentsTransform) TransformFragmentSpread(spread *ir.FragmentSpread) irvisitor.Transformed[ir.Selection] {
	fragment, ok := t.program.Fragment(spread.Fragment.Item)
	if !ok {
		return irvisitor.Keep[ir.Selection]()
	}
	// arguments are resolved in the scope of the spread, before the fragment's frame is pushed
	arguments := t.TransformArguments(spread.Arguments).Or(spread.Arguments)
	directives := t.TransformDirectives(spread.Directives)

	var applied *ir.Fragment
	t.scope.Within(spread.Fragment.Loc, fragment.VariableDefinitions, arguments, func() {
		name := fragment.Name.Item
		if len(fragment.VariableDefinitions) != 0 {
			frame, _ := t.scope.Top()
			name = specializedName(fragment, frame.Bindings)
		}
		applied = t.apply(fragment, name)
	})

	if applied.Name.Item == spread.Fragment.Item && len(spread.Arguments) == 0 && directives.IsKeep() {
		return irvisitor.Keep[ir.Selection]()
	}
	return irvisitor.Replace[ir.Selection](&ir.FragmentSpread{
		Fragment:   ir.WithLocation{Item: applied.Name.Item, Loc: spread.Fragment.Loc},
		Directives: directives.Or(spread.Directives),
	})
}

// apply returns fragment with its body resolved in the current frame, stored under name.
func (t *fragmentArgumentsTransform) apply(fragment *ir.Fragment, name intern.StringKey) *ir.Fragment {
	if applied, ok := t.fragments[name]; ok {
		return applied
	}
	if t.inProgress.Contains(name) {
		panic(fmt.Sprintf("apply fragment arguments: fragment %s spreads itself", name))
	}
	t.inProgress.Add(name)
	defer delete(t.inProgress, name)

	selections := t.WalkSelections(fragment.Selections)
	directives := t.TransformDirectives(fragment.Directives)
	if name == fragment.Name.Item && len(fragment.VariableDefinitions) == 0 && selections.IsKeep() && directives.IsKeep() {
		t.fragments[name] = fragment
		return fragment
	}

	next := *fragment
	next.Name = ir.WithLocation{Item: name, Loc: fragment.Name.Loc}
	next.VariableDefinitions = nil
	next.Selections = selections.Or(fragment.Selections)
	next.Directives = directives.Or(fragment.Directives)
	next.UsedGlobalVariables = usedGlobalVariables(fragment, next.Selections)
	t.fragments[name] = &next
	return &next
}

// usedGlobalVariables lists the variables referenced by selections, keeping the definitions
// fragment already records.
func usedGlobalVariables(fragment *ir.Fragment, selections []ir.Selection) ir.VariableDefinitions {
	variables := collectVariables(selections)
	if len(variables) == 0 {
		return nil
	}
	out := make(ir.VariableDefinitions, 0, len(variables))
	for _, variable := range variables {
		if known, ok := fragment.UsedGlobalVariables.Named(variable.Name.Item); ok {
			out = append(out, known)
			continue
		}
		out = append(out, &ir.VariableDefinition{Name: variable.Name, Type: variable.Type})
	}
	return out
}

// specializedName derives the name of fragment specialized for bindings. Equal bindings
// give equal names.
func specializedName(fragment *ir.Fragment, bindings map[intern.StringKey]ir.Value) intern.StringKey {
	digest := xxhash.New()
	for _, definition := range fragment.VariableDefinitions {
		_, _ = digest.WriteString(definition.Name.Item.String())
		_, _ = digest.WriteString("=")
		_, _ = digest.WriteString(irprinter.ValueString(bindings[definition.Name.Item]))
		_, _ = digest.WriteString(";")
	}
	return intern.Intern(fmt.Sprintf("%s_%016x", fragment.Name.Item, digest.Sum64()))
}
