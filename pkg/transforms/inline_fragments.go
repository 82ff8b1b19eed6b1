package transforms

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
)

// InlineFragments replaces every fragment spread by an inline fragment with the fragment's
// type condition and selections. The result holds the operations only. Spread arguments are
// dropped, ApplyFragmentArguments has to run first for fragments with local arguments.
func InlineFragments(program *ir.Program) (*ir.Program, error) {
	t := &inlineFragmentsTransform{
		program:    program,
		inlined:    make(map[intern.StringKey][]ir.Selection),
		inProgress: intern.StringKeySet{},
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))

	out := program.CloneWithoutDefinitions()
	for _, operation := range program.Operations() {
		out.InsertOperation(t.WalkOperation(operation).Or(operation))
	}
	return out, nil
}

type inlineFragmentsTransform struct {
	*irvisitor.Transformer
	program    *ir.Program
	inlined    map[intern.StringKey][]ir.Selection
	inProgress intern.StringKeySet
}

func (t *inlineFragmentsTransform) TransformFragmentSpread(spread *ir.FragmentSpread) irvisitor.Transformed[ir.Selection] {
	fragment, ok := t.program.Fragment(spread.Fragment.Item)
	if !ok {
		panic(fmt.Sprintf("inline fragments: fragment %s not found", spread.Fragment.Item))
	}
	return irvisitor.Replace[ir.Selection](&ir.InlineFragment{
		TypeCondition: fragment.TypeCondition,
		Directives:    serverDirectives(spread.Directives),
		Selections:    t.inline(fragment),
		Location:      spread.Fragment.Loc,
	})
}

func (t *inlineFragmentsTransform) inline(fragment *ir.Fragment) []ir.Selection {
	name := fragment.Name.Item
	if selections, ok := t.inlined[name]; ok {
		return selections
	}
	if t.inProgress.Contains(name) {
		panic(fmt.Sprintf("inline fragments: fragment %s spreads itself", name))
	}
	t.inProgress.Add(name)
	selections := t.WalkSelections(fragment.Selections).Or(fragment.Selections)
	delete(t.inProgress, name)
	t.inlined[name] = selections
	return selections
}

// serverDirectives drops the compiler directives of a spread, such as @relay(mask: false).
func serverDirectives(directives ir.Directives) ir.Directives {
	var out ir.Directives
	for _, directive := range directives {
		if !literal.CompilerDirectives.Contains(directive.Name.Item) {
			out = append(out, directive)
		}
	}
	return out
}
