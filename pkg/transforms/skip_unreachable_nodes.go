package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
)

// SkipUnreachableNodes resolves conditions on constants: a condition that always passes is
// replaced by its selections, one that never passes is removed. Fields and fragments left
// without selections are removed as well, and so are spreads of removed fragments.
func SkipUnreachableNodes(program *ir.Program) (*ir.Program, error) {
	t := &skipUnreachableTransform{
		program:   program,
		fragments: make(map[intern.StringKey]irvisitor.Transformed[*ir.Fragment]),
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type skipUnreachableTransform struct {
	*irvisitor.Transformer
	program   *ir.Program
	fragments map[intern.StringKey]irvisitor.Transformed[*ir.Fragment]
}

func (t *skipUnreachableTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	if result, ok := t.fragments[fragment.Name.Item]; ok {
		return result
	}
	result := t.DefaultTransformFragment(fragment)
	if result.IsReplace() && len(result.Value.Selections) == 0 {
		result = irvisitor.Delete[*ir.Fragment]()
	}
	t.fragments[fragment.Name.Item] = result
	return result
}

func (t *skipUnreachableTransform) TransformFragmentSpread(spread *ir.FragmentSpread) irvisitor.Transformed[ir.Selection] {
	if fragment, ok := t.program.Fragment(spread.Fragment.Item); ok && t.WalkFragment(fragment).IsDelete() {
		return irvisitor.Delete[ir.Selection]()
	}
	return irvisitor.Keep[ir.Selection]()
}

func (t *skipUnreachableTransform) TransformSelections(selections []ir.Selection) irvisitor.Transformed[[]ir.Selection] {
	out := make([]ir.Selection, 0, len(selections))
	changed := false
	for _, selection := range selections {
		if condition, ok := selection.(*ir.Condition); ok {
			if value, isConstant := ir.ConstantBool(condition.Value); isConstant {
				changed = true
				if value == condition.PassingValue {
					out = append(out, t.WalkSelections(condition.Selections).Or(condition.Selections)...)
				}
				continue
			}
		}
		next := t.WalkSelection(selection)
		switch next.Action {
		case irvisitor.ActionKeep:
			out = append(out, selection)
		case irvisitor.ActionReplace:
			changed = true
			out = append(out, next.Value)
		case irvisitor.ActionDelete:
			changed = true
		}
	}
	if !changed {
		return irvisitor.Keep[[]ir.Selection]()
	}
	return irvisitor.Replace(out)
}
