package transforms

import (
	"strings"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// FlattenSelections removes redundant nesting. Inline fragments without directives whose
// type condition is missing or equal to the enclosing type are replaced by their selections.
// Fields with the same response key, arguments and directives are merged into the first of
// them, and so are equal inline fragments, conditions and spreads.
func FlattenSelections(program *ir.Program) (*ir.Program, error) {
	t := &flattenTransform{schema: program.Schema}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type flattenTransform struct {
	*irvisitor.Transformer
	schema schema.Schema
	// parents are the types of the enclosing selection sets.
	parents []*schema.Type
}

func (t *flattenTransform) push(parent *schema.Type) {
	t.parents = append(t.parents, parent)
}

func (t *flattenTransform) pop() {
	t.parents = t.parents[:len(t.parents)-1]
}

func (t *flattenTransform) parent() *schema.Type {
	if len(t.parents) == 0 {
		return nil
	}
	return t.parents[len(t.parents)-1]
}

func (t *flattenTransform) TransformOperation(operation *ir.Operation) irvisitor.Transformed[*ir.Operation] {
	t.push(operation.Type)
	defer t.pop()
	return t.DefaultTransformOperation(operation)
}

func (t *flattenTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	t.push(fragment.TypeCondition)
	defer t.pop()
	return t.DefaultTransformFragment(fragment)
}

func (t *flattenTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	t.push(t.schema.FieldType(field.Definition))
	defer t.pop()
	return t.DefaultTransformLinkedField(field)
}

func (t *flattenTransform) TransformInlineFragment(fragment *ir.InlineFragment) irvisitor.Transformed[ir.Selection] {
	if fragment.TypeCondition != nil {
		t.push(fragment.TypeCondition)
	} else {
		t.push(t.parent())
	}
	defer t.pop()
	return t.DefaultTransformInlineFragment(fragment)
}

func (t *flattenTransform) TransformSelections(selections []ir.Selection) irvisitor.Transformed[[]ir.Selection] {
	flat, flattened := t.flatten(t.parent(), selections)
	merged, mergedAny := mergeSelections(flat)
	children := irvisitor.TransformList(merged, t.WalkSelection)
	if !flattened && !mergedAny {
		return children
	}
	return irvisitor.Replace(children.Or(merged))
}

// flatten returns selections itself when no inline fragment can be flattened.
func (t *flattenTransform) flatten(parent *schema.Type, selections []ir.Selection) ([]ir.Selection, bool) {
	var out []ir.Selection
	for i, selection := range selections {
		inline, ok := selection.(*ir.InlineFragment)
		if !ok || len(inline.Directives) != 0 || (inline.TypeCondition != nil && inline.TypeCondition != parent) {
			if out != nil {
				out = append(out, selection)
			}
			continue
		}
		if out == nil {
			out = make([]ir.Selection, 0, len(selections)+len(inline.Selections))
			out = append(out, selections[:i]...)
		}
		inner, _ := t.flatten(parent, inline.Selections)
		out = append(out, inner...)
	}
	if out == nil {
		return selections, false
	}
	return out, true
}

// mergeSelections merges selections with equal merge keys into the first of them. Merged
// selections get the concatenated children, which are merged when the result is visited.
func mergeSelections(selections []ir.Selection) ([]ir.Selection, bool) {
	if len(selections) < 2 {
		return selections, false
	}
	index := make(map[string]int, len(selections))
	var out []ir.Selection
	for i, selection := range selections {
		key := mergeKey(selection)
		first, seen := index[key]
		if !seen {
			if out == nil {
				index[key] = i
			} else {
				index[key] = len(out)
				out = append(out, selection)
			}
			continue
		}
		if out == nil {
			out = make([]ir.Selection, 0, len(selections))
			out = append(out, selections[:i]...)
		}
		out[first] = mergeInto(out[first], selection)
	}
	if out == nil {
		return selections, false
	}
	return out, true
}

func mergeKey(selection ir.Selection) string {
	var b strings.Builder
	switch s := selection.(type) {
	case *ir.ScalarField:
		b.WriteString("scalar|")
		b.WriteString(ir.SelectionIdentity(s))
		b.WriteString("|")
		b.WriteString(s.Definition.Name.String())
		writeArgumentsKey(&b, s.Arguments)
	case *ir.LinkedField:
		b.WriteString("linked|")
		b.WriteString(ir.SelectionIdentity(s))
		b.WriteString("|")
		b.WriteString(s.Definition.Name.String())
		writeArgumentsKey(&b, s.Arguments)
	case *ir.FragmentSpread:
		b.WriteString(ir.SelectionIdentity(s))
		writeArgumentsKey(&b, s.Arguments)
	default:
		b.WriteString(ir.SelectionIdentity(s))
	}
	for _, directive := range selection.GetDirectives() {
		b.WriteString("@")
		b.WriteString(directive.Name.Item.String())
		writeArgumentsKey(&b, directive.Arguments)
	}
	return b.String()
}

func writeArgumentsKey(b *strings.Builder, arguments ir.Arguments) {
	if len(arguments) == 0 {
		return
	}
	b.WriteString("(")
	for _, argument := range arguments {
		b.WriteString(argument.Name.Item.String())
		b.WriteString(":")
		b.WriteString(irprinter.ValueString(argument.Value))
		b.WriteString(",")
	}
	b.WriteString(")")
}

func concatSelections(a, b []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func mergeInto(first, second ir.Selection) ir.Selection {
	switch f := first.(type) {
	case *ir.LinkedField:
		next := *f
		next.Selections = concatSelections(f.Selections, second.(*ir.LinkedField).Selections)
		return &next
	case *ir.InlineFragment:
		next := *f
		next.Selections = concatSelections(f.Selections, second.(*ir.InlineFragment).Selections)
		return &next
	case *ir.Condition:
		next := *f
		next.Selections = concatSelections(f.Selections, second.(*ir.Condition).Selections)
		return &next
	}
	return first
}
