package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// GenerateTypename prepends __typename to every linked field of an abstract type that does
// not select it without an alias. With all set, every linked field gets one, and so does
// every inline fragment on an abstract type.
func GenerateTypename(program *ir.Program, all bool) (*ir.Program, error) {
	t := &generateTypenameTransform{
		schema:    program.Schema,
		all:       all,
		typenames: make(map[*schema.Type]*ir.ScalarField),
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type generateTypenameTransform struct {
	*irvisitor.Transformer
	schema    schema.Schema
	all       bool
	typenames map[*schema.Type]*ir.ScalarField
}

func (t *generateTypenameTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	result := t.DefaultTransformLinkedField(field)
	if result.IsDelete() {
		return result
	}
	current := field
	if result.IsReplace() {
		current = result.Value.(*ir.LinkedField)
	}
	parent := t.schema.FieldType(field.Definition)
	if parent == nil || (!t.all && !parent.IsAbstract()) {
		return result
	}
	selections, ok := t.withTypename(parent, current.Selections)
	if !ok {
		return result
	}
	next := *current
	next.Selections = selections
	return irvisitor.Replace[ir.Selection](&next)
}

func (t *generateTypenameTransform) TransformInlineFragment(fragment *ir.InlineFragment) irvisitor.Transformed[ir.Selection] {
	result := t.DefaultTransformInlineFragment(fragment)
	if !t.all || result.IsDelete() || fragment.TypeCondition == nil || !fragment.TypeCondition.IsAbstract() {
		return result
	}
	current := fragment
	if result.IsReplace() {
		current = result.Value.(*ir.InlineFragment)
	}
	selections, ok := t.withTypename(fragment.TypeCondition, current.Selections)
	if !ok {
		return result
	}
	next := *current
	next.Selections = selections
	return irvisitor.Replace[ir.Selection](&next)
}

func (t *generateTypenameTransform) withTypename(parent *schema.Type, selections []ir.Selection) ([]ir.Selection, bool) {
	if ir.HasUnaliasedField(selections, literal.TYPENAME) {
		return selections, false
	}
	typename, ok := t.typenames[parent]
	if !ok {
		definition, found := t.schema.Field(parent, literal.TYPENAME)
		if !found {
			return selections, false
		}
		typename = &ir.ScalarField{Definition: definition, Location: ir.Generated}
		t.typenames[parent] = typename
	}
	return prependSelection(selections, typename), true
}
