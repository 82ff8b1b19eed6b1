package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// GenerateIDField selects id on every linked field and fragment whose type has an id field
// and does not select it without an alias. The generated field is appended to the end of
// the selections. Abstract types without an id field whose possible types implement Node
// get `... on Node { id }` instead.
func GenerateIDField(program *ir.Program) (*ir.Program, error) {
	t := &generateIDTransform{
		schema:     program.Schema,
		selections: make(map[*schema.Type]ir.Selection),
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type generateIDTransform struct {
	*irvisitor.Transformer
	schema schema.Schema
	// selections caches the generated id selection per type, nil when the type gets none.
	selections map[*schema.Type]ir.Selection
}

func (t *generateIDTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	result := t.DefaultTransformFragment(fragment)
	current := result.Or(fragment)
	selections, ok := t.withID(fragment.TypeCondition, current.Selections)
	if !ok {
		return result
	}
	next := *current
	next.Selections = selections
	return irvisitor.Replace(&next)
}

func (t *generateIDTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	result := t.DefaultTransformLinkedField(field)
	if result.IsDelete() {
		return result
	}
	current := field
	if result.IsReplace() {
		current = result.Value.(*ir.LinkedField)
	}
	selections, ok := t.withID(t.schema.FieldType(field.Definition), current.Selections)
	if !ok {
		return result
	}
	next := *current
	next.Selections = selections
	return irvisitor.Replace[ir.Selection](&next)
}

func (t *generateIDTransform) withID(parent *schema.Type, selections []ir.Selection) ([]ir.Selection, bool) {
	if parent == nil || ir.HasUnaliasedField(selections, literal.ID) {
		return selections, false
	}
	generated := t.idSelection(parent)
	if generated == nil {
		return selections, false
	}
	if inline, ok := generated.(*ir.InlineFragment); ok && hasNodeID(selections, inline.TypeCondition) {
		return selections, false
	}
	return appendSelection(selections, generated), true
}

func (t *generateIDTransform) idSelection(parent *schema.Type) ir.Selection {
	if selection, ok := t.selections[parent]; ok {
		return selection
	}
	var selection ir.Selection
	if idField, ok := t.schema.IDField(parent); ok {
		selection = &ir.ScalarField{Definition: idField, Location: ir.Generated}
	} else if parent.IsAbstract() {
		selection = t.nodeIDSelection(parent)
	}
	t.selections[parent] = selection
	return selection
}

func (t *generateIDTransform) nodeIDSelection(parent *schema.Type) ir.Selection {
	node, ok := t.schema.NodeInterface()
	if !ok {
		return nil
	}
	idField, ok := t.schema.IDField(node)
	if !ok {
		return nil
	}
	for _, possible := range t.schema.PossibleTypes(parent) {
		if !t.schema.Implements(possible, node) {
			continue
		}
		return &ir.InlineFragment{
			TypeCondition: node,
			Selections:    []ir.Selection{&ir.ScalarField{Definition: idField, Location: ir.Generated}},
			Location:      ir.Generated,
		}
	}
	return nil
}

// hasNodeID reports whether selections already contain `... on Node { id }`.
func hasNodeID(selections []ir.Selection, node *schema.Type) bool {
	for _, selection := range selections {
		inline, ok := selection.(*ir.InlineFragment)
		if ok && inline.TypeCondition == node && len(inline.Directives) == 0 && ir.HasUnaliasedField(inline.Selections, literal.ID) {
			return true
		}
	}
	return false
}
