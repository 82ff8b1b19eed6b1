package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// requirement is a field that must be selected, with the subfields it needs.
type requirement struct {
	name     intern.StringKey
	children []requirement
}

var connectionRequirements = []requirement{
	{name: literal.EDGES, children: []requirement{
		{name: literal.CURSOR},
		{name: literal.NODE_FIELD, children: []requirement{{name: literal.TYPENAME}}},
	}},
	{name: literal.PAGE_INFO, children: []requirement{
		{name: literal.END_CURSOR},
		{name: literal.HAS_NEXT_PAGE},
	}},
}

// TransformConnections adds the selections needed to paginate fields marked @connection:
// edges { cursor node { __typename } } and pageInfo { endCursor hasNextPage }. Fields the
// user already selects without an alias are completed, missing ones appended.
func TransformConnections(program *ir.Program) (*ir.Program, error) {
	t := &connectionTransform{
		schema:    program.Schema,
		generated: make(map[generatedField]ir.Selection),
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type generatedField struct {
	parent *schema.Type
	name   intern.StringKey
}

type connectionTransform struct {
	*irvisitor.Transformer
	schema schema.Schema
	// generated caches synthesized fields per parent type.
	generated map[generatedField]ir.Selection
}

func (t *connectionTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	result := t.DefaultTransformLinkedField(field)
	if _, ok := field.Directives.Named(literal.CONNECTION); !ok || result.IsDelete() {
		return result
	}
	current := field
	if result.IsReplace() {
		current = result.Value.(*ir.LinkedField)
	}
	selections, changed := t.ensure(t.schema.FieldType(field.Definition), current.Selections, connectionRequirements)
	if !changed {
		return result
	}
	next := *current
	next.Selections = selections
	return irvisitor.Replace[ir.Selection](&next)
}

// ensure returns selections completed by the required fields of parent.
func (t *connectionTransform) ensure(parent *schema.Type, selections []ir.Selection, required []requirement) ([]ir.Selection, bool) {
	out := selections
	changed := false
	for _, req := range required {
		definition, ok := t.schema.Field(parent, req.name)
		if !ok {
			continue
		}
		index := unaliasedFieldIndex(out, req.name)
		if index < 0 {
			out = appendSelection(out, t.generate(parent, definition, req))
			changed = true
			continue
		}
		linked, ok := out[index].(*ir.LinkedField)
		if !ok || len(req.children) == 0 {
			continue
		}
		children, childrenChanged := t.ensure(t.schema.FieldType(definition), linked.Selections, req.children)
		if !childrenChanged {
			continue
		}
		next := *linked
		next.Selections = children
		out = replaceSelectionAt(out, index, &next)
		changed = true
	}
	return out, changed
}

func (t *connectionTransform) generate(parent *schema.Type, definition *schema.Field, req requirement) ir.Selection {
	key := generatedField{parent: parent, name: req.name}
	if selection, ok := t.generated[key]; ok {
		return selection
	}
	var selection ir.Selection
	fieldType := t.schema.FieldType(definition)
	if fieldType != nil && fieldType.IsComposite() {
		children, _ := t.ensure(fieldType, nil, req.children)
		selection = &ir.LinkedField{Definition: definition, Selections: children, Location: ir.Generated}
	} else {
		selection = &ir.ScalarField{Definition: definition, Location: ir.Generated}
	}
	t.generated[key] = selection
	return selection
}

// unaliasedFieldIndex returns the position of the unaliased field name in selections, or -1.
func unaliasedFieldIndex(selections []ir.Selection, name intern.StringKey) int {
	for i := range selections {
		if ir.HasUnaliasedField(selections[i:i+1], name) {
			return i
		}
	}
	return -1
}

func replaceSelectionAt(selections []ir.Selection, index int, selection ir.Selection) []ir.Selection {
	out := make([]ir.Selection, len(selections))
	copy(out, selections)
	out[index] = selection
	return out
}
