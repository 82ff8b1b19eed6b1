package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/testschema"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

const document = `
query B { viewer { ...Z } }
query A { viewer { ...M name } }
fragment Z on User { id }
fragment M on User { alias: name }
`

func definitionNames(definitions []ir.ExecutableDefinition) []string {
	out := make([]string, len(definitions))
	for i, definition := range definitions {
		out[i] = definition.DefinitionName().String()
	}
	return out
}

func TestProgram(t *testing.T) {
	s := testschema.Schema()

	t.Run("order", func(t *testing.T) {
		program := unsafebuilder.Program(s, document)
		assert.Equal(t, 2, program.OperationCount())
		assert.Equal(t, 2, program.FragmentCount())
		assert.Equal(t, []string{"B", "A", "M", "Z"}, definitionNames(program.Definitions()))

		fragments := program.Fragments()
		require.Len(t, fragments, 2)
		assert.Equal(t, "M", fragments[0].Name.Item.String())
		assert.Equal(t, "Z", fragments[1].Name.Item.String())
	})

	t.Run("duplicate definitions panic", func(t *testing.T) {
		definitions := unsafebuilder.Definitions(s, document)
		assert.Panics(t, func() {
			ir.FromDefinitions(s, append(definitions, definitions[0]))
		})
	})

	t.Run("clone shares definitions", func(t *testing.T) {
		program := unsafebuilder.Program(s, document)
		clone := program.Clone()
		assert.Same(t, unsafebuilder.Fragment(program, "Z"), unsafebuilder.Fragment(clone, "Z"))
		assert.Same(t, unsafebuilder.Operation(program, "A"), unsafebuilder.Operation(clone, "A"))

		clone.RemoveFragment(intern.Intern("Z"))
		clone.InsertOperation(&ir.Operation{Kind: ir.Query, Name: ir.Named(intern.Intern("C"))})
		assert.Equal(t, 1, clone.FragmentCount())
		assert.Equal(t, 3, clone.OperationCount())
		assert.Equal(t, 2, program.FragmentCount())
		assert.Equal(t, 2, program.OperationCount())

		empty := program.CloneWithoutDefinitions()
		assert.Equal(t, s, empty.Schema)
		assert.Empty(t, empty.Definitions())
	})

	t.Run("insert replaces fragments by name", func(t *testing.T) {
		program := unsafebuilder.Program(s, document)
		replacement := &ir.Fragment{Name: ir.Named(intern.Intern("Z"))}
		program.InsertFragment(replacement)
		assert.Equal(t, 2, program.FragmentCount())
		assert.Same(t, replacement, unsafebuilder.Fragment(program, "Z"))

		_, ok := program.Fragment(intern.Intern("Missing"))
		assert.False(t, ok)
		_, ok = program.Operation(intern.Intern("Missing"))
		assert.False(t, ok)
	})
}

func TestSelectionIdentity(t *testing.T) {
	program := unsafebuilder.Program(testschema.Schema(), `
		query Q($a: Boolean!) {
			viewer {
				name
				other: name
				... on User { id }
				...F
				id @include(if: $a)
				avatar @skip(if: false)
			}
		}
		fragment F on User { id }
	`)
	viewer := unsafebuilder.Operation(program, "Q").Selections[0].(*ir.LinkedField)

	identities := make([]string, len(viewer.Selections))
	for i, selection := range viewer.Selections {
		identities[i] = ir.SelectionIdentity(selection)
	}
	assert.Equal(t, []string{
		"field:name",
		"field:other",
		"inline:User",
		"spread:F",
		"condition:include:$a",
		"condition:skip:false",
	}, identities)

	assert.True(t, ir.HasUnaliasedField(viewer.Selections, intern.Intern("name")))
	assert.False(t, ir.HasUnaliasedField(viewer.Selections, intern.Intern("id")))
}

func TestTypeReferences(t *testing.T) {
	id := ir.NamedType{Type: intern.Intern("ID")}
	list := ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: id}}}

	assert.Equal(t, "[ID!]!", list.String())
	assert.Equal(t, "ID", list.Inner().String())
	assert.True(t, ir.IsNonNull(list))
	assert.Equal(t, "[ID!]", ir.Nullable(list).String())
	assert.Equal(t, id, ir.Nullable(id))

	assert.True(t, ir.TypeReferencesEqual(list, ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: ir.NamedType{Type: intern.Intern("ID")}}}}))
	assert.False(t, ir.TypeReferencesEqual(list, ir.ListType{Of: ir.NonNullType{Of: id}}))
}

func TestLocation(t *testing.T) {
	assert.True(t, ir.Generated.IsGenerated())
	assert.Equal(t, "<generated>", ir.Generated.String())

	loc := ir.Location{Source: intern.Intern("a.graphql"), Line: 3, Column: 7}
	assert.False(t, loc.IsGenerated())
	assert.Equal(t, "a.graphql:3:7", loc.String())
}
