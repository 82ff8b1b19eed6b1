package irbuilder_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/testschema"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irbuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

var testSchema = testschema.Schema()

func build(t *testing.T, document string) []ir.ExecutableDefinition {
	t.Helper()
	definitions, err := irbuilder.BuildString(testSchema, "document.graphql", document)
	require.NoError(t, err)
	return definitions
}

func buildError(t *testing.T, document string) operationreport.Diagnostics {
	t.Helper()
	_, err := irbuilder.BuildString(testSchema, "document.graphql", document)
	require.Error(t, err)
	diagnostics, ok := operationreport.AsDiagnostics(err)
	require.True(t, ok, "expected diagnostics, got %s", spew.Sdump(err))
	return diagnostics
}

func TestBuild(t *testing.T) {
	t.Run("definition order", func(t *testing.T) {
		definitions := build(t, `
			fragment F on User { name }
			query Q { viewer { ...F } }
			mutation M { setName(name: "n") { id } }
		`)
		require.Len(t, definitions, 3)
		assert.Equal(t, "Q", definitions[0].DefinitionName().String())
		assert.Equal(t, "M", definitions[1].DefinitionName().String())
		assert.Equal(t, "F", definitions[2].DefinitionName().String())
		assert.Equal(t, ir.Mutation, definitions[1].(*ir.Operation).Kind)
	})

	t.Run("fields", func(t *testing.T) {
		definitions := build(t, `query Q { viewer { id: id picture: avatar(size: 32) bestFriend { name } } }`)
		operation := definitions[0].(*ir.Operation)
		assert.Equal(t, "Query", operation.Type.Name.String())

		viewer := operation.Selections[0].(*ir.LinkedField)
		require.Len(t, viewer.Selections, 3)

		id := viewer.Selections[0].(*ir.ScalarField)
		assert.True(t, id.Alias.Item.IsEmpty())
		assert.False(t, id.IsAliased())

		picture := viewer.Selections[1].(*ir.ScalarField)
		assert.Equal(t, "picture", picture.AliasOrName().String())
		assert.Equal(t, "avatar", picture.Name().String())
		require.Len(t, picture.Arguments, 1)
		value, ok := picture.Arguments[0].Value.(*ir.Constant)
		require.True(t, ok)
		assert.Equal(t, ir.ConstInt{Value: 32}, value.Value)

		_, ok = viewer.Selections[2].(*ir.LinkedField)
		assert.True(t, ok)
	})

	t.Run("conditions wrap their selection", func(t *testing.T) {
		definitions := build(t, `query Q($a: Boolean!) { viewer { name @include(if: $a) @skip(if: true) } }`)
		viewer := definitions[0].(*ir.Operation).Selections[0].(*ir.LinkedField)
		outer := viewer.Selections[0].(*ir.Condition)
		assert.True(t, outer.PassingValue)
		variable, ok := outer.Value.(*ir.Variable)
		require.True(t, ok)
		assert.Equal(t, "a", variable.Name.Item.String())

		inner := outer.Selections[0].(*ir.Condition)
		assert.False(t, inner.PassingValue)
		passes, constant := ir.ConstantBool(inner.Value)
		assert.True(t, constant)
		assert.True(t, passes)
		_, ok = inner.Selections[0].(*ir.ScalarField)
		assert.True(t, ok)
	})

	t.Run("fragment arguments", func(t *testing.T) {
		definitions := build(t, `
			query Q($pictureSize: Int) { viewer { ...Avatar @arguments(size: $pictureSize) } }
			fragment Avatar on User @argumentDefinitions(size: {type: "Int", defaultValue: 16}, big: {type: "Boolean!"}) {
				avatar(size: $size) @include(if: $big)
				bestFriend { avatar(size: $globalSize) }
			}
		`)
		spread := definitions[0].(*ir.Operation).Selections[0].(*ir.LinkedField).Selections[0].(*ir.FragmentSpread)
		require.Len(t, spread.Arguments, 1)
		assert.Empty(t, spread.Directives)

		fragment := definitions[1].(*ir.Fragment)
		require.Len(t, fragment.VariableDefinitions, 2)
		size, ok := fragment.VariableDefinitions.Named(intern.Intern("size"))
		require.True(t, ok)
		assert.Equal(t, "Int", size.Type.String())
		assert.Equal(t, ir.ConstInt{Value: 16}, size.DefaultValue)
		big, ok := fragment.VariableDefinitions.Named(intern.Intern("big"))
		require.True(t, ok)
		assert.Equal(t, "Boolean!", big.Type.String())
		assert.False(t, big.HasDefault())

		assert.Empty(t, fragment.Directives)
		require.Len(t, fragment.UsedGlobalVariables, 1)
		assert.Equal(t, "globalSize", fragment.UsedGlobalVariables[0].Name.Item.String())
		assert.Equal(t, "Int", fragment.UsedGlobalVariables[0].Type.String())
	})

	t.Run("spreads before the fragment definition", func(t *testing.T) {
		definitions := build(t, `
			fragment A on User { ...B }
			fragment B on User { name }
		`)
		assert.Len(t, definitions, 2)
	})

	t.Run("unknown directives are kept", func(t *testing.T) {
		definitions := build(t, `query Q { viewer { name @custom(flag: true) } }`)
		name := definitions[0].(*ir.Operation).Selections[0].(*ir.LinkedField).Selections[0].(*ir.ScalarField)
		require.Len(t, name.Directives, 1)
		assert.Equal(t, "custom", name.Directives[0].Name.Item.String())
	})

	t.Run("locations", func(t *testing.T) {
		definitions := build(t, "query Q {\n  viewer { name }\n}")
		viewer := definitions[0].(*ir.Operation).Selections[0].(*ir.LinkedField)
		assert.Equal(t, "document.graphql", viewer.Location.Source.String())
		assert.Equal(t, 2, viewer.Location.Line)
		assert.Equal(t, 3, viewer.Location.Column)
	})
}

func TestBuildErrors(t *testing.T) {
	run := func(document string, expected ...operationreport.Kind) func(t *testing.T) {
		return func(t *testing.T) {
			diagnostics := buildError(t, document)
			kinds := make([]operationreport.Kind, 0, len(diagnostics))
			for _, diagnostic := range diagnostics.Sorted() {
				kinds = append(kinds, diagnostic.Kind)
			}
			assert.Equal(t, expected, kinds)
		}
	}

	t.Run("syntax", run(`query Q { viewer { `, operationreport.KindSyntax))
	t.Run("anonymous operation", run(`{ viewer { id } }`, operationreport.KindSyntax))
	t.Run("undefined field", run(`query Q { viewer { missing } }`, operationreport.KindUndefinedField))
	t.Run("undefined type", run(`query Q { node(id: "1") { ... on Missing { id } } }`, operationreport.KindUndefinedType))
	t.Run("undefined fragment", run(`query Q { viewer { ...Missing } }`, operationreport.KindUndefinedFragment))
	t.Run("duplicate definition", run(`
		query Q { viewer { id } }
		fragment Q on User { id }
	`, operationreport.KindDuplicateDefinition))
	t.Run("leaf with selection", run(`query Q { viewer { name { id } } }`, operationreport.KindInvalidSelection))
	t.Run("composite without selection", run(`query Q { viewer }`, operationreport.KindInvalidSelection))
	t.Run("fragment on a scalar", run(`fragment F on String { length }`, operationreport.KindInvalidSelection))
	t.Run("condition without if", run(`query Q { viewer { name @include } }`, operationreport.KindInvalidArgument))
	t.Run("condition on a string", run(`query Q { viewer { name @include(if: "yes") } }`, operationreport.KindInvalidArgument))
	t.Run("argument definition without type", run(`
		fragment F on User @argumentDefinitions(size: {defaultValue: 1}) { avatar(size: $size) }
	`, operationreport.KindInvalidArgument))

	t.Run("all errors of a document are reported", func(t *testing.T) {
		diagnostics := buildError(t, `
			query Q { viewer { missing ...Missing } }
		`)
		assert.Len(t, diagnostics, 2)
		assert.True(t, diagnostics.HasKind(operationreport.KindUndefinedField))
		assert.True(t, diagnostics.HasKind(operationreport.KindUndefinedFragment))
	})
}
