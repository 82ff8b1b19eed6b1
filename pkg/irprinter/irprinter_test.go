package irprinter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/testschema"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
)

const document = `
query Q($size: Int = 16, $show: Boolean!) {
	viewer {
		picture: avatar(size: $size)
		name @include(if: $show)
		bestFriend @skip(if: true) { id }
		...F @arguments(big: true)
	}
	node(id: "1") {
		... on User { name }
		... { id }
	}
}

fragment F on User @argumentDefinitions(big: {type: "Boolean", defaultValue: false}) {
	avatar @include(if: $big)
}
`

const printedQuery = `query Q($size: Int = 16, $show: Boolean!) {
  viewer {
    picture: avatar(size: $size)
    name @include(if: $show)
    bestFriend @skip(if: true) {
      id
    }
    ...F @arguments(big: true)
  }
  node(id: "1") {
    ... on User {
      name
    }
    ... {
      id
    }
  }
}`

const printedFragment = `fragment F on User @argumentDefinitions(big: {type: "Boolean", defaultValue: false}) {
  avatar @include(if: $big)
}`

func TestPrint(t *testing.T) {
	program := unsafebuilder.Program(testschema.Schema(), document)

	t.Run("operation", func(t *testing.T) {
		out, err := irprinter.PrintString(unsafebuilder.Operation(program, "Q"))
		require.NoError(t, err)
		assert.Equal(t, printedQuery, out)
	})
	t.Run("fragment", func(t *testing.T) {
		out, err := irprinter.PrintString(unsafebuilder.Fragment(program, "F"))
		require.NoError(t, err)
		assert.Equal(t, printedFragment, out)
	})
	t.Run("program", func(t *testing.T) {
		out, err := irprinter.PrintProgramString(program)
		require.NoError(t, err)
		assert.Equal(t, printedQuery+"\n\n"+printedFragment, out)
	})
	t.Run("single line", func(t *testing.T) {
		program := unsafebuilder.Program(testschema.Schema(), `query Q { viewer { id name } }`)
		printer := irprinter.Printer{}
		buff := &bytes.Buffer{}
		require.NoError(t, printer.Print(unsafebuilder.Operation(program, "Q"), buff))
		assert.Equal(t, "query Q { viewer { id name } }", buff.String())
	})
	t.Run("nested conditions are printed on every guarded selection", func(t *testing.T) {
		program := unsafebuilder.Program(testschema.Schema(), `
			query Q($a: Boolean!) { viewer @include(if: $a) { name @skip(if: $a) } }
		`)
		out, err := irprinter.PrintString(unsafebuilder.Operation(program, "Q"))
		require.NoError(t, err)
		assert.Equal(t, "query Q($a: Boolean!) {\n  viewer @include(if: $a) {\n    name @skip(if: $a)\n  }\n}", out)
	})
}

func TestPrintRoundTrip(t *testing.T) {
	s := testschema.Schema()
	printed, err := irprinter.PrintProgramString(unsafebuilder.Program(s, document))
	require.NoError(t, err)

	reprinted, err := irprinter.PrintProgramString(unsafebuilder.Program(s, printed))
	require.NoError(t, err)
	assert.Equal(t, printed, reprinted)
}

func TestValueString(t *testing.T) {
	first := &ir.Variable{Name: ir.Named(intern.Intern("first"))}
	constant := func(value ir.ConstantValue) ir.Value {
		return &ir.Constant{Value: value}
	}

	assert.Equal(t, "1", irprinter.ValueString(constant(ir.ConstInt{Value: 1})))
	assert.Equal(t, "1.0", irprinter.ValueString(constant(ir.ConstFloat{Value: 1})))
	assert.Equal(t, "2.5", irprinter.ValueString(constant(ir.ConstFloat{Value: 2.5})))
	assert.Equal(t, `"a \"b\""`, irprinter.ValueString(constant(ir.ConstString{Value: `a "b"`})))
	assert.Equal(t, "null", irprinter.ValueString(constant(ir.ConstNull{})))
	assert.Equal(t, "ASC", irprinter.ValueString(constant(ir.ConstEnum{Value: intern.Intern("ASC")})))
	assert.Equal(t, "[1, true]", irprinter.ValueString(constant(ir.ConstList{Items: []ir.ConstantValue{ir.ConstInt{Value: 1}, ir.ConstBoolean{Value: true}}})))
	assert.Equal(t, "$first", irprinter.ValueString(first))
	assert.Equal(t, "[$first, 2]", irprinter.ValueString(&ir.ListValue{Items: []ir.Value{first, constant(ir.ConstInt{Value: 2})}}))
	assert.Equal(t, "{a: $first, b: {}}", irprinter.ValueString(&ir.ObjectValue{Fields: []ir.ValueField{
		{Name: ir.Named(intern.Intern("a")), Value: first},
		{Name: ir.Named(intern.Intern("b")), Value: constant(ir.ConstObject{})},
	}}))
}
