package transforms_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/testschema"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafeprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

var testSchema = testschema.Schema()

type transformFunc func(program *ir.Program) (*ir.Program, error)

type validationFunc func(program *ir.Program) error

func runTransform(transform transformFunc, input, expected string) func(t *testing.T) {
	return func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, input)
		out, err := transform(program)
		require.NoError(t, err)
		assert.Equal(t, unsafeprinter.Prettify(testSchema, expected), unsafeprinter.PrintProgram(out))
	}
}

// runKeep asserts that transform returns the program it was given.
func runKeep(transform transformFunc, input string) func(t *testing.T) {
	return func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, input)
		out, err := transform(program)
		require.NoError(t, err)
		assert.Same(t, program, out)
	}
}

func runTransformError(transform transformFunc, input string, expectedKinds ...operationreport.Kind) func(t *testing.T) {
	return func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, input)
		out, err := transform(program)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, expectedKinds, diagnosticKinds(t, err))
	}
}

func runValidation(validate validationFunc, input string, expectedKinds ...operationreport.Kind) func(t *testing.T) {
	return func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, input)
		err := validate(program)
		if len(expectedKinds) == 0 {
			assert.NoError(t, err)
			return
		}
		require.Error(t, err)
		assert.Equal(t, expectedKinds, diagnosticKinds(t, err))
	}
}

func diagnosticKinds(t *testing.T, err error) []operationreport.Kind {
	t.Helper()
	diagnostics, ok := operationreport.AsDiagnostics(err)
	require.True(t, ok, "expected diagnostics, got %s", spew.Sdump(err))
	kinds := make([]operationreport.Kind, 0, len(diagnostics))
	for _, diagnostic := range diagnostics.Sorted() {
		kinds = append(kinds, diagnostic.Kind)
	}
	return kinds
}
