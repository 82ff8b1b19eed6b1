package pipeline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jensneuse/abstractlogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/testschema"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafeprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/config"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/testing/goldie"
	"github.com/wundergraph/graphql-go-compiler/pkg/transforms"
)

var testSchema = testschema.Schema()

const viewerQuery = `
	query ViewerQuery {
		viewer {
			name
			...UserAvatar
			isSelected
		}
		actor {
			name
		}
	}

	fragment UserAvatar on User {
		avatar(size: 32)
		bestFriend @include(if: false) {
			name
		}
	}
`

func testProject(parallel bool) *config.Project {
	project := config.DefaultProject("test")
	project.Parallel = parallel
	project.PersistQueries = true
	return &project
}

func TestPipelineRun(t *testing.T) {
	program := unsafebuilder.Program(testSchema, `query Q { viewer { name } }`)

	t.Run("passes run in order", func(t *testing.T) {
		var order []string
		record := func(name string) Pass {
			return Validation(name, func(*ir.Program) error {
				order = append(order, name)
				return nil
			})
		}
		out, err := New("test", record("a"), record("b")).Then(record("c")).Run(program, abstractlogger.NoopLogger)
		require.NoError(t, err)
		assert.Same(t, program, out)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("first failing pass stops the pipeline", func(t *testing.T) {
		failure := operationreport.Diagnostics{operationreport.ErrInvalidSelection("broken", ir.Generated)}
		ran := false
		p := New("test",
			Validation("fail", func(*ir.Program) error { return failure }),
			Transform("never", func(program *ir.Program) (*ir.Program, error) {
				ran = true
				return program, nil
			}),
		)
		out, err := p.Run(program, abstractlogger.NoopLogger)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.False(t, ran)
		assert.Contains(t, err.Error(), "test: fail")

		diagnostics, ok := operationreport.AsDiagnostics(err)
		require.True(t, ok)
		assert.True(t, diagnostics.HasKind(operationreport.KindInvalidSelection))
	})

	t.Run("then does not modify the receiver", func(t *testing.T) {
		base := New("test", Transform("a", transforms.SortSelections))
		extended := base.Then(Transform("b", transforms.FlattenSelections))
		assert.Equal(t, []string{"a"}, base.PassNames())
		assert.Equal(t, []string{"a", "b"}, extended.PassNames())
		assert.Equal(t, []string{"a"}, base.When(false, Transform("c", transforms.SortSelections)).PassNames())
	})
}

func TestNewPipelines(t *testing.T) {
	t.Run("default features", func(t *testing.T) {
		pipelines := NewPipelines(testProject(false), nil)
		assert.Equal(t, []string{
			"validate_no_fragment_cycles",
			"disallow_reserved_aliases",
			"disallow_typename_on_root",
			"validate_global_variables",
			"validate_connections",
			"validate_declarative_connections",
			"validate_relay_resolvers",
			"refetchable_fragment",
			"transform_connections",
		}, pipelines.Common.PassNames())
		assert.Equal(t, []string{
			"mask", "relay_resolvers", "client_extensions", "flatten", "remove_base_fragments",
		}, pipelines.Reader.PassNames())
		assert.Equal(t, []string{
			"apply_fragment_arguments", "relay_resolvers", "client_extensions", "generate_id_field",
			"generate_typename", "inline_fragments", "skip_unreachable_nodes", "flatten",
		}, pipelines.Normalization.PassNames())
		assert.Equal(t, []string{
			"apply_fragment_arguments", "relay_resolvers", "skip_client_extensions", "skip_client_directives",
			"skip_unreachable_nodes", "generate_id_field", "generate_typename", "flatten",
			"remove_unused_fragments", "sort_selections",
		}, pipelines.OperationText.PassNames())
		assert.Equal(t, []string{
			"mask", "relay_resolvers", "flatten", "remove_base_fragments",
		}, pipelines.Typegen.PassNames())
	})

	t.Run("disabled features", func(t *testing.T) {
		project := testProject(false)
		project.Features = config.Features{}
		pipelines := NewPipelines(project, nil)
		assert.NotContains(t, pipelines.Common.PassNames(), "validate_relay_resolvers")
		assert.Equal(t, []string{"mask", "client_extensions", "remove_base_fragments"}, pipelines.Reader.PassNames())
		assert.Equal(t, []string{"mask", "remove_base_fragments"}, pipelines.Typegen.PassNames())
	})
}

func TestApplyTransforms(t *testing.T) {
	run := func(t *testing.T, parallel bool) *Programs {
		program := unsafebuilder.Program(testSchema, viewerQuery)
		programs, err := ApplyTransforms(testProject(parallel), program, nil, abstractlogger.NoopLogger)
		require.NoError(t, err)
		return programs
	}

	t.Run("golden", func(t *testing.T) {
		programs := run(t, false)
		goldie.Assert(t, "reader", []byte(unsafeprinter.PrintProgram(programs.Reader)))
		goldie.Assert(t, "normalization", []byte(unsafeprinter.PrintProgram(programs.Normalization)))
		goldie.Assert(t, "operation_text", []byte(programs.OperationTexts["ViewerQuery"].Text))
	})

	t.Run("typegen", func(t *testing.T) {
		programs := run(t, false)
		assert.Equal(t, unsafeprinter.Prettify(testSchema, `
			query ViewerQuery { viewer { name ...UserAvatar isSelected } actor { name } }
			fragment UserAvatar on User { avatar(size: 32) bestFriend @include(if: false) { name } }
		`), unsafeprinter.PrintProgram(programs.Typegen))
	})

	t.Run("parallel and sequential runs agree", func(t *testing.T) {
		sequential := run(t, false)
		parallel := run(t, true)
		for name, pair := range map[string][2]*ir.Program{
			"reader":         {sequential.Reader, parallel.Reader},
			"normalization":  {sequential.Normalization, parallel.Normalization},
			"operation text": {sequential.OperationText, parallel.OperationText},
			"typegen":        {sequential.Typegen, parallel.Typegen},
		} {
			assert.Equal(t, unsafeprinter.PrintProgram(pair[0]), unsafeprinter.PrintProgram(pair[1]), name)
		}
		if diff := cmp.Diff(sequential.OperationTexts, parallel.OperationTexts); diff != "" {
			t.Errorf("operation texts differ (-sequential +parallel):\n%s", diff)
		}
	})

	t.Run("operation ids", func(t *testing.T) {
		programs := run(t, true)
		text := programs.OperationTexts["ViewerQuery"]
		assert.Equal(t, transforms.OperationID(text.Text), text.ID)

		project := testProject(false)
		project.PersistQueries = false
		program := unsafebuilder.Program(testSchema, viewerQuery)
		unpersisted, err := ApplyTransforms(project, program, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, text.Text, unpersisted.OperationTexts["ViewerQuery"].Text)
		assert.Empty(t, unpersisted.OperationTexts["ViewerQuery"].ID)
	})

	t.Run("input program is not modified", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, viewerQuery)
		before := unsafeprinter.PrintProgram(program)
		_, err := ApplyTransforms(testProject(true), program, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, before, unsafeprinter.PrintProgram(program))
	})

	t.Run("base fragments", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, viewerQuery)
		programs, err := ApplyTransforms(testProject(true), program, intern.NewSetFromStrings("UserAvatar"), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, programs.Reader.FragmentCount())
		assert.Equal(t, 0, programs.Typegen.FragmentCount())
		_, ok := programs.OperationText.Fragment(intern.Intern("UserAvatar"))
		assert.True(t, ok)
	})

	t.Run("unmasked spreads are flattened in the normalization program", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...A @relay(mask: false) } }
			fragment A on User @argumentDefinitions(n: {type: "Int", defaultValue: 3}) { avatar(size: $n) }
		`)
		programs, err := ApplyTransforms(testProject(false), program, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, unsafeprinter.Prettify(testSchema, `
			query Q { viewer { avatar(size: 3) id } }
		`), unsafeprinter.PrintProgram(programs.Normalization))
	})

	t.Run("client fragments are grouped once in the normalization program", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { note { ...NoteText } } }
			fragment NoteText on Note { text }
		`)
		programs, err := ApplyTransforms(testProject(false), program, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, unsafeprinter.Prettify(testSchema, `
			query Q { viewer { ... @__clientExtension { note { text } } id } }
		`), unsafeprinter.PrintProgram(programs.Normalization))
	})

	t.Run("validation errors stop the pipeline", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...A } }
			fragment A on User { bestFriend { ...A } }
		`)
		programs, err := ApplyTransforms(testProject(true), program, nil, nil)
		require.Error(t, err)
		assert.Nil(t, programs)
		assert.Contains(t, err.Error(), "common: validate_no_fragment_cycles")
		diagnostics, ok := operationreport.AsDiagnostics(err)
		require.True(t, ok)
		assert.True(t, diagnostics.HasKind(operationreport.KindFragmentCycle))
	})

	t.Run("errors of a parallel branch are returned", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q($size: Int) { viewer { ...Parent } }
			fragment Parent on User { ...Child @relay(mask: false) @arguments(size: $size) }
			fragment Child on User @argumentDefinitions(size: {type: "Int"}) { avatar(size: $size) }
		`)
		_, err := ApplyTransforms(testProject(true), program, nil, nil)
		require.Error(t, err)
		var diagnostics operationreport.Diagnostics
		require.True(t, errors.As(err, &diagnostics))
		assert.True(t, diagnostics.HasKind(operationreport.KindUnmaskArgumentConflict))
	})
}
