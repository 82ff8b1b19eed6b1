package transforms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/transforms"
)

func TestGenerateIDField(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.GenerateIDField, input, expected)
	}

	t.Run("id already selected", runKeep(transforms.GenerateIDField, `
		fragment F on User { id name }
	`))
	t.Run("id appended to a fragment", run(`
		fragment F on User { name }
	`, `
		fragment F on User { name id }
	`))
	t.Run("aliased id does not count", run(`
		fragment F on User { userID: id }
	`, `
		fragment F on User { userID: id id }
	`))
	t.Run("nested linked fields", run(`
		query Q { viewer { name bestFriend { name } } }
	`, `
		query Q { viewer { name bestFriend { name id } id } }
	`))
	t.Run("type without id", runKeep(transforms.GenerateIDField, `
		query Q { address { city } }
	`))
	t.Run("interface with id", run(`
		query Q { node(id: "1") { ... on User { name } } }
	`, `
		query Q { node(id: "1") { ... on User { name } id } }
	`))
	t.Run("union of node types", run(`
		query Q { search(term: "x") { ... on Page { title } } }
	`, `
		query Q { search(term: "x") { ... on Page { title } ... on Node { id } } }
	`))
	t.Run("interface without id implemented by a node type", run(`
		query Q { actor { name } }
	`, `
		query Q { actor { name ... on Node { id } } }
	`))
	t.Run("node id already selected on an abstract type", runKeep(transforms.GenerateIDField, `
		query Q { actor { name ... on Node { id } } }
	`))

	t.Run("generated fields are shared per type", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			fragment A on User { name }
			fragment B on User { avatar }
		`)
		out, err := transforms.GenerateIDField(program)
		require.NoError(t, err)
		a := unsafebuilder.Fragment(out, "A").Selections
		b := unsafebuilder.Fragment(out, "B").Selections
		assert.Same(t, a[len(a)-1], b[len(b)-1])
	})
}

func TestGenerateTypename(t *testing.T) {
	abstractOnly := func(program *ir.Program) (*ir.Program, error) {
		return transforms.GenerateTypename(program, false)
	}
	all := func(program *ir.Program) (*ir.Program, error) {
		return transforms.GenerateTypename(program, true)
	}

	t.Run("abstract linked fields", runTransform(abstractOnly, `
		query Q { actor { name } viewer { name } }
	`, `
		query Q { actor { __typename name } viewer { name } }
	`))
	t.Run("typename already selected", runKeep(abstractOnly, `
		query Q { actor { __typename name } }
	`))
	t.Run("all linked fields", runTransform(all, `
		query Q { viewer { name bestFriend { name } } }
	`, `
		query Q { viewer { __typename name bestFriend { __typename name } } }
	`))
	t.Run("inline fragments on abstract types", runTransform(all, `
		query Q { node(id: "1") { ... on Actor { name } ... on Page { title } } }
	`, `
		query Q { node(id: "1") { __typename ... on Actor { __typename name } ... on Page { title } } }
	`))
}

func TestSkipUnreachableNodes(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.SkipUnreachableNodes, input, expected)
	}

	t.Run("constant conditions", run(`
		query Q { viewer { name @include(if: true) id @include(if: false) avatar @skip(if: true) address @skip(if: false) { city } } }
	`, `
		query Q { viewer { name address { city } } }
	`))
	t.Run("variable conditions are kept", runKeep(transforms.SkipUnreachableNodes, `
		query Q($cond: Boolean!) { viewer { name @include(if: $cond) } }
	`))
	t.Run("emptied linked field is removed", run(`
		query Q { viewer { bestFriend { name @include(if: false) } name } }
	`, `
		query Q { viewer { name } }
	`))
	t.Run("emptied fragment and its spreads are removed", run(`
		query Q { viewer { name ...Hidden } }
		fragment Hidden on User { name @skip(if: true) }
	`, `
		query Q { viewer { name } }
	`))
}

func TestInlineFragments(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.InlineFragments, input, expected)
	}

	t.Run("nested spreads", run(`
		query Q { viewer { ...A } }
		fragment A on User { name ...B }
		fragment B on User { id }
	`, `
		query Q { viewer { ... on User { name ... on User { id } } } }
	`))
	t.Run("conditions on spreads", run(`
		query Q($cond: Boolean!) { viewer { ...A @include(if: $cond) } }
		fragment A on User { name }
	`, `
		query Q($cond: Boolean!) { viewer { ... on User @include(if: $cond) { name } } }
	`))
	t.Run("compiler directives on spreads are dropped", run(`
		query Q { viewer { ...A @relay(mask: false) ...B @custom } }
		fragment A on User { name }
		fragment B on User { id }
	`, `
		query Q { viewer { ... on User { name } ... on User @custom { id } } }
	`))
	t.Run("unused fragments are dropped", run(`
		query Q { viewer { id } }
		fragment A on User { name }
	`, `
		query Q { viewer { id } }
	`))
}

func TestFlattenSelections(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.FlattenSelections, input, expected)
	}

	t.Run("inline fragment on the parent type", run(`
		query Q { viewer { name ... on User { id name } } }
	`, `
		query Q { viewer { name id } }
	`))
	t.Run("inline fragment without type condition", run(`
		query Q { viewer { ... { id } } }
	`, `
		query Q { viewer { id } }
	`))
	t.Run("same linked fields are merged", run(`
		query Q { viewer { bestFriend { name } bestFriend { id name } } }
	`, `
		query Q { viewer { bestFriend { name id } } }
	`))
	t.Run("inline fragments on other types are merged, not flattened", run(`
		query Q { node(id: "1") { ... on User { name } ... on Page { title } ... on User { id } } }
	`, `
		query Q { node(id: "1") { ... on User { name id } ... on Page { title } } }
	`))
	t.Run("fields with different aliases stay apart", runKeep(transforms.FlattenSelections, `
		query Q { viewer { small: avatar(size: 1) large: avatar(size: 2) } }
	`))
	t.Run("inline fragments with directives stay", runKeep(transforms.FlattenSelections, `
		query Q { viewer { name ... @__clientExtension { isSelected } } }
	`))

	t.Run("untouched selections are shared", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { bestFriend { name } ... { id } } }
		`)
		out, err := transforms.FlattenSelections(program)
		require.NoError(t, err)
		before := unsafebuilder.Operation(program, "Q").Selections[0].(*ir.LinkedField)
		after := unsafebuilder.Operation(out, "Q").Selections[0].(*ir.LinkedField)
		require.Len(t, after.Selections, 2)
		assert.Same(t, before.Selections[0], after.Selections[0])
	})

	t.Run("same conditions are merged", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q($cond: Boolean!) { viewer { name @include(if: $cond) id @include(if: $cond) } }
		`)
		out, err := transforms.FlattenSelections(program)
		require.NoError(t, err)
		viewer := unsafebuilder.Operation(out, "Q").Selections[0].(*ir.LinkedField)
		require.Len(t, viewer.Selections, 1)
		condition, ok := viewer.Selections[0].(*ir.Condition)
		require.True(t, ok)
		assert.Len(t, condition.Selections, 2)
	})
}

func TestSortSelections(t *testing.T) {
	t.Run("selections are ordered by key", runTransform(transforms.SortSelections, `
		query Q { viewer { name id ...B avatar ... on User { address { street city } } } }
		fragment B on User { name }
	`, `
		query Q { viewer { ...B ... on User { address { city street } } avatar id name } }
		fragment B on User { name }
	`))
	t.Run("sorted selections are kept", runKeep(transforms.SortSelections, `
		query Q { viewer { avatar id name } }
	`))
}

func TestRemoveFragments(t *testing.T) {
	t.Run("unused fragments", runTransform(transforms.RemoveUnusedFragments, `
		query Q { viewer { ...A } }
		fragment A on User { bestFriend { ...B } }
		fragment B on User { id }
		fragment Unused on User { name }
	`, `
		query Q { viewer { ...A } }
		fragment A on User { bestFriend { ...B } }
		fragment B on User { id }
	`))
	t.Run("all fragments used", runKeep(transforms.RemoveUnusedFragments, `
		query Q { viewer { ...A } }
		fragment A on User { id }
	`))

	removeBase := func(program *ir.Program) (*ir.Program, error) {
		return transforms.RemoveBaseFragments(program, intern.NewSetFromStrings("A"))
	}
	t.Run("base fragments", runTransform(removeBase, `
		fragment A on User { id }
		fragment B on User { name }
	`, `
		fragment B on User { name }
	`))
	t.Run("no base fragments", runKeep(removeBase, `
		fragment B on User { name }
	`))

	t.Run("fragments used by one operation", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...C bestFriend { ...A } } }
			query R { viewer { ...Other } }
			fragment A on User { ...B }
			fragment B on User { id }
			fragment C on User { name }
			fragment Other on User { id }
		`)
		used := transforms.UsedFragments(program, unsafebuilder.Operation(program, "Q"))
		names := make([]string, len(used))
		for i, fragment := range used {
			names[i] = fragment.Name.Item.String()
		}
		assert.Equal(t, []string{"A", "B", "C"}, names)
	})
}

func TestOperationID(t *testing.T) {
	text := "query Q {\n  viewer {\n    id\n  }\n}"
	assert.Equal(t, transforms.OperationID(text), transforms.OperationID(text))
	assert.NotEqual(t, transforms.OperationID(text), transforms.OperationID(text+" "))
	assert.Regexp(t, "^[0-9a-f]+$", transforms.OperationID(text))
}
