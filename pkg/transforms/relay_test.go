package transforms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/transforms"
)

func TestTransformConnections(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.TransformConnections, input, expected)
	}

	t.Run("missing selections are added", run(`
		query Q { viewer { friends(first: 10) @connection(key: "Q_friends") { edges { node { name } } } } }
	`, `
		query Q { viewer { friends(first: 10) @connection(key: "Q_friends") { edges { node { name __typename } cursor } pageInfo { endCursor hasNextPage } } } }
	`))
	t.Run("complete connection", runKeep(transforms.TransformConnections, `
		query Q { viewer { friends(first: 10) @connection(key: "Q_friends") { edges { cursor node { __typename } } pageInfo { endCursor hasNextPage } } } }
	`))
	t.Run("fields without connection", runKeep(transforms.TransformConnections, `
		query Q { viewer { friends(first: 10) { edges { cursor } } } }
	`))
}

func TestRelayResolvers(t *testing.T) {
	reader := func(program *ir.Program) (*ir.Program, error) {
		return transforms.RelayResolvers(program, transforms.ResolverModeReader)
	}
	server := func(program *ir.Program) (*ir.Program, error) {
		return transforms.RelayResolvers(program, transforms.ResolverModeServer)
	}
	const input = `
		query Q { viewer { name greeting } }
		fragment UserGreetingResolver on User { name }
	`

	t.Run("reader", runTransform(reader, input, `
		query Q { viewer { name greeting @__relayResolver(fragment_name: "UserGreetingResolver", field_name: "greeting") } }
		fragment UserGreetingResolver on User { name }
	`))
	t.Run("reader is idempotent", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, input)
		once, err := reader(program)
		require.NoError(t, err)
		twice, err := reader(once)
		require.NoError(t, err)
		assert.Same(t, once, twice)
	})
	t.Run("server", runTransform(server, input, `
		query Q { viewer { name ...UserGreetingResolver } }
		fragment UserGreetingResolver on User { name }
	`))
	t.Run("server without resolver fragment", runTransformError(server, `
		query Q { viewer { greeting } }
	`, operationreport.KindResolver))
}

func TestClientExtensions(t *testing.T) {
	t.Run("client fields are grouped", runTransform(transforms.ClientExtensions, `
		query Q { viewer { isSelected name note { text } bestFriend { isSelected id } } }
	`, `
		query Q { viewer { name bestFriend { id ... @__clientExtension { isSelected } } ... @__clientExtension { isSelected note { text } } } }
	`))
	t.Run("fragments on client types are not grouped", runTransform(transforms.ClientExtensions, `
		query Q { viewer { note { ...NoteText } } }
		fragment NoteText on Note { text }
	`, `
		query Q { viewer { ... @__clientExtension { note { ...NoteText } } } }
		fragment NoteText on Note { text }
	`))
	t.Run("server only selections", runKeep(transforms.ClientExtensions, `
		query Q { viewer { name } }
	`))
	t.Run("grouping twice changes nothing", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `query Q { viewer { name isSelected } }`)
		once, err := transforms.ClientExtensions(program)
		require.NoError(t, err)
		twice, err := transforms.ClientExtensions(once)
		require.NoError(t, err)
		assert.Same(t, once, twice)
	})

	t.Run("skip client extensions", runTransform(transforms.SkipClientExtensions, `
		query Q { viewer { name isSelected ... on User { note { text } } ...Client } }
		fragment Client on Note { text }
	`, `
		query Q { viewer { name } }
	`))
	t.Run("skip client directives", runTransform(transforms.SkipClientDirectives, `
		query Q { viewer { friends(first: 1) @connection(key: "Q_friends") { edges { cursor } } } }
	`, `
		query Q { viewer { friends(first: 1) { edges { cursor } } } }
	`))
}

func TestMask(t *testing.T) {
	t.Run("unmasked spreads are inlined", runTransform(transforms.Mask, `
		query Q { viewer { ...Parent } }
		fragment Parent on User { id ...Child @relay(mask: false) }
		fragment Child on User { name }
	`, `
		query Q { viewer { ...Parent } }
		fragment Child on User { name }
		fragment Parent on User { id ... on User { name } }
	`))
	t.Run("masked spreads are kept", runKeep(transforms.Mask, `
		query Q { viewer { ...Child @relay(mask: true) } }
		fragment Child on User { name }
	`))
	t.Run("variables of unmasked fragments become globals", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q($size: Int) { viewer { ...Child @relay(mask: false) } }
			fragment Parent on User { ...Child @relay(mask: false) }
			fragment Child on User @argumentDefinitions(big: {type: "Boolean", defaultValue: false}) { avatar(size: $size) @include(if: $big) }
		`)
		out, err := transforms.Mask(program)
		require.NoError(t, err)

		parent := unsafebuilder.Fragment(out, "Parent")
		assert.Equal(t, []string{"big", "size"}, variableNames(parent.UsedGlobalVariables))
		query := unsafebuilder.Operation(out, "Q")
		assert.Equal(t, []string{"size", "big"}, variableNames(query.VariableDefinitions))
	})
	t.Run("unmasked spread with arguments", runTransformError(transforms.Mask, `
		query Q { viewer { ...Child @relay(mask: false) @arguments(big: true) } }
		fragment Child on User @argumentDefinitions(big: {type: "Boolean", defaultValue: false}) { name @include(if: $big) }
	`, operationreport.KindUnmaskArgumentConflict))
	t.Run("conflicting variable types", runTransformError(transforms.Mask, `
		query Q($size: String) { viewer { ...Child @relay(mask: false) } }
		fragment Child on User @argumentDefinitions(size: {type: "Int"}) { avatar(size: $size) }
	`, operationreport.KindUnmaskArgumentConflict))
}

func variableNames(definitions ir.VariableDefinitions) []string {
	names := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		names = append(names, definition.Name.Item.String())
	}
	return names
}

func TestRefetchableFragment(t *testing.T) {
	run := func(input, expected string) func(t *testing.T) {
		return runTransform(transforms.RefetchableFragment, input, expected)
	}

	t.Run("node type", run(`
		fragment UserProfile on User @refetchable(queryName: "UserProfileQuery") { name }
	`, `
		query UserProfileQuery($id: ID!) { node(id: $id) { ...UserProfile } }
		fragment UserProfile on User @refetchable(queryName: "UserProfileQuery") { name }
	`))
	t.Run("query type", run(`
		fragment Root on Query @refetchable(queryName: "RootQuery") { viewer { name } }
	`, `
		query RootQuery { ...Root }
		fragment Root on Query @refetchable(queryName: "RootQuery") { viewer { name } }
	`))
	t.Run("local and global variables", run(`
		fragment Avatar on User @refetchable(queryName: "AvatarQuery") @argumentDefinitions(size: {type: "Int", defaultValue: 10}) { avatar(size: $size) bestFriend { avatar(size: $friendSize) } }
	`, `
		query AvatarQuery($size: Int = 10, $friendSize: Int, $id: ID!) { node(id: $id) { ...Avatar @arguments(size: $size) } }
		fragment Avatar on User @refetchable(queryName: "AvatarQuery") @argumentDefinitions(size: {type: "Int", defaultValue: 10}) { avatar(size: $size) bestFriend { avatar(size: $friendSize) } }
	`))
	t.Run("default query name", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `fragment viewer_user on User @refetchable { name }`)
		out, err := transforms.RefetchableFragment(program)
		require.NoError(t, err)
		_, ok := out.Operation(intern.Intern("ViewerUserRefetchQuery"))
		assert.True(t, ok)
	})
	t.Run("type without node", runTransformError(transforms.RefetchableFragment, `
		fragment A on Address @refetchable(queryName: "AddressQuery") { city }
	`, operationreport.KindRefetchable))
	t.Run("duplicate query names", runTransformError(transforms.RefetchableFragment, `
		fragment A on User @refetchable(queryName: "Refetch") { name }
		fragment B on User @refetchable(queryName: "Refetch") { id }
	`, operationreport.KindRefetchable))
	t.Run("query name taken by an operation", runTransformError(transforms.RefetchableFragment, `
		query Refetch { viewer { ...A } }
		fragment A on User @refetchable(queryName: "Refetch") { name }
	`, operationreport.KindRefetchable))
	t.Run("query name is not a string", runTransformError(transforms.RefetchableFragment, `
		fragment A on User @refetchable(queryName: 1) { name }
	`, operationreport.KindInvalidArgument))
}

func TestApplyFragmentArguments(t *testing.T) {
	spreads := func(t *testing.T, program *ir.Program, operation string) []*ir.FragmentSpread {
		t.Helper()
		viewer := unsafebuilder.Operation(program, operation).Selections[0].(*ir.LinkedField)
		out := make([]*ir.FragmentSpread, 0, len(viewer.Selections))
		for _, selection := range viewer.Selections {
			spread, ok := selection.(*ir.FragmentSpread)
			require.True(t, ok)
			assert.Empty(t, spread.Arguments)
			out = append(out, spread)
		}
		return out
	}

	t.Run("spreads are specialized per binding", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...Avatar @arguments(size: 10) ...Avatar @arguments(size: 10) ...Avatar @arguments(size: 20) ...Avatar } }
			fragment Avatar on User @argumentDefinitions(size: {type: "Int", defaultValue: 50}) { avatar(size: $size) }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)

		s := spreads(t, out, "Q")
		require.Len(t, s, 4)
		assert.Equal(t, s[0].Fragment.Item, s[1].Fragment.Item)
		assert.NotEqual(t, s[0].Fragment.Item, s[2].Fragment.Item)
		assert.NotEqual(t, s[0].Fragment.Item, s[3].Fragment.Item)
		assert.Equal(t, 3, out.FragmentCount())

		for value, spread := range map[string]*ir.FragmentSpread{"10": s[0], "20": s[2], "50": s[3]} {
			assert.Regexp(t, "^Avatar_[0-9a-f]{16}$", spread.Fragment.Item.String())
			fragment := unsafebuilder.Fragment(out, spread.Fragment.Item.String())
			assert.Empty(t, fragment.VariableDefinitions)
			assert.Equal(t, "avatar(size: "+value+")", printSelection(t, fragment.Selections[0]))
		}
	})

	t.Run("explicit null falls back to the default", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...Avatar @arguments(size: null) ...Avatar } }
			fragment Avatar on User @argumentDefinitions(size: {type: "Int", defaultValue: 50}) { avatar(size: $size) }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)

		s := spreads(t, out, "Q")
		require.Len(t, s, 2)
		assert.Equal(t, s[0].Fragment.Item, s[1].Fragment.Item)
		fragment := unsafebuilder.Fragment(out, s[0].Fragment.Item.String())
		assert.Equal(t, "avatar(size: 50)", printSelection(t, fragment.Selections[0]))
	})

	t.Run("missing argument without default binds null", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...Avatar } }
			fragment Avatar on User @argumentDefinitions(size: {type: "Int"}) { avatar(size: $size) }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)
		fragment := unsafebuilder.Fragment(out, spreads(t, out, "Q")[0].Fragment.Item.String())
		assert.Equal(t, "avatar(size: null)", printSelection(t, fragment.Selections[0]))
	})

	t.Run("global variables are passed through", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q($pictureSize: Int) { viewer { ...Avatar @arguments(size: $pictureSize) } }
			fragment Avatar on User @argumentDefinitions(size: {type: "Int"}) { avatar(size: $size) }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)
		fragment := unsafebuilder.Fragment(out, spreads(t, out, "Q")[0].Fragment.Item.String())
		assert.Equal(t, "avatar(size: $pictureSize)", printSelection(t, fragment.Selections[0]))
		assert.Equal(t, []string{"pictureSize"}, variableNames(fragment.UsedGlobalVariables))
	})

	t.Run("arguments are resolved at every level", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...Outer @arguments(size: 32) } }
			fragment Outer on User @argumentDefinitions(size: {type: "Int"}) { bestFriend { ...Inner @arguments(pictureSize: $size) } }
			fragment Inner on User @argumentDefinitions(pictureSize: {type: "Int", defaultValue: 1}) { avatar(size: $pictureSize) }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)

		outer := unsafebuilder.Fragment(out, spreads(t, out, "Q")[0].Fragment.Item.String())
		bestFriend := outer.Selections[0].(*ir.LinkedField)
		inner := unsafebuilder.Fragment(out, bestFriend.Selections[0].(*ir.FragmentSpread).Fragment.Item.String())
		assert.Equal(t, "avatar(size: 32)", printSelection(t, inner.Selections[0]))
	})

	t.Run("fragments without arguments are shared", func(t *testing.T) {
		program := unsafebuilder.Program(testSchema, `
			query Q { viewer { ...Plain } }
			fragment Plain on User { name }
			fragment Unused on User { id }
		`)
		out, err := transforms.ApplyFragmentArguments(program)
		require.NoError(t, err)
		assert.Same(t, unsafebuilder.Fragment(program, "Plain"), unsafebuilder.Fragment(out, "Plain"))
		assert.Equal(t, 1, out.FragmentCount())
		assert.Same(t, unsafebuilder.Operation(program, "Q"), unsafebuilder.Operation(out, "Q"))
	})
}

// printSelection prints a single field selection on one line.
func printSelection(t *testing.T, selection ir.Selection) string {
	t.Helper()
	field, ok := selection.(*ir.ScalarField)
	require.True(t, ok)
	out := field.Definition.Name.String()
	if len(field.Arguments) == 0 {
		return out
	}
	out += "("
	for i, argument := range field.Arguments {
		if i != 0 {
			out += ", "
		}
		out += argument.Name.Item.String() + ": " + irprinter.ValueString(argument.Value)
	}
	return out + ")"
}
