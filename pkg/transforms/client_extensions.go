package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
)

// ClientExtensions moves the selections of client-only fields and of inline fragments on
// client-only types out of every selection list into one trailing inline fragment marked
// @__clientExtension. The order of the remaining selections is preserved.
func ClientExtensions(program *ir.Program) (*ir.Program, error) {
	t := &clientExtensionTransform{}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type clientExtensionTransform struct {
	*irvisitor.Transformer
}

// TransformFragment keeps fragments on client-only types as they are. Their spreads only
// occur below client selections, which are already grouped.
func (t *clientExtensionTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	if fragment.TypeCondition.IsExtension {
		return irvisitor.Keep[*ir.Fragment]()
	}
	return t.DefaultTransformFragment(fragment)
}

func (t *clientExtensionTransform) TransformSelections(selections []ir.Selection) irvisitor.Transformed[[]ir.Selection] {
	var (
		server  = make([]ir.Selection, 0, len(selections))
		client  []ir.Selection
		changed bool
	)
	for _, selection := range selections {
		if isClientSelection(selection) {
			client = append(client, selection)
			continue
		}
		if isClientExtensionFragment(selection) {
			server = append(server, selection)
			continue
		}
		next := t.WalkSelection(selection)
		switch next.Action {
		case irvisitor.ActionKeep:
			server = append(server, selection)
		case irvisitor.ActionReplace:
			changed = true
			server = append(server, next.Value)
		case irvisitor.ActionDelete:
			changed = true
		}
	}
	if len(client) == 0 {
		if !changed {
			return irvisitor.Keep[[]ir.Selection]()
		}
		return irvisitor.Replace(server)
	}
	return irvisitor.Replace(append(server, &ir.InlineFragment{
		Directives: ir.Directives{{Name: ir.Named(literal.CLIENT_EXTENSION)}},
		Selections: client,
		Location:   ir.Generated,
	}))
}

func isClientSelection(selection ir.Selection) bool {
	switch s := selection.(type) {
	case *ir.ScalarField:
		return s.Definition.IsExtension
	case *ir.LinkedField:
		return s.Definition.IsExtension
	case *ir.InlineFragment:
		return s.TypeCondition != nil && s.TypeCondition.IsExtension
	}
	return false
}

func isClientExtensionFragment(selection ir.Selection) bool {
	fragment, ok := selection.(*ir.InlineFragment)
	if !ok {
		return false
	}
	_, marked := fragment.Directives.Named(literal.CLIENT_EXTENSION)
	return marked
}

// SkipClientExtensions removes everything the server does not know about: client-only fields,
// inline fragments on client-only types, @__clientExtension fragments, and fragments on
// client-only types together with their spreads.
func SkipClientExtensions(program *ir.Program) (*ir.Program, error) {
	t := &skipClientExtensionTransform{program: program}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type skipClientExtensionTransform struct {
	*irvisitor.Transformer
	program *ir.Program
}

func (t *skipClientExtensionTransform) TransformFragment(fragment *ir.Fragment) irvisitor.Transformed[*ir.Fragment] {
	if fragment.TypeCondition.IsExtension {
		return irvisitor.Delete[*ir.Fragment]()
	}
	return t.DefaultTransformFragment(fragment)
}

func (t *skipClientExtensionTransform) TransformScalarField(field *ir.ScalarField) irvisitor.Transformed[ir.Selection] {
	if field.Definition.IsExtension {
		return irvisitor.Delete[ir.Selection]()
	}
	return irvisitor.Keep[ir.Selection]()
}

func (t *skipClientExtensionTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	if field.Definition.IsExtension {
		return irvisitor.Delete[ir.Selection]()
	}
	return t.DefaultTransformLinkedField(field)
}

func (t *skipClientExtensionTransform) TransformInlineFragment(fragment *ir.InlineFragment) irvisitor.Transformed[ir.Selection] {
	if isClientSelection(fragment) || isClientExtensionFragment(fragment) {
		return irvisitor.Delete[ir.Selection]()
	}
	return t.DefaultTransformInlineFragment(fragment)
}

func (t *skipClientExtensionTransform) TransformFragmentSpread(spread *ir.FragmentSpread) irvisitor.Transformed[ir.Selection] {
	if fragment, ok := t.program.Fragment(spread.Fragment.Item); ok && fragment.TypeCondition.IsExtension {
		return irvisitor.Delete[ir.Selection]()
	}
	return irvisitor.Keep[ir.Selection]()
}

// SkipClientDirectives removes the directives only the compiler understands, so the printed
// documents can be sent to a server.
func SkipClientDirectives(program *ir.Program) (*ir.Program, error) {
	t := &skipClientDirectivesTransform{}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false))
	return t.TransformProgram(program), nil
}

type skipClientDirectivesTransform struct {
	*irvisitor.Transformer
}

func (t *skipClientDirectivesTransform) TransformDirective(directive *ir.Directive) irvisitor.Transformed[*ir.Directive] {
	if literal.CompilerDirectives.Contains(directive.Name.Item) {
		return irvisitor.Delete[*ir.Directive]()
	}
	return irvisitor.Keep[*ir.Directive]()
}
