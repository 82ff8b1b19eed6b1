package irvisitor

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

type Action int

const (
	ActionKeep Action = iota
	ActionReplace
	ActionDelete
)

// Transformed is the result of transforming one node: keep it as is, replace it or remove it
// from its parent.
type Transformed[T any] struct {
	Action Action
	Value  T
}

func Keep[T any]() Transformed[T] {
	return Transformed[T]{Action: ActionKeep}
}

func Replace[T any](value T) Transformed[T] {
	return Transformed[T]{Action: ActionReplace, Value: value}
}

func Delete[T any]() Transformed[T] {
	return Transformed[T]{Action: ActionDelete}
}

func (t Transformed[T]) IsKeep() bool    { return t.Action == ActionKeep }
func (t Transformed[T]) IsReplace() bool { return t.Action == ActionReplace }
func (t Transformed[T]) IsDelete() bool  { return t.Action == ActionDelete }

// Or returns the replacement, or original when the node is kept.
func (t Transformed[T]) Or(original T) T {
	if t.Action == ActionReplace {
		return t.Value
	}
	return original
}

// TransformList applies transform to every item. The result is Keep only if every item was
// kept, otherwise a new slice holding the kept originals, the replacements and none of the
// deleted items. The input slice is never written to.
func TransformList[T any](items []T, transform func(T) Transformed[T]) Transformed[[]T] {
	var (
		out     []T
		changed bool
	)
	for i, item := range items {
		next := transform(item)
		if !changed {
			if next.Action == ActionKeep {
				continue
			}
			changed = true
			out = make([]T, 0, len(items))
			out = append(out, items[:i]...)
		}
		switch next.Action {
		case ActionKeep:
			out = append(out, item)
		case ActionReplace:
			out = append(out, next.Value)
		}
	}
	if !changed {
		return Keep[[]T]()
	}
	return Replace(out)
}

type OperationTransformer interface {
	TransformOperation(operation *ir.Operation) Transformed[*ir.Operation]
}

type FragmentTransformer interface {
	TransformFragment(fragment *ir.Fragment) Transformed[*ir.Fragment]
}

type SelectionsTransformer interface {
	TransformSelections(selections []ir.Selection) Transformed[[]ir.Selection]
}

type LinkedFieldTransformer interface {
	TransformLinkedField(field *ir.LinkedField) Transformed[ir.Selection]
}

type ScalarFieldTransformer interface {
	TransformScalarField(field *ir.ScalarField) Transformed[ir.Selection]
}

type InlineFragmentTransformer interface {
	TransformInlineFragment(fragment *ir.InlineFragment) Transformed[ir.Selection]
}

type FragmentSpreadTransformer interface {
	TransformFragmentSpread(spread *ir.FragmentSpread) Transformed[ir.Selection]
}

type ConditionTransformer interface {
	TransformCondition(condition *ir.Condition) Transformed[ir.Selection]
}

type DirectiveTransformer interface {
	TransformDirective(directive *ir.Directive) Transformed[*ir.Directive]
}

type ArgumentTransformer interface {
	TransformArgument(argument *ir.Argument) Transformed[*ir.Argument]
}

// ValueTransformer rewrites argument values. Deleting a value removes the enclosing argument,
// list item or object field.
type ValueTransformer interface {
	TransformValue(value ir.Value) Transformed[ir.Value]
}

type VariableDefinitionTransformer interface {
	TransformVariableDefinition(definition *ir.VariableDefinition) Transformed[*ir.VariableDefinition]
}

// Transformer is the copy-on-write traversal engine. Every Default method returns Keep when
// no descendant changed, so untouched subtrees are shared between input and output.
//
// Linked fields, inline fragments and conditions whose selections all got deleted are
// deleted themselves. Operations and fragments are never deleted by the defaults.
type Transformer struct {
	config

	operation          OperationTransformer
	fragment           FragmentTransformer
	selections         SelectionsTransformer
	linkedField        LinkedFieldTransformer
	scalarField        ScalarFieldTransformer
	inlineFragment     InlineFragmentTransformer
	fragmentSpread     FragmentSpreadTransformer
	condition          ConditionTransformer
	directive          DirectiveTransformer
	argument           ArgumentTransformer
	value              ValueTransformer
	variableDefinition VariableDefinitionTransformer
}

// NewTransformer resolves the hooks impl implements.
func NewTransformer(impl interface{}, options ...Option) *Transformer {
	t := &Transformer{
		config: defaultConfig(),
	}
	for _, option := range options {
		option(&t.config)
	}
	t.operation, _ = impl.(OperationTransformer)
	t.fragment, _ = impl.(FragmentTransformer)
	t.selections, _ = impl.(SelectionsTransformer)
	t.linkedField, _ = impl.(LinkedFieldTransformer)
	t.scalarField, _ = impl.(ScalarFieldTransformer)
	t.inlineFragment, _ = impl.(InlineFragmentTransformer)
	t.fragmentSpread, _ = impl.(FragmentSpreadTransformer)
	t.condition, _ = impl.(ConditionTransformer)
	t.directive, _ = impl.(DirectiveTransformer)
	t.argument, _ = impl.(ArgumentTransformer)
	t.value, _ = impl.(ValueTransformer)
	t.variableDefinition, _ = impl.(VariableDefinitionTransformer)
	return t
}

// TransformProgram transforms all operations, then all fragments ordered by name. It returns
// program itself when every definition was kept.
func (t *Transformer) TransformProgram(program *ir.Program) *ir.Program {
	out := program.CloneWithoutDefinitions()
	changed := false
	for _, operation := range program.Operations() {
		next := t.WalkOperation(operation)
		switch next.Action {
		case ActionKeep:
			out.InsertOperation(operation)
		case ActionReplace:
			changed = true
			out.InsertOperation(next.Value)
		case ActionDelete:
			changed = true
		}
	}
	for _, fragment := range program.Fragments() {
		next := t.WalkFragment(fragment)
		switch next.Action {
		case ActionKeep:
			out.InsertFragment(fragment)
		case ActionReplace:
			changed = true
			out.InsertFragment(next.Value)
		case ActionDelete:
			changed = true
		}
	}
	if !changed {
		return program
	}
	return out
}

func (t *Transformer) WalkOperation(operation *ir.Operation) Transformed[*ir.Operation] {
	if t.operation != nil {
		return t.operation.TransformOperation(operation)
	}
	return t.DefaultTransformOperation(operation)
}

func (t *Transformer) DefaultTransformOperation(operation *ir.Operation) Transformed[*ir.Operation] {
	variableDefinitions := t.TransformVariableDefinitions(operation.VariableDefinitions)
	directives := t.TransformDirectives(operation.Directives)
	selections := t.WalkSelections(operation.Selections)
	if variableDefinitions.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[*ir.Operation]()
	}
	next := *operation
	next.VariableDefinitions = variableDefinitions.Or(operation.VariableDefinitions)
	next.Directives = directives.Or(operation.Directives)
	next.Selections = selections.Or(operation.Selections)
	return Replace(&next)
}

func (t *Transformer) WalkFragment(fragment *ir.Fragment) Transformed[*ir.Fragment] {
	if t.fragment != nil {
		return t.fragment.TransformFragment(fragment)
	}
	return t.DefaultTransformFragment(fragment)
}

func (t *Transformer) DefaultTransformFragment(fragment *ir.Fragment) Transformed[*ir.Fragment] {
	variableDefinitions := t.TransformVariableDefinitions(fragment.VariableDefinitions)
	directives := t.TransformDirectives(fragment.Directives)
	selections := t.WalkSelections(fragment.Selections)
	if variableDefinitions.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[*ir.Fragment]()
	}
	next := *fragment
	next.VariableDefinitions = variableDefinitions.Or(fragment.VariableDefinitions)
	next.Directives = directives.Or(fragment.Directives)
	next.Selections = selections.Or(fragment.Selections)
	return Replace(&next)
}

func (t *Transformer) WalkSelections(selections []ir.Selection) Transformed[[]ir.Selection] {
	if t.selections != nil {
		return t.selections.TransformSelections(selections)
	}
	return t.DefaultTransformSelections(selections)
}

func (t *Transformer) DefaultTransformSelections(selections []ir.Selection) Transformed[[]ir.Selection] {
	return TransformList(selections, t.WalkSelection)
}

func (t *Transformer) WalkSelection(selection ir.Selection) Transformed[ir.Selection] {
	switch s := selection.(type) {
	case *ir.LinkedField:
		if t.linkedField != nil {
			return t.linkedField.TransformLinkedField(s)
		}
		return t.DefaultTransformLinkedField(s)
	case *ir.ScalarField:
		if t.scalarField != nil {
			return t.scalarField.TransformScalarField(s)
		}
		return t.DefaultTransformScalarField(s)
	case *ir.InlineFragment:
		if t.inlineFragment != nil {
			return t.inlineFragment.TransformInlineFragment(s)
		}
		return t.DefaultTransformInlineFragment(s)
	case *ir.FragmentSpread:
		if t.fragmentSpread != nil {
			return t.fragmentSpread.TransformFragmentSpread(s)
		}
		return t.DefaultTransformFragmentSpread(s)
	case *ir.Condition:
		if t.condition != nil {
			return t.condition.TransformCondition(s)
		}
		return t.DefaultTransformCondition(s)
	}
	return Keep[ir.Selection]()
}

func (t *Transformer) DefaultTransformLinkedField(field *ir.LinkedField) Transformed[ir.Selection] {
	arguments := t.TransformArguments(field.Arguments)
	directives := t.TransformDirectives(field.Directives)
	selections := t.WalkSelections(field.Selections)
	if arguments.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[ir.Selection]()
	}
	if selections.IsReplace() && len(selections.Value) == 0 {
		return Delete[ir.Selection]()
	}
	next := *field
	next.Arguments = arguments.Or(field.Arguments)
	next.Directives = directives.Or(field.Directives)
	next.Selections = selections.Or(field.Selections)
	return Replace[ir.Selection](&next)
}

func (t *Transformer) DefaultTransformScalarField(field *ir.ScalarField) Transformed[ir.Selection] {
	arguments := t.TransformArguments(field.Arguments)
	directives := t.TransformDirectives(field.Directives)
	if arguments.IsKeep() && directives.IsKeep() {
		return Keep[ir.Selection]()
	}
	next := *field
	next.Arguments = arguments.Or(field.Arguments)
	next.Directives = directives.Or(field.Directives)
	return Replace[ir.Selection](&next)
}

func (t *Transformer) DefaultTransformInlineFragment(fragment *ir.InlineFragment) Transformed[ir.Selection] {
	directives := t.TransformDirectives(fragment.Directives)
	selections := t.WalkSelections(fragment.Selections)
	if directives.IsKeep() && selections.IsKeep() {
		return Keep[ir.Selection]()
	}
	if selections.IsReplace() && len(selections.Value) == 0 {
		return Delete[ir.Selection]()
	}
	next := *fragment
	next.Directives = directives.Or(fragment.Directives)
	next.Selections = selections.Or(fragment.Selections)
	return Replace[ir.Selection](&next)
}

func (t *Transformer) DefaultTransformFragmentSpread(spread *ir.FragmentSpread) Transformed[ir.Selection] {
	arguments := t.TransformArguments(spread.Arguments)
	directives := t.TransformDirectives(spread.Directives)
	if arguments.IsKeep() && directives.IsKeep() {
		return Keep[ir.Selection]()
	}
	next := *spread
	next.Arguments = arguments.Or(spread.Arguments)
	next.Directives = directives.Or(spread.Directives)
	return Replace[ir.Selection](&next)
}

func (t *Transformer) DefaultTransformCondition(condition *ir.Condition) Transformed[ir.Selection] {
	value := t.WalkValue(condition.Value)
	selections := t.WalkSelections(condition.Selections)
	if value.IsKeep() && selections.IsKeep() {
		return Keep[ir.Selection]()
	}
	if selections.IsReplace() && len(selections.Value) == 0 {
		return Delete[ir.Selection]()
	}
	next := *condition
	if !value.IsDelete() {
		next.Value = value.Or(condition.Value)
	}
	next.Selections = selections.Or(condition.Selections)
	return Replace[ir.Selection](&next)
}

// TransformDirectives transforms directives unless directive traversal is disabled.
func (t *Transformer) TransformDirectives(directives ir.Directives) Transformed[ir.Directives] {
	if !t.visitDirectives || len(directives) == 0 {
		return Keep[ir.Directives]()
	}
	next := TransformList([]*ir.Directive(directives), t.WalkDirective)
	if next.IsKeep() {
		return Keep[ir.Directives]()
	}
	return Replace(ir.Directives(next.Value))
}

func (t *Transformer) WalkDirective(directive *ir.Directive) Transformed[*ir.Directive] {
	if t.directive != nil {
		return t.directive.TransformDirective(directive)
	}
	return t.DefaultTransformDirective(directive)
}

func (t *Transformer) DefaultTransformDirective(directive *ir.Directive) Transformed[*ir.Directive] {
	arguments := t.transformArgumentList(directive.Arguments)
	if arguments.IsKeep() {
		return Keep[*ir.Directive]()
	}
	next := *directive
	next.Arguments = arguments.Value
	return Replace(&next)
}

// TransformArguments transforms field or spread arguments unless argument traversal is disabled.
func (t *Transformer) TransformArguments(arguments ir.Arguments) Transformed[ir.Arguments] {
	if !t.visitArguments {
		return Keep[ir.Arguments]()
	}
	return t.transformArgumentList(arguments)
}

func (t *Transformer) transformArgumentList(arguments ir.Arguments) Transformed[ir.Arguments] {
	if len(arguments) == 0 {
		return Keep[ir.Arguments]()
	}
	next := TransformList([]*ir.Argument(arguments), t.WalkArgument)
	if next.IsKeep() {
		return Keep[ir.Arguments]()
	}
	return Replace(ir.Arguments(next.Value))
}

func (t *Transformer) WalkArgument(argument *ir.Argument) Transformed[*ir.Argument] {
	if t.argument != nil {
		return t.argument.TransformArgument(argument)
	}
	return t.DefaultTransformArgument(argument)
}

func (t *Transformer) DefaultTransformArgument(argument *ir.Argument) Transformed[*ir.Argument] {
	value := t.WalkValue(argument.Value)
	switch value.Action {
	case ActionDelete:
		return Delete[*ir.Argument]()
	case ActionReplace:
		return Replace(&ir.Argument{Name: argument.Name, Value: value.Value})
	default:
		return Keep[*ir.Argument]()
	}
}

func (t *Transformer) WalkValue(value ir.Value) Transformed[ir.Value] {
	if t.value != nil {
		return t.value.TransformValue(value)
	}
	return t.DefaultTransformValue(value)
}

func (t *Transformer) DefaultTransformValue(value ir.Value) Transformed[ir.Value] {
	switch v := value.(type) {
	case *ir.ListValue:
		items := TransformList(v.Items, t.WalkValue)
		if items.IsKeep() {
			return Keep[ir.Value]()
		}
		return Replace[ir.Value](&ir.ListValue{Items: items.Value, Location: v.Location})
	case *ir.ObjectValue:
		fields := TransformList(v.Fields, func(field ir.ValueField) Transformed[ir.ValueField] {
			next := t.WalkValue(field.Value)
			switch next.Action {
			case ActionDelete:
				return Delete[ir.ValueField]()
			case ActionReplace:
				return Replace(ir.ValueField{Name: field.Name, Value: next.Value})
			default:
				return Keep[ir.ValueField]()
			}
		})
		if fields.IsKeep() {
			return Keep[ir.Value]()
		}
		return Replace[ir.Value](&ir.ObjectValue{Fields: fields.Value, Location: v.Location})
	}
	return Keep[ir.Value]()
}

func (t *Transformer) TransformVariableDefinitions(definitions ir.VariableDefinitions) Transformed[ir.VariableDefinitions] {
	if t.variableDefinition == nil || len(definitions) == 0 {
		return Keep[ir.VariableDefinitions]()
	}
	next := TransformList([]*ir.VariableDefinition(definitions), t.variableDefinition.TransformVariableDefinition)
	if next.IsKeep() {
		return Keep[ir.VariableDefinitions]()
	}
	return Replace(ir.VariableDefinitions(next.Value))
}
