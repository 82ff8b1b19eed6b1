// Package irvisitor walks and rewrites the typed IR.
//
// A Walker observes a tree, a Transformer rebuilds it with copy-on-write semantics. Both
// work the same way: the implementation embeds the engine, implements only the hooks for
// the node kinds it cares about and calls the matching Default method to continue into
// the children (or doesn't, to skip them). Every node kind the implementation has no hook
// for gets the default recursive descent.
//
//	type usedVariables struct {
//		*irvisitor.Walker
//		names intern.StringKeySet
//	}
//
//	func (u *usedVariables) VisitVariable(variable *ir.Variable) {
//		u.names.Add(variable.Name.Item)
//	}
//
//	v := &usedVariables{names: intern.StringKeySet{}}
//	v.Walker = irvisitor.NewWalker(v)
//	v.WalkProgram(program)
//
// Fragment spreads are never followed into the spread fragment, implementations that
// need the fragment body look it up themselves.
package irvisitor

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

type config struct {
	visitArguments  bool
	visitDirectives bool
}

func defaultConfig() config {
	return config{
		visitArguments:  true,
		visitDirectives: true,
	}
}

type Option func(c *config)

// WithVisitArguments controls whether field and spread arguments are traversed.
// Disabling it is an optimization for passes that never look at arguments.
func WithVisitArguments(visit bool) Option {
	return func(c *config) {
		c.visitArguments = visit
	}
}

// WithVisitDirectives controls whether directives are traversed.
func WithVisitDirectives(visit bool) Option {
	return func(c *config) {
		c.visitDirectives = visit
	}
}

type OperationVisitor interface {
	VisitOperation(operation *ir.Operation)
}

type FragmentVisitor interface {
	VisitFragment(fragment *ir.Fragment)
}

type SelectionsVisitor interface {
	VisitSelections(selections []ir.Selection)
}

type LinkedFieldVisitor interface {
	VisitLinkedField(field *ir.LinkedField)
}

type ScalarFieldVisitor interface {
	VisitScalarField(field *ir.ScalarField)
}

type InlineFragmentVisitor interface {
	VisitInlineFragment(fragment *ir.InlineFragment)
}

type FragmentSpreadVisitor interface {
	VisitFragmentSpread(spread *ir.FragmentSpread)
}

type ConditionVisitor interface {
	VisitCondition(condition *ir.Condition)
}

type DirectiveVisitor interface {
	VisitDirective(directive *ir.Directive)
}

type ArgumentVisitor interface {
	VisitArgument(argument *ir.Argument)
}

type ValueVisitor interface {
	VisitValue(value ir.Value)
}

type VariableVisitor interface {
	VisitVariable(variable *ir.Variable)
}

type ConstantValueVisitor interface {
	VisitConstantValue(value ir.ConstantValue)
}

type VariableDefinitionVisitor interface {
	VisitVariableDefinition(definition *ir.VariableDefinition)
}

// Walker is the read-only traversal engine.
type Walker struct {
	config

	operation          OperationVisitor
	fragment           FragmentVisitor
	selections         SelectionsVisitor
	linkedField        LinkedFieldVisitor
	scalarField        ScalarFieldVisitor
	inlineFragment     InlineFragmentVisitor
	fragmentSpread     FragmentSpreadVisitor
	condition          ConditionVisitor
	directive          DirectiveVisitor
	argument           ArgumentVisitor
	value              ValueVisitor
	variable           VariableVisitor
	constantValue      ConstantValueVisitor
	variableDefinition VariableDefinitionVisitor
}

// NewWalker resolves the hooks impl implements. impl may be nil for a plain traversal.
func NewWalker(impl interface{}, options ...Option) *Walker {
	w := &Walker{
		config: defaultConfig(),
	}
	for _, option := range options {
		option(&w.config)
	}
	w.operation, _ = impl.(OperationVisitor)
	w.fragment, _ = impl.(FragmentVisitor)
	w.selections, _ = impl.(SelectionsVisitor)
	w.linkedField, _ = impl.(LinkedFieldVisitor)
	w.scalarField, _ = impl.(ScalarFieldVisitor)
	w.inlineFragment, _ = impl.(InlineFragmentVisitor)
	w.fragmentSpread, _ = impl.(FragmentSpreadVisitor)
	w.condition, _ = impl.(ConditionVisitor)
	w.directive, _ = impl.(DirectiveVisitor)
	w.argument, _ = impl.(ArgumentVisitor)
	w.value, _ = impl.(ValueVisitor)
	w.variable, _ = impl.(VariableVisitor)
	w.constantValue, _ = impl.(ConstantValueVisitor)
	w.variableDefinition, _ = impl.(VariableDefinitionVisitor)
	return w
}

// WalkProgram visits all fragments ordered by name, then all operations in order.
func (w *Walker) WalkProgram(program *ir.Program) {
	for _, fragment := range program.Fragments() {
		w.WalkFragment(fragment)
	}
	for _, operation := range program.Operations() {
		w.WalkOperation(operation)
	}
}

func (w *Walker) WalkDefinition(definition ir.ExecutableDefinition) {
	switch d := definition.(type) {
	case *ir.Operation:
		w.WalkOperation(d)
	case *ir.Fragment:
		w.WalkFragment(d)
	}
}

func (w *Walker) WalkOperation(operation *ir.Operation) {
	if w.operation != nil {
		w.operation.VisitOperation(operation)
		return
	}
	w.DefaultVisitOperation(operation)
}

func (w *Walker) DefaultVisitOperation(operation *ir.Operation) {
	for _, definition := range operation.VariableDefinitions {
		w.WalkVariableDefinition(definition)
	}
	w.walkDirectives(operation.Directives)
	w.WalkSelections(operation.Selections)
}

func (w *Walker) WalkFragment(fragment *ir.Fragment) {
	if w.fragment != nil {
		w.fragment.VisitFragment(fragment)
		return
	}
	w.DefaultVisitFragment(fragment)
}

func (w *Walker) DefaultVisitFragment(fragment *ir.Fragment) {
	for _, definition := range fragment.VariableDefinitions {
		w.WalkVariableDefinition(definition)
	}
	w.walkDirectives(fragment.Directives)
	w.WalkSelections(fragment.Selections)
}

func (w *Walker) WalkSelections(selections []ir.Selection) {
	if w.selections != nil {
		w.selections.VisitSelections(selections)
		return
	}
	w.DefaultVisitSelections(selections)
}

func (w *Walker) DefaultVisitSelections(selections []ir.Selection) {
	for _, selection := range selections {
		w.WalkSelection(selection)
	}
}

func (w *Walker) WalkSelection(selection ir.Selection) {
	switch s := selection.(type) {
	case *ir.LinkedField:
		w.WalkLinkedField(s)
	case *ir.ScalarField:
		w.WalkScalarField(s)
	case *ir.InlineFragment:
		w.WalkInlineFragment(s)
	case *ir.FragmentSpread:
		w.WalkFragmentSpread(s)
	case *ir.Condition:
		w.WalkCondition(s)
	}
}

func (w *Walker) WalkLinkedField(field *ir.LinkedField) {
	if w.linkedField != nil {
		w.linkedField.VisitLinkedField(field)
		return
	}
	w.DefaultVisitLinkedField(field)
}

func (w *Walker) DefaultVisitLinkedField(field *ir.LinkedField) {
	w.walkArguments(field.Arguments)
	w.walkDirectives(field.Directives)
	w.WalkSelections(field.Selections)
}

func (w *Walker) WalkScalarField(field *ir.ScalarField) {
	if w.scalarField != nil {
		w.scalarField.VisitScalarField(field)
		return
	}
	w.DefaultVisitScalarField(field)
}

func (w *Walker) DefaultVisitScalarField(field *ir.ScalarField) {
	w.walkArguments(field.Arguments)
	w.walkDirectives(field.Directives)
}

func (w *Walker) WalkInlineFragment(fragment *ir.InlineFragment) {
	if w.inlineFragment != nil {
		w.inlineFragment.VisitInlineFragment(fragment)
		return
	}
	w.DefaultVisitInlineFragment(fragment)
}

func (w *Walker) DefaultVisitInlineFragment(fragment *ir.InlineFragment) {
	w.walkDirectives(fragment.Directives)
	w.WalkSelections(fragment.Selections)
}

func (w *Walker) WalkFragmentSpread(spread *ir.FragmentSpread) {
	if w.fragmentSpread != nil {
		w.fragmentSpread.VisitFragmentSpread(spread)
		return
	}
	w.DefaultVisitFragmentSpread(spread)
}

func (w *Walker) DefaultVisitFragmentSpread(spread *ir.FragmentSpread) {
	w.walkArguments(spread.Arguments)
	w.walkDirectives(spread.Directives)
}

func (w *Walker) WalkCondition(condition *ir.Condition) {
	if w.condition != nil {
		w.condition.VisitCondition(condition)
		return
	}
	w.DefaultVisitCondition(condition)
}

func (w *Walker) DefaultVisitCondition(condition *ir.Condition) {
	w.WalkValue(condition.Value)
	w.WalkSelections(condition.Selections)
}

func (w *Walker) walkDirectives(directives ir.Directives) {
	if !w.visitDirectives {
		return
	}
	for _, directive := range directives {
		w.WalkDirective(directive)
	}
}

func (w *Walker) WalkDirective(directive *ir.Directive) {
	if w.directive != nil {
		w.directive.VisitDirective(directive)
		return
	}
	w.DefaultVisitDirective(directive)
}

func (w *Walker) DefaultVisitDirective(directive *ir.Directive) {
	for _, argument := range directive.Arguments {
		w.WalkArgument(argument)
	}
}

func (w *Walker) walkArguments(arguments ir.Arguments) {
	if !w.visitArguments {
		return
	}
	for _, argument := range arguments {
		w.WalkArgument(argument)
	}
}

func (w *Walker) WalkArgument(argument *ir.Argument) {
	if w.argument != nil {
		w.argument.VisitArgument(argument)
		return
	}
	w.DefaultVisitArgument(argument)
}

func (w *Walker) DefaultVisitArgument(argument *ir.Argument) {
	w.WalkValue(argument.Value)
}

func (w *Walker) WalkValue(value ir.Value) {
	if w.value != nil {
		w.value.VisitValue(value)
		return
	}
	w.DefaultVisitValue(value)
}

func (w *Walker) DefaultVisitValue(value ir.Value) {
	switch v := value.(type) {
	case *ir.Variable:
		w.WalkVariable(v)
	case *ir.Constant:
		w.WalkConstantValue(v.Value)
	case *ir.ListValue:
		for _, item := range v.Items {
			w.WalkValue(item)
		}
	case *ir.ObjectValue:
		for _, field := range v.Fields {
			w.WalkValue(field.Value)
		}
	}
}

func (w *Walker) WalkVariable(variable *ir.Variable) {
	if w.variable != nil {
		w.variable.VisitVariable(variable)
	}
}

func (w *Walker) WalkConstantValue(value ir.ConstantValue) {
	if w.constantValue != nil {
		w.constantValue.VisitConstantValue(value)
	}
}

func (w *Walker) WalkVariableDefinition(definition *ir.VariableDefinition) {
	if w.variableDefinition != nil {
		w.variableDefinition.VisitVariableDefinition(definition)
		return
	}
	w.DefaultVisitVariableDefinition(definition)
}

func (w *Walker) DefaultVisitVariableDefinition(definition *ir.VariableDefinition) {
	if definition.DefaultValue != nil {
		w.WalkConstantValue(definition.DefaultValue)
	}
	w.walkDirectives(definition.Directives)
}
