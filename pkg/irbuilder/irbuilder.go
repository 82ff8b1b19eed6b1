// Package irbuilder binds parsed executable documents to a schema and produces the typed IR.
//
// Problems in the documents are collected as diagnostics, a definition with an error is
// still built as far as possible so one compilation reports every independent problem.
package irbuilder

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

var (
	booleanType    = ir.NamedType{Type: intern.Intern("Boolean")}
	nonNullBoolean = ir.NonNullType{Of: booleanType}
	stringType     = ir.NamedType{Type: intern.Intern("String")}
	idType         = ir.NamedType{Type: literal.IDType}
)

// compilerDirectiveArguments types the arguments of directives the compiler understands but
// the schema usually does not declare, so variables passed to them get a type.
var compilerDirectiveArguments = map[intern.StringKey]map[intern.StringKey]ir.TypeReference{
	literal.CONNECTION: {
		literal.KEY:     ir.NonNullType{Of: stringType},
		literal.FILTERS: ir.ListType{Of: stringType},
	},
	literal.RELAY: {
		literal.MASK: booleanType,
	},
	literal.REFETCHABLE: {
		literal.QUERY_NAME: ir.NonNullType{Of: stringType},
	},
	literal.APPEND_EDGE:  {literal.CONNECTIONS: ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: idType}}}},
	literal.PREPEND_EDGE: {literal.CONNECTIONS: ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: idType}}}},
	literal.APPEND_NODE: {
		literal.CONNECTIONS:   ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: idType}}},
		literal.EDGE_TYPENAME: ir.NonNullType{Of: stringType},
	},
	literal.PREPEND_NODE: {
		literal.CONNECTIONS:   ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: idType}}},
		literal.EDGE_TYPENAME: ir.NonNullType{Of: stringType},
	},
	literal.DELETE_EDGE: {literal.CONNECTIONS: ir.NonNullType{Of: ir.ListType{Of: ir.NonNullType{Of: idType}}}},
}

// Builder turns documents into executable definitions. A Builder is used for one build.
type Builder struct {
	schema     schema.Schema
	report     operationreport.Report
	signatures map[intern.StringKey]*signature
	names      map[intern.StringKey]ir.Location
}

// signature is what a spread needs to know about its fragment before the fragment is built.
type signature struct {
	name                ir.WithLocation
	typeCondition       *schema.Type
	variableDefinitions ir.VariableDefinitions
}

// definitionContext tracks variables while one definition is built.
type definitionContext struct {
	isFragment bool
	// variables are the operation variables or the fragment's local arguments.
	variables ir.VariableDefinitions
	// used collects the global variables referenced by a fragment.
	used ir.VariableDefinitions
}

func NewBuilder(s schema.Schema) *Builder {
	return &Builder{
		schema:     s,
		signatures: make(map[intern.StringKey]*signature),
		names:      make(map[intern.StringKey]ir.Location),
	}
}

// Build binds documents to s. Definitions are returned in document order, operations of a
// document before its fragments. The error is operationreport.Diagnostics.
func Build(s schema.Schema, documents ...*ast.QueryDocument) ([]ir.ExecutableDefinition, error) {
	return NewBuilder(s).Build(documents...)
}

// BuildSource parses and builds sources.
func BuildSource(s schema.Schema, sources ...*ast.Source) ([]ir.ExecutableDefinition, error) {
	documents, err := Parse(sources...)
	if err != nil {
		return nil, err
	}
	return Build(s, documents...)
}

// BuildString builds a single in-memory document.
func BuildString(s schema.Schema, name, input string) ([]ir.ExecutableDefinition, error) {
	return BuildSource(s, &ast.Source{Name: name, Input: input})
}

// Parse parses sources, syntax errors are returned as operationreport.Diagnostics.
func Parse(sources ...*ast.Source) ([]*ast.QueryDocument, error) {
	report := operationreport.Report{}
	documents := make([]*ast.QueryDocument, 0, len(sources))
	for _, source := range sources {
		document, parseErr := parser.ParseQuery(source)
		if parseErr != nil {
			report.AddDiagnostic(syntaxDiagnostic(source, parseErr))
			continue
		}
		documents = append(documents, document)
	}
	if report.HasErrors() {
		return nil, report.Err()
	}
	return documents, nil
}

func (b *Builder) Build(documents ...*ast.QueryDocument) ([]ir.ExecutableDefinition, error) {
	for _, document := range documents {
		for _, fragment := range document.Fragments {
			b.registerFragment(fragment)
		}
	}

	var definitions []ir.ExecutableDefinition
	for _, document := range documents {
		for _, operation := range document.Operations {
			if built := b.buildOperation(operation); built != nil {
				definitions = append(definitions, built)
			}
		}
		for _, fragment := range document.Fragments {
			if built := b.buildFragment(fragment); built != nil {
				definitions = append(definitions, built)
			}
		}
	}

	if b.report.HasErrors() {
		return nil, b.report.Err()
	}
	return definitions, nil
}

// claimName reports false for a name that is already taken by another definition.
func (b *Builder) claimName(name intern.StringKey, loc ir.Location) bool {
	if first, ok := b.names[name]; ok {
		if first != loc {
			b.report.AddDiagnostic(operationreport.ErrDuplicateDefinition(name, first, loc))
		}
		return false
	}
	b.names[name] = loc
	return true
}

func (b *Builder) registerFragment(fragment *ast.FragmentDefinition) {
	name := ir.WithLocation{Item: intern.Intern(fragment.Name), Loc: location(fragment.Position)}
	if !b.claimName(name.Item, name.Loc) {
		return
	}
	sig := &signature{name: name}
	b.signatures[name.Item] = sig

	typeCondition, ok := b.schema.Type(intern.Intern(fragment.TypeCondition))
	if !ok {
		b.report.AddDiagnostic(operationreport.ErrTypeUndefined(fragment.TypeCondition, name.Loc))
	} else if !typeCondition.IsComposite() {
		b.report.AddDiagnostic(operationreport.ErrInvalidSelection("Fragment '"+fragment.Name+"' must be defined on an object, interface or union type", name.Loc))
	} else {
		sig.typeCondition = typeCondition
	}

	for _, definition := range fragment.VariableDefinition {
		if built := b.buildVariableDefinition(definition); built != nil {
			sig.variableDefinitions = append(sig.variableDefinitions, built)
		}
	}
	if directive := fragment.Directives.ForName(literal.ARGUMENT_DEFINITIONS.String()); directive != nil {
		sig.variableDefinitions = append(sig.variableDefinitions, b.buildArgumentDefinitions(directive)...)
	}
}

// buildArgumentDefinitions reads @argumentDefinitions(name: {type: "Int", defaultValue: 1}).
func (b *Builder) buildArgumentDefinitions(directive *ast.Directive) ir.VariableDefinitions {
	var out ir.VariableDefinitions
	for _, argument := range directive.Arguments {
		name := ir.WithLocation{Item: intern.Intern(argument.Name), Loc: location(argument.Position)}
		if argument.Value == nil || argument.Value.Kind != ast.ObjectValue {
			b.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.ARGUMENT_DEFINITIONS, name.Item, "expected an object with 'type' and optional 'defaultValue'", name.Loc))
			continue
		}
		typeValue := argument.Value.Children.ForName(literal.TYPE.String())
		if typeValue == nil {
			b.report.AddDiagnostic(operationreport.ErrMissingArgument(literal.ARGUMENT_DEFINITIONS, literal.TYPE, name.Loc))
			continue
		}
		if typeValue.Kind != ast.StringValue {
			b.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.ARGUMENT_DEFINITIONS, name.Item, "'type' must be a string", location(typeValue.Position)))
			continue
		}
		typeReference, ok := parseTypeString(typeValue.Raw)
		if !ok {
			b.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.ARGUMENT_DEFINITIONS, name.Item, "cannot parse type '"+typeValue.Raw+"'", location(typeValue.Position)))
			continue
		}
		b.checkTypeExists(typeReference, location(typeValue.Position))
		definition := &ir.VariableDefinition{Name: name, Type: typeReference}
		if defaultValue := argument.Value.Children.ForName(literal.DEFAULT_VALUE.String()); defaultValue != nil {
			constant, ok := b.buildConstant(defaultValue)
			if !ok {
				b.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.ARGUMENT_DEFINITIONS, name.Item, "'defaultValue' must be a constant", location(defaultValue.Position)))
				continue
			}
			definition.DefaultValue = constant
		}
		out = append(out, definition)
	}
	return out
}

func (b *Builder) buildOperation(operation *ast.OperationDefinition) *ir.Operation {
	loc := location(operation.Position)
	if operation.Name == "" {
		b.report.AddDiagnostic(operationreport.ErrSyntax("Operations must be named", loc))
		return nil
	}
	name := ir.WithLocation{Item: intern.Intern(operation.Name), Loc: loc}
	if !b.claimName(name.Item, name.Loc) {
		return nil
	}

	out := &ir.Operation{Name: name}
	var (
		rootType *schema.Type
		ok       bool
	)
	switch operation.Operation {
	case ast.Mutation:
		out.Kind = ir.Mutation
		rootType, ok = b.schema.MutationType()
	case ast.Subscription:
		out.Kind = ir.Subscription
		rootType, ok = b.schema.SubscriptionType()
	default:
		out.Kind = ir.Query
		rootType, ok = b.schema.QueryType()
	}
	if !ok {
		b.report.AddDiagnostic(operationreport.ErrTypeUndefined(out.Kind.String()+" root type", loc))
		return nil
	}
	out.Type = rootType

	ctx := &definitionContext{}
	for _, definition := range operation.VariableDefinitions {
		if built := b.buildVariableDefinition(definition); built != nil {
			out.VariableDefinitions = append(out.VariableDefinitions, built)
		}
	}
	ctx.variables = out.VariableDefinitions

	directives, conditions := b.buildDirectives(operation.Directives, ctx)
	for _, condition := range conditions {
		b.report.AddDiagnostic(operationreport.ErrInvalidSelection("@skip and @include are not allowed on operations", condition.Location))
	}
	out.Directives = directives
	out.Selections = b.buildSelections(rootType, operation.SelectionSet, ctx)
	return out
}

func (b *Builder) buildFragment(fragment *ast.FragmentDefinition) *ir.Fragment {
	sig, ok := b.signatures[intern.Intern(fragment.Name)]
	if !ok || sig.name.Loc != location(fragment.Position) || sig.typeCondition == nil {
		return nil
	}

	ctx := &definitionContext{
		isFragment: true,
		variables:  sig.variableDefinitions,
	}
	directives, conditions := b.buildDirectives(withoutDirective(fragment.Directives, literal.ARGUMENT_DEFINITIONS), ctx)
	for _, condition := range conditions {
		b.report.AddDiagnostic(operationreport.ErrInvalidSelection("@skip and @include are not allowed on fragment definitions", condition.Location))
	}
	selections := b.buildSelections(sig.typeCondition, fragment.SelectionSet, ctx)

	return &ir.Fragment{
		Name:                sig.name,
		TypeCondition:       sig.typeCondition,
		VariableDefinitions: sig.variableDefinitions,
		UsedGlobalVariables: ctx.used,
		Directives:          directives,
		Selections:          selections,
	}
}

func (b *Builder) buildVariableDefinition(definition *ast.VariableDefinition) *ir.VariableDefinition {
	loc := location(definition.Position)
	out := &ir.VariableDefinition{
		Name: ir.WithLocation{Item: intern.Intern(definition.Variable), Loc: loc},
		Type: typeReference(definition.Type),
	}
	b.checkTypeExists(out.Type, loc)
	if definition.DefaultValue != nil {
		constant, ok := b.buildConstant(definition.DefaultValue)
		if !ok {
			b.report.AddDiagnostic(operationreport.ErrSyntax("Default value of $"+definition.Variable+" must be a constant", loc))
			return nil
		}
		out.DefaultValue = constant
	}
	directives, _ := b.buildDirectives(definition.Directives, &definitionContext{})
	out.Directives = directives
	return out
}

func (b *Builder) checkTypeExists(t ir.TypeReference, loc ir.Location) {
	if _, ok := b.schema.Type(t.Inner()); !ok {
		b.report.AddDiagnostic(operationreport.ErrTypeUndefined(t.Inner().String(), loc))
	}
}

func (b *Builder) buildSelections(parent *schema.Type, set ast.SelectionSet, ctx *definitionContext) []ir.Selection {
	out := make([]ir.Selection, 0, len(set))
	for _, selection := range set {
		var built ir.Selection
		switch s := selection.(type) {
		case *ast.Field:
			built = b.buildField(parent, s, ctx)
		case *ast.InlineFragment:
			built = b.buildInlineFragment(parent, s, ctx)
		case *ast.FragmentSpread:
			built = b.buildFragmentSpread(s, ctx)
		}
		if built != nil {
			out = append(out, built)
		}
	}
	return out
}

func (b *Builder) buildField(parent *schema.Type, field *ast.Field, ctx *definitionContext) ir.Selection {
	loc := location(field.Position)
	definition, ok := b.schema.Field(parent, intern.Intern(field.Name))
	if !ok {
		b.report.AddDiagnostic(operationreport.ErrFieldUndefinedOnType(field.Name, parent.Name.String(), loc))
		return nil
	}

	var alias ir.WithLocation
	if field.Alias != "" && field.Alias != field.Name {
		alias = ir.WithLocation{Item: intern.Intern(field.Alias), Loc: loc}
	}
	arguments := b.buildArguments(field.Arguments, func(name intern.StringKey) ir.TypeReference {
		if argument, ok := definition.Argument(name); ok {
			return ir.TypeReferenceFromSchema(argument.Type)
		}
		return nil
	}, ctx)
	directives, conditions := b.buildDirectives(field.Directives, ctx)

	var selection ir.Selection
	fieldType := b.schema.FieldType(definition)
	if fieldType != nil && fieldType.IsComposite() {
		if len(field.SelectionSet) == 0 {
			b.report.AddDiagnostic(operationreport.ErrInvalidSelection("Field '"+field.Name+"' of type '"+fieldType.Name.String()+"' must have a selection of subfields", loc))
			return nil
		}
		selection = &ir.LinkedField{
			Alias:      alias,
			Definition: definition,
			Arguments:  arguments,
			Directives: directives,
			Selections: b.buildSelections(fieldType, field.SelectionSet, ctx),
			Location:   loc,
		}
	} else {
		if len(field.SelectionSet) != 0 {
			b.report.AddDiagnostic(operationreport.ErrInvalidSelection("Field '"+field.Name+"' is a leaf and cannot have a selection", loc))
			return nil
		}
		selection = &ir.ScalarField{
			Alias:      alias,
			Definition: definition,
			Arguments:  arguments,
			Directives: directives,
			Location:   loc,
		}
	}
	return wrapInConditions(selection, conditions)
}

func (b *Builder) buildInlineFragment(parent *schema.Type, fragment *ast.InlineFragment, ctx *definitionContext) ir.Selection {
	loc := location(fragment.Position)
	var typeCondition *schema.Type
	selectionType := parent
	if fragment.TypeCondition != "" {
		t, ok := b.schema.Type(intern.Intern(fragment.TypeCondition))
		if !ok {
			b.report.AddDiagnostic(operationreport.ErrTypeUndefined(fragment.TypeCondition, loc))
			return nil
		}
		typeCondition, selectionType = t, t
	}
	directives, conditions := b.buildDirectives(fragment.Directives, ctx)
	return wrapInConditions(&ir.InlineFragment{
		TypeCondition: typeCondition,
		Directives:    directives,
		Selections:    b.buildSelections(selectionType, fragment.SelectionSet, ctx),
		Location:      loc,
	}, conditions)
}

func (b *Builder) buildFragmentSpread(spread *ast.FragmentSpread, ctx *definitionContext) ir.Selection {
	name := ir.WithLocation{Item: intern.Intern(spread.Name), Loc: location(spread.Position)}
	sig, ok := b.signatures[name.Item]
	if !ok {
		b.report.AddDiagnostic(operationreport.ErrFragmentUndefined(name.Item, name.Loc))
		return nil
	}

	var arguments ir.Arguments
	if directive := spread.Directives.ForName(literal.ARGUMENTS.String()); directive != nil {
		arguments = b.buildArguments(directive.Arguments, func(argument intern.StringKey) ir.TypeReference {
			if definition, ok := sig.variableDefinitions.Named(argument); ok {
				return definition.Type
			}
			return nil
		}, ctx)
	}
	directives, conditions := b.buildDirectives(withoutDirective(spread.Directives, literal.ARGUMENTS), ctx)
	return wrapInConditions(&ir.FragmentSpread{
		Fragment:   name,
		Arguments:  arguments,
		Directives: directives,
	}, conditions)
}

// wrapInConditions nests selection in its conditions, the first condition outermost.
func wrapInConditions(selection ir.Selection, conditions []*ir.Condition) ir.Selection {
	for i := len(conditions) - 1; i >= 0; i-- {
		condition := *conditions[i]
		condition.Selections = []ir.Selection{selection}
		selection = &condition
	}
	return selection
}

// buildDirectives splits @skip and @include off into conditions.
func (b *Builder) buildDirectives(list ast.DirectiveList, ctx *definitionContext) (ir.Directives, []*ir.Condition) {
	var (
		directives ir.Directives
		conditions []*ir.Condition
	)
	for _, directive := range list {
		name := ir.WithLocation{Item: intern.Intern(directive.Name), Loc: location(directive.Position)}
		if name.Item == literal.SKIP || name.Item == literal.INCLUDE {
			if condition := b.buildCondition(name, directive, ctx); condition != nil {
				conditions = append(conditions, condition)
			}
			continue
		}
		known := compilerDirectiveArguments[name.Item]
		directives = append(directives, &ir.Directive{
			Name: name,
			Arguments: b.buildArguments(directive.Arguments, func(argument intern.StringKey) ir.TypeReference {
				return known[argument]
			}, ctx),
		})
	}
	return directives, conditions
}

func (b *Builder) buildCondition(name ir.WithLocation, directive *ast.Directive, ctx *definitionContext) *ir.Condition {
	argument := directive.Arguments.ForName(literal.IF.String())
	if argument == nil || argument.Value == nil {
		b.report.AddDiagnostic(operationreport.ErrMissingArgument(name.Item, literal.IF, name.Loc))
		return nil
	}
	value := b.buildValue(argument.Value, nonNullBoolean, ctx)
	if constant, ok := value.(*ir.Constant); ok {
		if _, isBool := constant.Value.(ir.ConstBoolean); !isBool {
			b.report.AddDiagnostic(operationreport.ErrInvalidArgument(name.Item, literal.IF, "expected a boolean or a variable", location(argument.Position)))
			return nil
		}
	}
	return &ir.Condition{
		Value:        value,
		PassingValue: name.Item == literal.INCLUDE,
		Location:     name.Loc,
	}
}

func (b *Builder) buildArguments(list ast.ArgumentList, expectedType func(name intern.StringKey) ir.TypeReference, ctx *definitionContext) ir.Arguments {
	if len(list) == 0 {
		return nil
	}
	out := make(ir.Arguments, 0, len(list))
	for _, argument := range list {
		name := ir.WithLocation{Item: intern.Intern(argument.Name), Loc: location(argument.Position)}
		out = append(out, &ir.Argument{
			Name:  name,
			Value: b.buildValue(argument.Value, expectedType(name.Item), ctx),
		})
	}
	return out
}

// buildValue builds a value in a position of type expected, which is nil when unknown.
// Lists and objects without variables become constants.
func (b *Builder) buildValue(value *ast.Value, expected ir.TypeReference, ctx *definitionContext) ir.Value {
	loc := location(value.Position)
	switch value.Kind {
	case ast.Variable:
		return ctx.variable(ir.WithLocation{Item: intern.Intern(value.Raw), Loc: loc}, expected)
	case ast.ListValue:
		var itemType ir.TypeReference
		if expected != nil {
			if list, ok := ir.Nullable(expected).(ir.ListType); ok {
				itemType = list.Of
			}
		}
		items := make([]ir.Value, 0, len(value.Children))
		for _, child := range value.Children {
			items = append(items, b.buildValue(child.Value, itemType, ctx))
		}
		if constants, ok := allConstant(items); ok {
			return &ir.Constant{Value: ir.ConstList{Items: constants}, Location: loc}
		}
		return &ir.ListValue{Items: items, Location: loc}
	case ast.ObjectValue:
		var inputType *schema.Type
		if expected != nil {
			inputType, _ = b.schema.Type(expected.Inner())
		}
		fields := make([]ir.ValueField, 0, len(value.Children))
		for _, child := range value.Children {
			name := ir.WithLocation{Item: intern.Intern(child.Name), Loc: location(child.Position)}
			var fieldType ir.TypeReference
			if field, ok := b.schema.Field(inputType, name.Item); ok {
				fieldType = ir.TypeReferenceFromSchema(field.Type)
			}
			fields = append(fields, ir.ValueField{Name: name, Value: b.buildValue(child.Value, fieldType, ctx)})
		}
		constantFields := make([]ir.ConstantField, 0, len(fields))
		for _, field := range fields {
			constant, ok := field.Value.(*ir.Constant)
			if !ok {
				return &ir.ObjectValue{Fields: fields, Location: loc}
			}
			constantFields = append(constantFields, ir.ConstantField{Name: field.Name, Value: constant.Value})
		}
		return &ir.Constant{Value: ir.ConstObject{Fields: constantFields}, Location: loc}
	default:
		constant, _ := b.buildConstant(value)
		return &ir.Constant{Value: constant, Location: loc}
	}
}

func allConstant(values []ir.Value) ([]ir.ConstantValue, bool) {
	out := make([]ir.ConstantValue, 0, len(values))
	for _, value := range values {
		constant, ok := value.(*ir.Constant)
		if !ok {
			return nil, false
		}
		out = append(out, constant.Value)
	}
	return out, true
}

// buildConstant reports false when value contains a variable.
func (b *Builder) buildConstant(value *ast.Value) (ir.ConstantValue, bool) {
	switch value.Kind {
	case ast.Variable:
		return nil, false
	case ast.IntValue:
		parsed, err := strconv.ParseInt(value.Raw, 10, 64)
		if err != nil {
			b.report.AddDiagnostic(operationreport.ErrSyntax("Invalid integer '"+value.Raw+"'", location(value.Position)))
		}
		return ir.ConstInt{Value: parsed}, true
	case ast.FloatValue:
		parsed, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			b.report.AddDiagnostic(operationreport.ErrSyntax("Invalid float '"+value.Raw+"'", location(value.Position)))
		}
		return ir.ConstFloat{Value: parsed}, true
	case ast.StringValue, ast.BlockValue:
		return ir.ConstString{Value: value.Raw}, true
	case ast.BooleanValue:
		return ir.ConstBoolean{Value: value.Raw == "true"}, true
	case ast.NullValue:
		return ir.ConstNull{}, true
	case ast.EnumValue:
		return ir.ConstEnum{Value: intern.Intern(value.Raw)}, true
	case ast.ListValue:
		items := make([]ir.ConstantValue, 0, len(value.Children))
		for _, child := range value.Children {
			item, ok := b.buildConstant(child.Value)
			if !ok {
				return nil, false
			}
			items = append(items, item)
		}
		return ir.ConstList{Items: items}, true
	case ast.ObjectValue:
		fields := make([]ir.ConstantField, 0, len(value.Children))
		for _, child := range value.Children {
			fieldValue, ok := b.buildConstant(child.Value)
			if !ok {
				return nil, false
			}
			fields = append(fields, ir.ConstantField{
				Name:  ir.WithLocation{Item: intern.Intern(child.Name), Loc: location(child.Position)},
				Value: fieldValue,
			})
		}
		return ir.ConstObject{Fields: fields}, true
	}
	return ir.ConstNull{}, true
}

// variable resolves a variable reference. In a fragment, a variable that is not a local
// argument is a global variable and is recorded with the type of its first typed use.
func (c *definitionContext) variable(name ir.WithLocation, expected ir.TypeReference) *ir.Variable {
	if definition, ok := c.variables.Named(name.Item); ok {
		return &ir.Variable{Name: name, Type: definition.Type}
	}
	if c.isFragment {
		if definition, ok := c.used.Named(name.Item); ok {
			if definition.Type == nil {
				definition.Type = expected
			}
			if expected == nil {
				expected = definition.Type
			}
		} else {
			c.used = append(c.used, &ir.VariableDefinition{Name: name, Type: expected})
		}
	}
	return &ir.Variable{Name: name, Type: expected}
}
