package transforms

import (
	"fmt"
	"strings"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// ValidateConnections checks fields marked @connection: the key must be a string literal
// ending in _<fieldName>, filters a list of strings, and the field must be a paginated
// connection with edges and pageInfo.
func ValidateConnections(program *ir.Program) error {
	v := &connectionValidator{schema: program.Schema}
	v.Walker = irvisitor.NewWalker(v, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	v.WalkProgram(program)
	return v.report.Err()
}

type connectionValidator struct {
	*irvisitor.Walker
	schema schema.Schema
	report operationreport.Report
}

func (v *connectionValidator) VisitScalarField(field *ir.ScalarField) {
	if directive, ok := field.Directives.Named(literal.CONNECTION); ok {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("@connection can only be used on fields returning a connection type, '%s' is a leaf", field.Definition.Name),
			directive.Name.Loc,
		))
	}
}

func (v *connectionValidator) VisitLinkedField(field *ir.LinkedField) {
	if directive, ok := field.Directives.Named(literal.CONNECTION); ok {
		v.validateKey(field, directive)
		v.validateFilters(directive)
		v.validateConnectionField(field)
	}
	v.DefaultVisitLinkedField(field)
}

func (v *connectionValidator) validateKey(field *ir.LinkedField, directive *ir.Directive) {
	argument, ok := directive.Arguments.Named(literal.KEY)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrMissingArgument(literal.CONNECTION, literal.KEY, directive.Name.Loc))
		return
	}
	key, ok := ir.ConstantString(argument.Value)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.CONNECTION, literal.KEY, "expected a string literal", argument.Name.Loc))
		return
	}
	suffix := "_" + field.Definition.Name.String()
	if !strings.HasSuffix(key, suffix) || len(key) == len(suffix) {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("Expected the key argument of @connection to be of form <SomeName>%s, got '%s'", suffix, key),
			argument.Name.Loc,
		))
	}
}

func (v *connectionValidator) validateFilters(directive *ir.Directive) {
	argument, ok := directive.Arguments.Named(literal.FILTERS)
	if !ok {
		return
	}
	if !isStringList(argument.Value) {
		v.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.CONNECTION, literal.FILTERS, "expected a list of string literals", argument.Name.Loc))
	}
}

func isStringList(value ir.Value) bool {
	constant, ok := value.(*ir.Constant)
	if !ok {
		return false
	}
	list, ok := constant.Value.(ir.ConstList)
	if !ok {
		return false
	}
	for _, item := range list.Items {
		if _, isString := item.(ir.ConstString); !isString {
			return false
		}
	}
	return true
}

func (v *connectionValidator) validateConnectionField(field *ir.LinkedField) {
	definition := field.Definition
	if definition.Type.IsList() {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("Expected field '%s' to return a connection type, got a list", definition.Name),
			field.Location,
		))
		return
	}
	_, hasFirst := definition.Argument(literal.FIRST)
	_, hasLast := definition.Argument(literal.LAST)
	if !hasFirst && !hasLast {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("Expected field '%s' to have a '%s' or '%s' argument", definition.Name, literal.FIRST, literal.LAST),
			field.Location,
		))
	}

	connection := v.schema.FieldType(definition)
	edges, ok := v.schema.Field(connection, literal.EDGES)
	if !ok || !edges.Type.IsList() {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("Expected type '%s' to have an '%s' field returning a list", connection.Name, literal.EDGES),
			field.Location,
		))
	} else {
		edge := v.schema.FieldType(edges)
		v.requireFields(edge, field.Location, literal.CURSOR, literal.NODE_FIELD)
	}

	pageInfo, ok := v.schema.Field(connection, literal.PAGE_INFO)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrConnection(
			fmt.Sprintf("Expected type '%s' to have a '%s' field", connection.Name, literal.PAGE_INFO),
			field.Location,
		))
		return
	}
	v.requireFields(v.schema.FieldType(pageInfo), field.Location, literal.END_CURSOR, literal.HAS_NEXT_PAGE)
}

func (v *connectionValidator) requireFields(parent *schema.Type, location ir.Location, names ...intern.StringKey) {
	for _, name := range names {
		if _, ok := v.schema.Field(parent, name); !ok {
			v.report.AddDiagnostic(operationreport.ErrConnection(
				fmt.Sprintf("Expected type '%s' to have a '%s' field", parent, name),
				location,
			))
		}
	}
}
