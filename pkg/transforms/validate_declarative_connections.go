package transforms

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

var (
	edgeDirectives = []intern.StringKey{literal.APPEND_EDGE, literal.PREPEND_EDGE}
	nodeDirectives = []intern.StringKey{literal.APPEND_NODE, literal.PREPEND_NODE}
	// insertDirectives are mutually exclusive on a field.
	insertDirectives = append(append([]intern.StringKey{}, edgeDirectives...), nodeDirectives...)
	deleteDirectives = []intern.StringKey{literal.DELETE_RECORD, literal.DELETE_EDGE}
)

// ValidateDeclarativeConnections checks the directives that update connections from mutation
// payloads. @deleteRecord and @deleteEdge go on ID or [ID] fields, @appendEdge and
// @prependEdge on edge fields, @appendNode and @prependNode on node fields with an
// edgeTypeName. At most one insert directive may be used per field.
func ValidateDeclarativeConnections(program *ir.Program) error {
	v := &declarativeConnectionValidator{schema: program.Schema}
	v.Walker = irvisitor.NewWalker(v, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	v.WalkProgram(program)
	return v.report.Err()
}

type declarativeConnectionValidator struct {
	*irvisitor.Walker
	schema schema.Schema
	report operationreport.Report
}

func (v *declarativeConnectionValidator) VisitScalarField(field *ir.ScalarField) {
	for _, name := range insertDirectives {
		if directive, ok := field.Directives.Named(name); ok {
			v.report.AddDiagnostic(operationreport.ErrDeclarativeConnection(
				fmt.Sprintf("@%s can only be used on linked fields, '%s' is a leaf", name, field.Definition.Name),
				directive.Name.Loc,
			))
		}
	}
	for _, name := range deleteDirectives {
		directive, ok := field.Directives.Named(name)
		if !ok {
			continue
		}
		if field.Definition.Type.NamedType() != literal.IDType || isNestedList(field.Definition.Type) {
			v.report.AddDiagnostic(operationreport.ErrDeclarativeConnection(
				fmt.Sprintf("@%s can only be used on fields of type ID or [ID], '%s' is of type %s", name, field.Definition.Name, field.Definition.Type),
				directive.Name.Loc,
			))
		}
		if name == literal.DELETE_EDGE {
			v.requireConnections(directive)
		}
	}
}

func isNestedList(t *schema.TypeRef) bool {
	return t.Elem != nil && t.Elem.Elem != nil
}

func (v *declarativeConnectionValidator) VisitLinkedField(field *ir.LinkedField) {
	for _, name := range deleteDirectives {
		if directive, ok := field.Directives.Named(name); ok {
			v.report.AddDiagnostic(operationreport.ErrDeclarativeConnection(
				fmt.Sprintf("@%s can only be used on fields of type ID or [ID], '%s' is of type %s", name, field.Definition.Name, field.Definition.Type),
				directive.Name.Loc,
			))
		}
	}

	var first *ir.Directive
	for _, directive := range field.Directives {
		if !containsKey(insertDirectives, directive.Name.Item) {
			continue
		}
		if first != nil {
			v.report.AddDiagnostic(operationreport.ErrDisallowedDirectiveCombination(first.Name.Item, directive.Name.Item, directive.Name.Loc))
			continue
		}
		first = directive
		v.requireConnections(directive)
		if containsKey(edgeDirectives, directive.Name.Item) {
			v.validateEdgeField(field, directive)
		} else {
			v.validateEdgeTypeName(directive)
		}
	}
	v.DefaultVisitLinkedField(field)
}

func containsKey(keys []intern.StringKey, key intern.StringKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func (v *declarativeConnectionValidator) requireConnections(directive *ir.Directive) {
	if _, ok := directive.Arguments.Named(literal.CONNECTIONS); !ok {
		v.report.AddDiagnostic(operationreport.ErrMissingArgument(directive.Name.Item, literal.CONNECTIONS, directive.Name.Loc))
	}
}

func (v *declarativeConnectionValidator) validateEdgeField(field *ir.LinkedField, directive *ir.Directive) {
	edge := v.schema.FieldType(field.Definition)
	_, hasCursor := v.schema.Field(edge, literal.CURSOR)
	_, hasNode := v.schema.Field(edge, literal.NODE_FIELD)
	if !hasCursor || !hasNode {
		v.report.AddDiagnostic(operationreport.ErrDeclarativeConnection(
			fmt.Sprintf("@%s can only be used on fields of an edge type with '%s' and '%s', '%s' is of type %s",
				directive.Name.Item, literal.CURSOR, literal.NODE_FIELD, field.Definition.Name, edge),
			directive.Name.Loc,
		))
	}
}

func (v *declarativeConnectionValidator) validateEdgeTypeName(directive *ir.Directive) {
	argument, ok := directive.Arguments.Named(literal.EDGE_TYPENAME)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrMissingArgument(directive.Name.Item, literal.EDGE_TYPENAME, directive.Name.Loc))
		return
	}
	name, ok := ir.ConstantString(argument.Value)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrInvalidArgument(directive.Name.Item, literal.EDGE_TYPENAME, "expected a string literal", argument.Name.Loc))
		return
	}
	edge, ok := v.schema.Type(intern.Intern(name))
	if !ok || edge.Kind != schema.KindObject {
		v.report.AddDiagnostic(operationreport.ErrDeclarativeConnection(
			fmt.Sprintf("Expected edgeTypeName '%s' of @%s to name an object type", name, directive.Name.Item),
			argument.Name.Loc,
		))
	}
}
