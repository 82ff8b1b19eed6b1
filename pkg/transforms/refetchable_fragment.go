package transforms

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

const refetchQuerySuffix = "RefetchQuery"

// RefetchableFragment adds a query for every fragment marked @refetchable that fetches the
// fragment again. Fragments on the query type are spread at the root, fragments on Node or
// on a type implementing Node are fetched with node(id: $id). The query is named by the
// queryName argument, or after the fragment when it is omitted.
//
// The variables of the query are the fragment's local arguments, passed on to the spread,
// followed by the global variables the fragment uses.
func RefetchableFragment(program *ir.Program) (*ir.Program, error) {
	r := &refetchableTransform{
		program: program,
		schema:  program.Schema,
	}
	out := program.Clone()
	queryNames := make(map[intern.StringKey]ir.Location)
	for _, fragment := range program.Fragments() {
		directive, ok := fragment.Directives.Named(literal.REFETCHABLE)
		if !ok {
			continue
		}
		name, ok := r.queryName(fragment, directive)
		if !ok {
			continue
		}
		if prior, duplicate := queryNames[name.Item]; duplicate {
			r.report.AddDiagnostic(operationreport.ErrRefetchable(
				fmt.Sprintf("Duplicate refetch query name '%s'", name.Item),
				prior, name.Loc,
			))
			continue
		}
		queryNames[name.Item] = name.Loc
		if existing, exists := program.Operation(name.Item); exists {
			r.report.AddDiagnostic(operationreport.ErrRefetchable(
				fmt.Sprintf("Refetch query '%s' conflicts with an operation of the same name", name.Item),
				existing.Name.Loc, name.Loc,
			))
			continue
		}
		if existing, exists := program.Fragment(name.Item); exists {
			r.report.AddDiagnostic(operationreport.ErrRefetchable(
				fmt.Sprintf("Refetch query '%s' conflicts with a fragment of the same name", name.Item),
				existing.Name.Loc, name.Loc,
			))
			continue
		}
		if operation, ok := r.buildQuery(fragment, name); ok {
			out.InsertOperation(operation)
		}
	}
	return finish(out, &r.report)
}

type refetchableTransform struct {
	program *ir.Program
	schema  schema.Schema
	report  operationreport.Report
}

func (r *refetchableTransform) queryName(fragment *ir.Fragment, directive *ir.Directive) (ir.WithLocation, bool) {
	argument, ok := directive.Arguments.Named(literal.QUERY_NAME)
	if !ok {
		name := strcase.ToCamel(fragment.Name.Item.String()) + refetchQuerySuffix
		return ir.WithLocation{Item: intern.Intern(name), Loc: directive.Name.Loc}, true
	}
	name, ok := ir.ConstantString(argument.Value)
	if !ok || name == "" {
		r.report.AddDiagnostic(operationreport.ErrInvalidArgument(literal.REFETCHABLE, literal.QUERY_NAME, "expected a non-empty string literal", argument.Name.Loc))
		return ir.WithLocation{}, false
	}
	return ir.WithLocation{Item: intern.Intern(name), Loc: argument.Name.Loc}, true
}

func (r *refetchableTransform) buildQuery(fragment *ir.Fragment, name ir.WithLocation) (*ir.Operation, bool) {
	queryType, ok := r.schema.QueryType()
	if !ok {
		r.report.AddDiagnostic(operationreport.ErrRefetchable("The schema has no query type", name.Loc))
		return nil, false
	}

	variables, ok := r.variables(fragment, name)
	if !ok {
		return nil, false
	}
	spread := &ir.FragmentSpread{Fragment: ir.WithLocation{Item: fragment.Name.Item, Loc: name.Loc}}
	for _, local := range fragment.VariableDefinitions {
		spread.Arguments = append(spread.Arguments, &ir.Argument{
			Name:  local.Name,
			Value: &ir.Variable{Name: local.Name, Type: local.Type},
		})
	}

	operation := &ir.Operation{
		Kind:                ir.Query,
		Name:                name,
		Type:                queryType,
		VariableDefinitions: variables,
	}

	typeCondition := fragment.TypeCondition
	if typeCondition == queryType {
		operation.Selections = []ir.Selection{spread}
		return operation, true
	}

	nodeInterface, hasNode := r.schema.NodeInterface()
	if !hasNode || (typeCondition != nodeInterface && !r.schema.Implements(typeCondition, nodeInterface)) {
		r.report.AddDiagnostic(operationreport.ErrRefetchable(
			fmt.Sprintf("@refetchable fragment '%s' must be on the query type, the Node interface or a type implementing Node, got '%s'",
				fragment.Name.Item, typeCondition),
			name.Loc,
		))
		return nil, false
	}
	nodeField, ok := r.schema.Field(queryType, literal.NODE_FIELD)
	if !ok {
		r.report.AddDiagnostic(operationreport.ErrRefetchable(
			fmt.Sprintf("@refetchable fragment '%s' needs a '%s' field on type '%s'", fragment.Name.Item, literal.NODE_FIELD, queryType),
			name.Loc,
		))
		return nil, false
	}
	if prior, taken := variables.Named(literal.ID); taken {
		r.report.AddDiagnostic(operationreport.ErrRefetchable(
			fmt.Sprintf("@refetchable fragment '%s' cannot use a variable named '$%s'", fragment.Name.Item, literal.ID),
			prior.Name.Loc, name.Loc,
		))
		return nil, false
	}

	idType := ir.NonNullType{Of: ir.NamedType{Type: literal.IDType}}
	operation.VariableDefinitions = append(operation.VariableDefinitions, &ir.VariableDefinition{
		Name: ir.WithLocation{Item: literal.ID, Loc: name.Loc},
		Type: idType,
	})
	operation.Selections = []ir.Selection{&ir.LinkedField{
		Definition: nodeField,
		Arguments: ir.Arguments{{
			Name:  ir.WithLocation{Item: literal.ID, Loc: name.Loc},
			Value: &ir.Variable{Name: ir.WithLocation{Item: literal.ID, Loc: name.Loc}, Type: idType},
		}},
		Selections: []ir.Selection{spread},
		Location:   name.Loc,
	}}
	return operation, true
}

func (r *refetchableTransform) variables(fragment *ir.Fragment, name ir.WithLocation) (ir.VariableDefinitions, bool) {
	out := make(ir.VariableDefinitions, 0, len(fragment.VariableDefinitions)+len(fragment.UsedGlobalVariables))
	out = append(out, fragment.VariableDefinitions...)
	ok := true
	for _, global := range fragment.UsedGlobalVariables {
		if global.Type == nil {
			r.report.AddDiagnostic(operationreport.ErrRefetchable(
				fmt.Sprintf("Cannot infer the type of variable '$%s' used by @refetchable fragment '%s'", global.Name.Item, fragment.Name.Item),
				global.Name.Loc, name.Loc,
			))
			ok = false
			continue
		}
		if _, shadowed := out.Named(global.Name.Item); shadowed {
			continue
		}
		out = append(out, global)
	}
	return out, ok
}
