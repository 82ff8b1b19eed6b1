package transforms

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

type ResolverMode int

const (
	// ResolverModeReader keeps resolver fields as scalar fields annotated with the fragment
	// the resolver reads.
	ResolverModeReader ResolverMode = iota
	// ResolverModeServer replaces resolver fields by a spread of the fragment the resolver
	// reads, so the server returns the data the resolver needs.
	ResolverModeServer
)

// RelayResolvers rewrites fields computed on the client by a resolver.
func RelayResolvers(program *ir.Program, mode ResolverMode) (*ir.Program, error) {
	t := &resolverTransform{
		program: program,
		mode:    mode,
	}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	out := t.TransformProgram(program)
	return finish(out, &t.report)
}

type resolverTransform struct {
	*irvisitor.Transformer
	program *ir.Program
	mode    ResolverMode
	report  operationreport.Report
}

func (t *resolverTransform) TransformScalarField(field *ir.ScalarField) irvisitor.Transformed[ir.Selection] {
	if _, ok := field.Directives.Named(literal.RELAY_RESOLVER_METADATA); ok {
		return irvisitor.Keep[ir.Selection]()
	}
	return t.transformField(field.Alias, field.Definition, field.Arguments, field.Directives, field.Location)
}

func (t *resolverTransform) TransformLinkedField(field *ir.LinkedField) irvisitor.Transformed[ir.Selection] {
	if _, ok := t.program.Schema.ResolverFragment(field.Definition); !ok {
		return t.DefaultTransformLinkedField(field)
	}
	return t.transformField(field.Alias, field.Definition, field.Arguments, field.Directives, field.Location)
}

func (t *resolverTransform) transformField(alias ir.WithLocation, definition *schema.Field, arguments ir.Arguments, directives ir.Directives, location ir.Location) irvisitor.Transformed[ir.Selection] {
	fragmentName, ok := t.program.Schema.ResolverFragment(definition)
	if !ok {
		return irvisitor.Keep[ir.Selection]()
	}

	if t.mode == ResolverModeServer {
		if _, defined := t.program.Fragment(fragmentName); !defined {
			t.report.AddDiagnostic(operationreport.ErrResolver(
				fmt.Sprintf("Resolver field '%s.%s' reads fragment '%s', which is not defined", definition.Parent, definition.Name, fragmentName),
				location,
			))
			return irvisitor.Keep[ir.Selection]()
		}
		return irvisitor.Replace[ir.Selection](&ir.FragmentSpread{
			Fragment: ir.WithLocation{Item: fragmentName, Loc: location},
		})
	}

	metadata := &ir.Directive{
		Name: ir.Named(literal.RELAY_RESOLVER_METADATA),
		Arguments: ir.Arguments{
			{Name: ir.Named(literal.FRAGMENT_NAME), Value: &ir.Constant{Value: ir.ConstString{Value: fragmentName.String()}, Location: location}},
			{Name: ir.Named(literal.FIELD_NAME), Value: &ir.Constant{Value: ir.ConstString{Value: definition.Name.String()}, Location: location}},
		},
	}
	next := make(ir.Directives, 0, len(directives)+1)
	next = append(next, directives...)
	next = append(next, metadata)
	return irvisitor.Replace[ir.Selection](&ir.ScalarField{
		Alias:      alias,
		Definition: definition,
		Arguments:  arguments,
		Directives: next,
		Location:   location,
	})
}
