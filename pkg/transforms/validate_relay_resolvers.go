package transforms

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// ValidateRelayResolvers checks that the fragment read by every selected resolver field exists
// and is defined on the type declaring the field.
func ValidateRelayResolvers(program *ir.Program) error {
	v := &resolverValidator{
		program: program,
		checked: make(map[*schema.Field]bool),
	}
	v.Walker = irvisitor.NewWalker(v, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	v.WalkProgram(program)
	return v.report.Err()
}

type resolverValidator struct {
	*irvisitor.Walker
	program *ir.Program
	checked map[*schema.Field]bool
	report  operationreport.Report
}

func (v *resolverValidator) VisitScalarField(field *ir.ScalarField) {
	v.check(field.Definition, field.Location)
}

func (v *resolverValidator) VisitLinkedField(field *ir.LinkedField) {
	v.check(field.Definition, field.Location)
	v.DefaultVisitLinkedField(field)
}

func (v *resolverValidator) check(definition *schema.Field, location ir.Location) {
	name, ok := v.program.Schema.ResolverFragment(definition)
	if !ok || v.checked[definition] {
		return
	}
	v.checked[definition] = true

	fragment, ok := v.program.Fragment(name)
	if !ok {
		v.report.AddDiagnostic(operationreport.ErrResolver(
			fmt.Sprintf("Resolver field '%s.%s' reads fragment '%s', which is not defined", definition.Parent, definition.Name, name),
			location,
		))
		return
	}
	if fragment.TypeCondition != definition.Parent {
		v.report.AddDiagnostic(operationreport.ErrResolver(
			fmt.Sprintf("Fragment '%s' read by resolver field '%s.%s' must be defined on type '%s', got '%s'",
				name, definition.Parent, definition.Name, definition.Parent, fragment.TypeCondition),
			fragment.Name.Loc,
		))
	}
}
