package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

// DisallowReservedAliases reports aliases the runtime stores data under: __typename and __id
// on any field, and id on a field other than id.
func DisallowReservedAliases(program *ir.Program) error {
	visitor := &reservedAliasVisitor{}
	visitor.Walker = irvisitor.NewWalker(visitor, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	visitor.WalkProgram(program)
	return visitor.report.Err()
}

type reservedAliasVisitor struct {
	*irvisitor.Walker
	report operationreport.Report
}

func (r *reservedAliasVisitor) check(alias ir.WithLocation, name intern.StringKey) {
	if alias.Item.IsEmpty() || alias.Item == name {
		return
	}
	switch alias.Item {
	case literal.TYPENAME, literal.ID_ALIAS, literal.ID:
		r.report.AddDiagnostic(operationreport.ErrReservedAlias(alias.Item, alias.Loc))
	}
}

func (r *reservedAliasVisitor) VisitScalarField(field *ir.ScalarField) {
	r.check(field.Alias, field.Definition.Name)
}

func (r *reservedAliasVisitor) VisitLinkedField(field *ir.LinkedField) {
	r.check(field.Alias, field.Definition.Name)
	r.DefaultVisitLinkedField(field)
}
