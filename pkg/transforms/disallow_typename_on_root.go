package transforms

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/literal"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

// DisallowTypenameOnRoot reports __typename selected on an operation's root type, directly or
// through conditions and inline fragments of the root type.
func DisallowTypenameOnRoot(program *ir.Program) error {
	report := &operationreport.Report{}
	for _, operation := range program.Operations() {
		checkRootSelections(report, operation, operation.Selections)
	}
	return report.Err()
}

func checkRootSelections(report *operationreport.Report, operation *ir.Operation, selections []ir.Selection) {
	for _, selection := range selections {
		switch s := selection.(type) {
		case *ir.ScalarField:
			if s.Definition.Name == literal.TYPENAME {
				report.AddDiagnostic(operationreport.ErrTypenameOnRoot(operation.Name.Item, s.Location))
			}
		case *ir.Condition:
			checkRootSelections(report, operation, s.Selections)
		case *ir.InlineFragment:
			if s.TypeCondition == nil || s.TypeCondition == operation.Type {
				checkRootSelections(report, operation, s.Selections)
			}
		}
	}
}
