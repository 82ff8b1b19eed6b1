package irbuilder

import (
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

func location(position *ast.Position) ir.Location {
	if position == nil {
		return ir.Location{}
	}
	out := ir.Location{
		Start:  position.Start,
		End:    position.End,
		Line:   position.Line,
		Column: position.Column,
	}
	if position.Src != nil {
		out.Source = intern.Intern(position.Src.Name)
	}
	return out
}

func syntaxDiagnostic(source *ast.Source, err error) operationreport.Diagnostic {
	loc := ir.Location{Source: intern.Intern(source.Name)}
	message := err.Error()
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		message = gqlErr.Message
		if len(gqlErr.Locations) > 0 {
			loc.Line = gqlErr.Locations[0].Line
			loc.Column = gqlErr.Locations[0].Column
		}
	}
	return operationreport.ErrSyntax(message, loc)
}

func typeReference(t *ast.Type) ir.TypeReference {
	var out ir.TypeReference
	if t.Elem != nil {
		out = ir.ListType{Of: typeReference(t.Elem)}
	} else {
		out = ir.NamedType{Type: intern.Intern(t.NamedType)}
	}
	if t.NonNull {
		out = ir.NonNullType{Of: out}
	}
	return out
}

// parseTypeString parses a type reference such as "[ID!]!" by letting the query parser read
// it as the type of a variable.
func parseTypeString(input string) (ir.TypeReference, bool) {
	document, err := parser.ParseQuery(&ast.Source{Name: "type", Input: "query($v: " + input + ") { __typename }"})
	if err != nil || len(document.Operations) != 1 || len(document.Operations[0].VariableDefinitions) != 1 {
		return nil, false
	}
	return typeReference(document.Operations[0].VariableDefinitions[0].Type), true
}

func withoutDirective(list ast.DirectiveList, name intern.StringKey) ast.DirectiveList {
	if list.ForName(name.String()) == nil {
		return list
	}
	out := make(ast.DirectiveList, 0, len(list)-1)
	for _, directive := range list {
		if directive.Name != name.String() {
			out = append(out, directive)
		}
	}
	return out
}
