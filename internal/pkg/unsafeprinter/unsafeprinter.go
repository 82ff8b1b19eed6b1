package unsafeprinter

import (
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irprinter"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

func Print(definition ir.ExecutableDefinition) string {
	str, err := irprinter.PrintString(definition)
	if err != nil {
		panic(err)
	}
	return str
}

func PrintProgram(program *ir.Program) string {
	str, err := irprinter.PrintProgramString(program)
	if err != nil {
		panic(err)
	}
	return str
}

// Prettify builds document against s and prints it back, normalizing formatting so it can
// be compared with printed programs.
func Prettify(s schema.Schema, document string) string {
	return PrintProgram(unsafebuilder.Program(s, document))
}
