// Package unsafebuilder builds schemas and programs for tests and panics on any error.
package unsafebuilder

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irbuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

func Schema(sdl string) *schema.GQLSchema {
	return schema.MustLoadString(sdl, "")
}

func SchemaWithExtensions(sdl, extensions string) *schema.GQLSchema {
	return schema.MustLoadString(sdl, extensions)
}

func Definitions(s schema.Schema, document string) []ir.ExecutableDefinition {
	definitions, err := irbuilder.BuildString(s, "document.graphql", document)
	if err != nil {
		panic(err)
	}
	return definitions
}

func Program(s schema.Schema, document string) *ir.Program {
	return ir.FromDefinitions(s, Definitions(s, document))
}

func Fragment(program *ir.Program, name string) *ir.Fragment {
	fragment, ok := program.Fragment(intern.Intern(name))
	if !ok {
		panic("fragment " + name + " not found")
	}
	return fragment
}

func Operation(program *ir.Program, name string) *ir.Operation {
	operation, ok := program.Operation(intern.Intern(name))
	if !ok {
		panic("operation " + name + " not found")
	}
	return operation
}
