package ir

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// Program is the unit of transformation: a schema, fragments by name and operations in
// compilation order. Passes never modify a Program they receive, they build a new one
// that shares every unchanged definition.
type Program struct {
	Schema     schema.Schema
	fragments  map[intern.StringKey]*Fragment
	operations []*Operation
}

func NewProgram(s schema.Schema) *Program {
	return &Program{
		Schema:    s,
		fragments: make(map[intern.StringKey]*Fragment),
	}
}

// FromDefinitions builds a program. Definition names must be unique, the IR builder
// guarantees it, so a duplicate here is a broken invariant.
func FromDefinitions(s schema.Schema, definitions []ExecutableDefinition) *Program {
	p := NewProgram(s)
	seen := make(intern.StringKeySet, len(definitions))
	for _, definition := range definitions {
		name := definition.DefinitionName()
		if seen.Contains(name) {
			panic(fmt.Sprintf("ir: duplicate definition %s", name))
		}
		seen.Add(name)
		switch d := definition.(type) {
		case *Operation:
			p.InsertOperation(d)
		case *Fragment:
			p.InsertFragment(d)
		}
	}
	return p
}

// CloneWithoutDefinitions returns an empty program bound to the same schema.
func (p *Program) CloneWithoutDefinitions() *Program {
	return NewProgram(p.Schema)
}

// Clone returns a program sharing all definitions of p.
func (p *Program) Clone() *Program {
	out := &Program{
		Schema:     p.Schema,
		fragments:  make(map[intern.StringKey]*Fragment, len(p.fragments)),
		operations: make([]*Operation, len(p.operations)),
	}
	for name, fragment := range p.fragments {
		out.fragments[name] = fragment
	}
	copy(out.operations, p.operations)
	return out
}

// InsertFragment adds or replaces the fragment with the same name.
func (p *Program) InsertFragment(fragment *Fragment) {
	p.fragments[fragment.Name.Item] = fragment
}

func (p *Program) RemoveFragment(name intern.StringKey) {
	delete(p.fragments, name)
}

func (p *Program) InsertOperation(operation *Operation) {
	p.operations = append(p.operations, operation)
}

func (p *Program) Fragment(name intern.StringKey) (*Fragment, bool) {
	fragment, ok := p.fragments[name]
	return fragment, ok
}

// Operation returns the operation called name.
func (p *Program) Operation(name intern.StringKey) (*Operation, bool) {
	for _, operation := range p.operations {
		if operation.Name.Item == name {
			return operation, true
		}
	}
	return nil, false
}

// Fragments returns all fragments ordered by name.
func (p *Program) Fragments() []*Fragment {
	names := make([]intern.StringKey, 0, len(p.fragments))
	for name := range p.fragments {
		names = append(names, name)
	}
	intern.Sort(names)
	out := make([]*Fragment, len(names))
	for i, name := range names {
		out[i] = p.fragments[name]
	}
	return out
}

// Operations returns the operations in compilation order.
func (p *Program) Operations() []*Operation {
	return p.operations
}

func (p *Program) FragmentCount() int {
	return len(p.fragments)
}

func (p *Program) OperationCount() int {
	return len(p.operations)
}

// Definitions returns operations followed by fragments.
func (p *Program) Definitions() []ExecutableDefinition {
	out := make([]ExecutableDefinition, 0, len(p.operations)+len(p.fragments))
	for _, operation := range p.operations {
		out = append(out, operation)
	}
	for _, fragment := range p.Fragments() {
		out = append(out, fragment)
	}
	return out
}
