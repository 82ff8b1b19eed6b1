// Package scope binds fragment-local variables to the values passed at a spread site.
package scope

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

// Frame holds the bindings of one fragment spread.
type Frame struct {
	Location ir.Location
	Bindings map[intern.StringKey]ir.Value
}

// Scope is a stack of frames. Lookups only see the top frame: a fragment's arguments are
// fully resolved at its own spread site and never inherit bindings of enclosing fragments.
// The zero value is an empty scope.
type Scope struct {
	frames []Frame
}

func New() *Scope {
	return &Scope{}
}

// Root returns a scope whose single frame binds the operation's variables to themselves.
func Root(operation *ir.Operation) *Scope {
	bindings := make(map[intern.StringKey]ir.Value, len(operation.VariableDefinitions))
	for _, definition := range operation.VariableDefinitions {
		bindings[definition.Name.Item] = &ir.Variable{Name: definition.Name, Type: definition.Type}
	}
	return &Scope{frames: []Frame{{Location: operation.Name.Loc, Bindings: bindings}}}
}

// Push binds every definition to the argument of the same name. A missing argument binds the
// default value, or null without a default. An explicit null argument for a definition with
// a default also binds the default.
func (s *Scope) Push(location ir.Location, definitions ir.VariableDefinitions, arguments ir.Arguments) {
	bindings := make(map[intern.StringKey]ir.Value, len(definitions))
	for _, definition := range definitions {
		argument, found := arguments.Named(definition.Name.Item)
		switch {
		case found && ir.IsConstantNull(argument.Value) && definition.HasDefault():
			bindings[definition.Name.Item] = &ir.Constant{Value: definition.DefaultValue, Location: argument.Name.Loc}
		case found:
			bindings[definition.Name.Item] = argument.Value
		case definition.HasDefault():
			bindings[definition.Name.Item] = &ir.Constant{Value: definition.DefaultValue, Location: definition.Name.Loc}
		default:
			bindings[definition.Name.Item] = &ir.Constant{Value: ir.ConstNull{}, Location: location}
		}
	}
	s.frames = append(s.frames, Frame{Location: location, Bindings: bindings})
}

// Pop removes the top frame. Popping an empty scope is a traversal bug and panics.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		panic("scope: pop on empty scope")
	}
	s.frames[len(s.frames)-1] = Frame{}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) Depth() int {
	return len(s.frames)
}

// Lookup returns the binding of name in the top frame.
func (s *Scope) Lookup(name intern.StringKey) (ir.Value, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	value, ok := s.frames[len(s.frames)-1].Bindings[name]
	return value, ok
}

// Top returns the top frame.
func (s *Scope) Top() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Within pushes a frame, runs fn and pops the frame again, also when fn panics.
func (s *Scope) Within(location ir.Location, definitions ir.VariableDefinitions, arguments ir.Arguments, fn func()) {
	depth := s.Depth()
	s.Push(location, definitions, arguments)
	defer func() {
		s.Pop()
		if s.Depth() != depth {
			panic(fmt.Sprintf("scope: unbalanced frames, depth %d after leaving a frame pushed at depth %d", s.Depth(), depth))
		}
	}()
	fn()
}
