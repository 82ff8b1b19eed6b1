package ir

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

// Location points into a source document.
type Location struct {
	Source intern.StringKey
	Start  int
	End    int
	Line   int
	Column int
}

// Generated is the location of nodes synthesized by the compiler.
var Generated = Location{Source: intern.Intern("<generated>")}

func (l Location) IsGenerated() bool {
	return l.Source == Generated.Source
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.Source.String()
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// WithLocation attaches a location to an interned name.
type WithLocation struct {
	Item intern.StringKey
	Loc  Location
}

// Named is a shorthand for a generated WithLocation.
func Named(name intern.StringKey) WithLocation {
	return WithLocation{Item: name, Loc: Generated}
}
