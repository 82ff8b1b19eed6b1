package ir

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

type OperationKind int

const (
	Query OperationKind = iota + 1
	Mutation
	Subscription
)

func (k OperationKind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// ExecutableDefinition is either an *Operation or a *Fragment.
type ExecutableDefinition interface {
	isExecutableDefinition()
	DefinitionName() intern.StringKey
	GetLocation() Location
	GetSelections() []Selection
	GetDirectives() Directives
}

type Operation struct {
	Kind                OperationKind
	Name                WithLocation
	Type                *schema.Type
	VariableDefinitions VariableDefinitions
	Directives          Directives
	Selections          []Selection
}

type Fragment struct {
	Name          WithLocation
	TypeCondition *schema.Type
	// VariableDefinitions are the fragment's local arguments, declared with @argumentDefinitions.
	VariableDefinitions VariableDefinitions
	// UsedGlobalVariables are the operation variables the fragment references.
	UsedGlobalVariables VariableDefinitions
	Directives          Directives
	Selections          []Selection
}

func (*Operation) isExecutableDefinition() {}
func (*Fragment) isExecutableDefinition()  {}

func (o *Operation) DefinitionName() intern.StringKey { return o.Name.Item }
func (f *Fragment) DefinitionName() intern.StringKey  { return f.Name.Item }

func (o *Operation) GetLocation() Location { return o.Name.Loc }
func (f *Fragment) GetLocation() Location  { return f.Name.Loc }

func (o *Operation) GetSelections() []Selection { return o.Selections }
func (f *Fragment) GetSelections() []Selection  { return f.Selections }

func (o *Operation) GetDirectives() Directives { return o.Directives }
func (f *Fragment) GetDirectives() Directives  { return f.Directives }
