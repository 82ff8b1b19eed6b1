package ir

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// Selection is one of *ScalarField, *LinkedField, *InlineFragment, *FragmentSpread or *Condition.
// Selections are immutable once built and may be shared between programs.
type Selection interface {
	isSelection()
	GetLocation() Location
	GetDirectives() Directives
}

type ScalarField struct {
	// Alias is empty when the field is not aliased.
	Alias      WithLocation
	Definition *schema.Field
	Arguments  Arguments
	Directives Directives
	Location   Location
}

type LinkedField struct {
	Alias      WithLocation
	Definition *schema.Field
	Arguments  Arguments
	Directives Directives
	Selections []Selection
	Location   Location
}

type InlineFragment struct {
	// TypeCondition is nil for inline fragments without a type condition.
	TypeCondition *schema.Type
	Directives    Directives
	Selections    []Selection
	Location      Location
}

type FragmentSpread struct {
	Fragment   WithLocation
	Arguments  Arguments
	Directives Directives
}

// Condition guards its selections by @skip or @include.
// Value is either a *Constant holding a ConstBoolean or a *Variable.
type Condition struct {
	Value        Value
	PassingValue bool
	Selections   []Selection
	Location     Location
}

func (*ScalarField) isSelection()    {}
func (*LinkedField) isSelection()    {}
func (*InlineFragment) isSelection() {}
func (*FragmentSpread) isSelection() {}
func (*Condition) isSelection()      {}

func (f *ScalarField) GetLocation() Location    { return f.Location }
func (f *LinkedField) GetLocation() Location    { return f.Location }
func (f *InlineFragment) GetLocation() Location { return f.Location }
func (f *FragmentSpread) GetLocation() Location { return f.Fragment.Loc }
func (c *Condition) GetLocation() Location      { return c.Location }

func (f *ScalarField) GetDirectives() Directives    { return f.Directives }
func (f *LinkedField) GetDirectives() Directives    { return f.Directives }
func (f *InlineFragment) GetDirectives() Directives { return f.Directives }
func (f *FragmentSpread) GetDirectives() Directives { return f.Directives }
func (c *Condition) GetDirectives() Directives      { return nil }

func (f *ScalarField) Name() intern.StringKey { return f.Definition.Name }
func (f *LinkedField) Name() intern.StringKey { return f.Definition.Name }

func (f *ScalarField) AliasOrName() intern.StringKey {
	if !f.Alias.Item.IsEmpty() {
		return f.Alias.Item
	}
	return f.Definition.Name
}

func (f *LinkedField) AliasOrName() intern.StringKey {
	if !f.Alias.Item.IsEmpty() {
		return f.Alias.Item
	}
	return f.Definition.Name
}

// IsAliased reports whether the field has an alias different from its name.
func (f *ScalarField) IsAliased() bool {
	return !f.Alias.Item.IsEmpty() && f.Alias.Item != f.Definition.Name
}

func (f *LinkedField) IsAliased() bool {
	return !f.Alias.Item.IsEmpty() && f.Alias.Item != f.Definition.Name
}

// Field is implemented by *ScalarField and *LinkedField.
type Field interface {
	Selection
	Name() intern.StringKey
	AliasOrName() intern.StringKey
	IsAliased() bool
}

var (
	_ Field = (*ScalarField)(nil)
	_ Field = (*LinkedField)(nil)
)
