package ir

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

// ConstantValue is a value without variables.
type ConstantValue interface {
	isConstantValue()
}

type ConstInt struct{ Value int64 }
type ConstFloat struct{ Value float64 }
type ConstString struct{ Value string }
type ConstBoolean struct{ Value bool }
type ConstNull struct{}
type ConstEnum struct{ Value intern.StringKey }
type ConstList struct{ Items []ConstantValue }
type ConstObject struct{ Fields []ConstantField }

type ConstantField struct {
	Name  WithLocation
	Value ConstantValue
}

func (ConstInt) isConstantValue()     {}
func (ConstFloat) isConstantValue()   {}
func (ConstString) isConstantValue()  {}
func (ConstBoolean) isConstantValue() {}
func (ConstNull) isConstantValue()    {}
func (ConstEnum) isConstantValue()    {}
func (ConstList) isConstantValue()    {}
func (ConstObject) isConstantValue()  {}

// Value is one of *Constant, *Variable, *ListValue or *ObjectValue.
type Value interface {
	isValue()
}

type Constant struct {
	Value    ConstantValue
	Location Location
}

type Variable struct {
	Name WithLocation
	Type TypeReference
}

type ListValue struct {
	Items    []Value
	Location Location
}

type ObjectValue struct {
	Fields   []ValueField
	Location Location
}

type ValueField struct {
	Name  WithLocation
	Value Value
}

func (*Constant) isValue()    {}
func (*Variable) isValue()    {}
func (*ListValue) isValue()   {}
func (*ObjectValue) isValue() {}

// IsConstantNull reports whether v is the literal null.
func IsConstantNull(v Value) bool {
	c, ok := v.(*Constant)
	if !ok {
		return false
	}
	_, isNull := c.Value.(ConstNull)
	return isNull
}

// ConstantBool returns the boolean literal of v, if v is one.
func ConstantBool(v Value) (value, ok bool) {
	c, isConstant := v.(*Constant)
	if !isConstant {
		return false, false
	}
	b, isBool := c.Value.(ConstBoolean)
	return b.Value, isBool
}

// ConstantString returns the string literal of v, if v is one.
func ConstantString(v Value) (string, bool) {
	c, isConstant := v.(*Constant)
	if !isConstant {
		return "", false
	}
	s, isString := c.Value.(ConstString)
	return s.Value, isString
}

// Argument is a name/value pair of a field, directive or fragment spread.
type Argument struct {
	Name  WithLocation
	Value Value
}

type Arguments []*Argument

// Named returns the argument called name.
func (a Arguments) Named(name intern.StringKey) (*Argument, bool) {
	for _, argument := range a {
		if argument.Name.Item == name {
			return argument, true
		}
	}
	return nil, false
}

type Directive struct {
	Name      WithLocation
	Arguments Arguments
}

type Directives []*Directive

// Named returns the directive called name.
func (d Directives) Named(name intern.StringKey) (*Directive, bool) {
	for _, directive := range d {
		if directive.Name.Item == name {
			return directive, true
		}
	}
	return nil, false
}

// Without returns the directives other than name. The receiver is returned when nothing is removed.
func (d Directives) Without(name intern.StringKey) Directives {
	if _, ok := d.Named(name); !ok {
		return d
	}
	out := make(Directives, 0, len(d)-1)
	for _, directive := range d {
		if directive.Name.Item != name {
			out = append(out, directive)
		}
	}
	return out
}

type VariableDefinition struct {
	Name WithLocation
	Type TypeReference
	// DefaultValue is nil when the variable has no default.
	DefaultValue ConstantValue
	Directives   Directives
}

func (v *VariableDefinition) HasDefault() bool {
	return v.DefaultValue != nil
}

type VariableDefinitions []*VariableDefinition

func (v VariableDefinitions) Named(name intern.StringKey) (*VariableDefinition, bool) {
	for _, definition := range v {
		if definition.Name.Item == name {
			return definition, true
		}
	}
	return nil, false
}
