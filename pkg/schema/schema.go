// Package schema is the compiler's view of a GraphQL type system.
//
// The compiler only ever asks questions of a schema; it never changes it. Schema is the
// interface the compiler depends on, GQLSchema implements it on top of gqlparser.
package schema

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

type TypeKind int

const (
	KindScalar TypeKind = iota + 1
	KindObject
	KindInterface
	KindUnion
	KindEnum
	KindInputObject
)

func (k TypeKind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindObject:
		return "OBJECT"
	case KindInterface:
		return "INTERFACE"
	case KindUnion:
		return "UNION"
	case KindEnum:
		return "ENUM"
	case KindInputObject:
		return "INPUT_OBJECT"
	default:
		return "UNKNOWN"
	}
}

// Type is a named type of the schema. Types are created once per schema and compared by pointer.
type Type struct {
	Name intern.StringKey
	Kind TypeKind
	// IsExtension is set for types defined in client schema extensions.
	IsExtension bool

	fields     map[intern.StringKey]*Field
	fieldOrder []*Field
	interfaces []*Type
}

func (t *Type) IsAbstract() bool {
	return t.Kind == KindInterface || t.Kind == KindUnion
}

func (t *Type) IsComposite() bool {
	return t.Kind == KindObject || t.Kind == KindInterface || t.Kind == KindUnion
}

func (t *Type) IsLeaf() bool {
	return t.Kind == KindScalar || t.Kind == KindEnum
}

// Fields returns the fields in declaration order.
func (t *Type) Fields() []*Field {
	return t.fieldOrder
}

// Interfaces returns the interfaces an object or interface type declares.
func (t *Type) Interfaces() []*Type {
	return t.interfaces
}

func (t *Type) String() string {
	return t.Name.String()
}

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Name    intern.StringKey
	NonNull bool
	Elem    *TypeRef
}

// NamedType returns the innermost type name.
func (r *TypeRef) NamedType() intern.StringKey {
	for cur := r; cur != nil; cur = cur.Elem {
		if cur.Elem == nil {
			return cur.Name
		}
	}
	return intern.Empty
}

func (r *TypeRef) IsList() bool {
	return r.Elem != nil
}

func (r *TypeRef) String() string {
	var out string
	if r.Elem != nil {
		out = "[" + r.Elem.String() + "]"
	} else {
		out = r.Name.String()
	}
	if r.NonNull {
		out += "!"
	}
	return out
}

// Argument is a field or directive argument definition.
type Argument struct {
	Name intern.StringKey
	Type *TypeRef
}

// Directive is a directive applied in the schema, e.g. on a field definition.
type Directive struct {
	Name      intern.StringKey
	Arguments map[intern.StringKey]string
}

// Field is a field definition on an object or interface type.
type Field struct {
	Name       intern.StringKey
	Parent     *Type
	Type       *TypeRef
	Arguments  []*Argument
	Directives []*Directive
	// IsExtension is set for client-only fields, i.e. fields added by client schema extensions.
	IsExtension bool

	resolverFragment intern.StringKey
}

// Argument returns the argument definition named name.
func (f *Field) Argument(name intern.StringKey) (*Argument, bool) {
	for _, arg := range f.Arguments {
		if arg.Name == name {
			return arg, true
		}
	}
	return nil, false
}

// ResolverFragment returns the fragment a resolver-backed field reads, if any.
func (f *Field) ResolverFragment() (intern.StringKey, bool) {
	return f.resolverFragment, !f.resolverFragment.IsEmpty()
}

// Schema is the read-only type universe the compiler consumes.
type Schema interface {
	Type(name intern.StringKey) (*Type, bool)
	QueryType() (*Type, bool)
	MutationType() (*Type, bool)
	SubscriptionType() (*Type, bool)
	// Field resolves a field on parent, including the implicit __typename.
	Field(parent *Type, name intern.StringKey) (*Field, bool)
	// FieldType resolves the named return type of a field.
	FieldType(field *Field) *Type
	PossibleTypes(t *Type) []*Type
	Implements(object, iface *Type) bool
	// IsSubtype reports whether every value of sub is also a value of super.
	IsSubtype(sub, super *Type) bool
	// Overlaps reports whether a and b share at least one possible object type.
	Overlaps(a, b *Type) bool
	NodeInterface() (*Type, bool)
	IDField(t *Type) (*Field, bool)
	ResolverFragment(field *Field) (intern.StringKey, bool)
}
