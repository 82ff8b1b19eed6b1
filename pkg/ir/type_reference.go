package ir

import (
	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

// TypeReference is one of NamedType, NonNullType or ListType.
type TypeReference interface {
	isTypeReference()
	// Inner returns the named type at the bottom of the wrapping.
	Inner() intern.StringKey
	String() string
}

type NamedType struct {
	Type intern.StringKey
}

type NonNullType struct {
	Of TypeReference
}

type ListType struct {
	Of TypeReference
}

func (NamedType) isTypeReference()   {}
func (NonNullType) isTypeReference() {}
func (ListType) isTypeReference()    {}

func (n NamedType) Inner() intern.StringKey   { return n.Type }
func (n NonNullType) Inner() intern.StringKey { return n.Of.Inner() }
func (l ListType) Inner() intern.StringKey    { return l.Of.Inner() }

func (n NamedType) String() string   { return n.Type.String() }
func (n NonNullType) String() string { return n.Of.String() + "!" }
func (l ListType) String() string    { return "[" + l.Of.String() + "]" }

// Nullable strips an outer non-null wrapper.
func Nullable(t TypeReference) TypeReference {
	if nonNull, ok := t.(NonNullType); ok {
		return nonNull.Of
	}
	return t
}

// IsNonNull reports whether t has an outer non-null wrapper.
func IsNonNull(t TypeReference) bool {
	_, ok := t.(NonNullType)
	return ok
}

// TypeReferenceFromSchema converts a schema type reference.
func TypeReferenceFromSchema(ref *schema.TypeRef) TypeReference {
	var out TypeReference
	if ref.Elem != nil {
		out = ListType{Of: TypeReferenceFromSchema(ref.Elem)}
	} else {
		out = NamedType{Type: ref.Name}
	}
	if ref.NonNull {
		out = NonNullType{Of: out}
	}
	return out
}

// TypeReferencesEqual compares two references structurally.
func TypeReferencesEqual(a, b TypeReference) bool {
	switch left := a.(type) {
	case NamedType:
		right, ok := b.(NamedType)
		return ok && left.Type == right.Type
	case NonNullType:
		right, ok := b.(NonNullType)
		return ok && TypeReferencesEqual(left.Of, right.Of)
	case ListType:
		right, ok := b.(ListType)
		return ok && TypeReferencesEqual(left.Of, right.Of)
	}
	return false
}
