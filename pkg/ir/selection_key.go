package ir

import (
	"strings"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

// HasUnaliasedField reports whether selections contain the field name without an alias
// (or aliased to itself) at the top level.
func HasUnaliasedField(selections []Selection, name intern.StringKey) bool {
	for _, selection := range selections {
		switch s := selection.(type) {
		case *ScalarField:
			if s.Definition.Name == name && !s.IsAliased() {
				return true
			}
		case *LinkedField:
			if s.Definition.Name == name && !s.IsAliased() {
				return true
			}
		}
	}
	return false
}

// SelectionIdentity identifies selections that can be merged: fields by response key,
// inline fragments by type condition, spreads by fragment name. Selections carrying
// directives or arguments are only mergeable with structurally identical ones, which
// callers check separately.
func SelectionIdentity(selection Selection) string {
	var b strings.Builder
	switch s := selection.(type) {
	case *ScalarField:
		b.WriteString("field:")
		b.WriteString(s.AliasOrName().String())
	case *LinkedField:
		b.WriteString("field:")
		b.WriteString(s.AliasOrName().String())
	case *InlineFragment:
		b.WriteString("inline:")
		if s.TypeCondition != nil {
			b.WriteString(s.TypeCondition.Name.String())
		}
	case *FragmentSpread:
		b.WriteString("spread:")
		b.WriteString(s.Fragment.Item.String())
	case *Condition:
		b.WriteString("condition:")
		if s.PassingValue {
			b.WriteString("include:")
		} else {
			b.WriteString("skip:")
		}
		switch v := s.Value.(type) {
		case *Variable:
			b.WriteString("$")
			b.WriteString(v.Name.Item.String())
		case *Constant:
			if value, ok := ConstantBool(v); ok && value {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
	}
	return b.String()
}
