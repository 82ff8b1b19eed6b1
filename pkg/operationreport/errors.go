package operationreport

import (
	"fmt"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

// Kind is the message variant of a diagnostic.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindUndefinedType
	KindUndefinedField
	KindUndefinedFragment
	KindDuplicateDefinition
	KindFragmentCycle
	KindInvalidArgument
	KindInvalidDirectiveCombination
	KindUnknownFragmentArgument
	KindUndefinedVariable
	KindUnmaskArgumentConflict
	KindRefetchable
	KindConnection
	KindDeclarativeConnection
	KindReservedAlias
	KindTypenameOnRoot
	KindResolver
	KindInvalidSelection
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "Syntax"
	case KindUndefinedType:
		return "UndefinedType"
	case KindUndefinedField:
		return "UndefinedField"
	case KindUndefinedFragment:
		return "UndefinedFragment"
	case KindDuplicateDefinition:
		return "DuplicateDefinition"
	case KindFragmentCycle:
		return "FragmentCycle"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidDirectiveCombination:
		return "InvalidDirectiveCombination"
	case KindUnknownFragmentArgument:
		return "UnknownFragmentArgument"
	case KindUndefinedVariable:
		return "UndefinedVariable"
	case KindUnmaskArgumentConflict:
		return "UnmaskArgumentConflict"
	case KindRefetchable:
		return "Refetchable"
	case KindConnection:
		return "Connection"
	case KindDeclarativeConnection:
		return "DeclarativeConnection"
	case KindReservedAlias:
		return "ReservedAlias"
	case KindTypenameOnRoot:
		return "TypenameOnRoot"
	case KindResolver:
		return "Resolver"
	case KindInvalidSelection:
		return "InvalidSelection"
	default:
		return "Unknown"
	}
}

func newDiagnostic(kind Kind, message string, locations ...ir.Location) Diagnostic {
	return Diagnostic{Kind: kind, Message: message, Locations: locations}
}

func ErrSyntax(message string, location ir.Location) Diagnostic {
	return newDiagnostic(KindSyntax, message, location)
}

func ErrTypeUndefined(typeName string, location ir.Location) Diagnostic {
	return newDiagnostic(KindUndefinedType, fmt.Sprintf("Unknown type '%s'", typeName), location)
}

func ErrFieldUndefinedOnType(fieldName, typeName string, location ir.Location) Diagnostic {
	return newDiagnostic(KindUndefinedField, fmt.Sprintf("The type '%s' has no field '%s'", typeName, fieldName), location)
}

func ErrFragmentUndefined(fragmentName intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindUndefinedFragment, fmt.Sprintf("Undefined fragment '%s'", fragmentName), location)
}

func ErrDuplicateDefinition(name intern.StringKey, first, second ir.Location) Diagnostic {
	return newDiagnostic(KindDuplicateDefinition, fmt.Sprintf("Duplicate definitions for '%s'", name), first, second)
}

func ErrFragmentCycle(names []intern.StringKey, locations []ir.Location) Diagnostic {
	path := ""
	for i, name := range names {
		if i != 0 {
			path += " -> "
		}
		path += name.String()
	}
	return newDiagnostic(KindFragmentCycle, fmt.Sprintf("Found a circular reference from fragment '%s': %s", names[0], path), locations...)
}

func ErrInvalidArgument(directive, argument intern.StringKey, reason string, location ir.Location) Diagnostic {
	return newDiagnostic(KindInvalidArgument, fmt.Sprintf("Invalid argument '%s' of @%s: %s", argument, directive, reason), location)
}

func ErrMissingArgument(directive, argument intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindInvalidArgument, fmt.Sprintf("Missing required argument '%s' of @%s", argument, directive), location)
}

func ErrDisallowedDirectiveCombination(first, second intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindInvalidDirectiveCombination, fmt.Sprintf("@%s and @%s cannot be used on the same field", first, second), location)
}

func ErrUnknownFragmentArgument(fragment, argument intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindUnknownFragmentArgument, fmt.Sprintf("Fragment '%s' does not define an argument '%s'", fragment, argument), location)
}

func ErrUndefinedVariable(operation, variable intern.StringKey, locations ...ir.Location) Diagnostic {
	return newDiagnostic(KindUndefinedVariable, fmt.Sprintf("Operation '%s' references undefined variable '$%s'", operation, variable), locations...)
}

func ErrUnmaskArgumentConflict(variable intern.StringKey, first, second ir.Location) Diagnostic {
	return newDiagnostic(KindUnmaskArgumentConflict, fmt.Sprintf("Cannot unmask fragment: variable '$%s' is used with conflicting types", variable), first, second)
}

func ErrUnmaskWithArguments(fragment intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindUnmaskArgumentConflict, fmt.Sprintf("Cannot unmask fragment spread '%s' with arguments", fragment), location)
}

func ErrRefetchable(message string, locations ...ir.Location) Diagnostic {
	return newDiagnostic(KindRefetchable, message, locations...)
}

func ErrConnection(message string, location ir.Location) Diagnostic {
	return newDiagnostic(KindConnection, message, location)
}

func ErrDeclarativeConnection(message string, location ir.Location) Diagnostic {
	return newDiagnostic(KindDeclarativeConnection, message, location)
}

func ErrReservedAlias(alias intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindReservedAlias, fmt.Sprintf("'%s' is a reserved alias", alias), location)
}

func ErrTypenameOnRoot(operation intern.StringKey, location ir.Location) Diagnostic {
	return newDiagnostic(KindTypenameOnRoot, fmt.Sprintf("Operation '%s' selects __typename on its root type", operation), location)
}

func ErrResolver(message string, location ir.Location) Diagnostic {
	return newDiagnostic(KindResolver, message, location)
}

func ErrInvalidSelection(message string, location ir.Location) Diagnostic {
	return newDiagnostic(KindInvalidSelection, message, location)
}
