package schema

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
)

const compilerDirectivesSource = `
directive @relay_resolver(fragment_name: String, field_name: String) on FIELD_DEFINITION
`

var (
	typenameKey      = intern.Intern("__typename")
	idKey            = intern.Intern("id")
	idTypeKey        = intern.Intern("ID")
	nodeKey          = intern.Intern("Node")
	relayResolverKey = intern.Intern("relay_resolver")
	fragmentNameKey  = intern.Intern("fragment_name")
	stringKey        = intern.Intern("String")
)

// GQLSchema implements Schema on top of a gqlparser schema. It is immutable after Load.
type GQLSchema struct {
	types         map[intern.StringKey]*Type
	possibleTypes map[*Type][]*Type
	query         *Type
	mutation      *Type
	subscription  *Type
	typename      map[*Type]*Field
}

type fieldCoordinate struct {
	typeName  string
	fieldName string
}

// Load builds a schema from the server sources and the client schema extensions.
// Everything defined or added in an extension source is marked as client-only.
func Load(server []*ast.Source, extensions []*ast.Source) (*GQLSchema, error) {
	clientTypes := map[string]struct{}{}
	clientFields := map[fieldCoordinate]struct{}{}

	for _, source := range extensions {
		document, err := parser.ParseSchema(source)
		if err != nil {
			return nil, errors.Wrapf(err, "parse schema extension %s", source.Name)
		}
		for _, definition := range document.Definitions {
			clientTypes[definition.Name] = struct{}{}
		}
		for _, extension := range document.Extensions {
			for _, field := range extension.Fields {
				clientFields[fieldCoordinate{typeName: extension.Name, fieldName: field.Name}] = struct{}{}
			}
		}
	}

	sources := make([]*ast.Source, 0, len(server)+len(extensions)+1)
	sources = append(sources, server...)
	sources = append(sources, extensions...)

	declared, parseErr := parser.ParseSchemas(sources...)
	if parseErr != nil {
		return nil, errors.Wrap(parseErr, "parse schema")
	}
	if !declaresDirective(declared, "relay_resolver") {
		sources = append([]*ast.Source{{Name: "compiler_directives.graphql", Input: compilerDirectivesSource, BuiltIn: true}}, sources...)
	}

	loaded, loadErr := gqlparser.LoadSchema(sources...)
	if loadErr != nil {
		return nil, errors.Wrap(loadErr, "load schema")
	}

	return newGQLSchema(loaded, clientTypes, clientFields), nil
}

// LoadString is Load for in-memory documents. extension may be empty.
func LoadString(server, extension string) (*GQLSchema, error) {
	var extensions []*ast.Source
	if extension != "" {
		extensions = append(extensions, &ast.Source{Name: "extensions.graphql", Input: extension})
	}
	return Load([]*ast.Source{{Name: "schema.graphql", Input: server}}, extensions)
}

// MustLoadString is LoadString that panics on error, meant for tests.
func MustLoadString(server, extension string) *GQLSchema {
	s, err := LoadString(server, extension)
	if err != nil {
		panic(err)
	}
	return s
}

func newGQLSchema(loaded *ast.Schema, clientTypes map[string]struct{}, clientFields map[fieldCoordinate]struct{}) *GQLSchema {
	s := &GQLSchema{
		types:         make(map[intern.StringKey]*Type, len(loaded.Types)),
		possibleTypes: make(map[*Type][]*Type),
		typename:      make(map[*Type]*Field),
	}

	for name, definition := range loaded.Types {
		_, isClient := clientTypes[name]
		s.types[intern.Intern(name)] = &Type{
			Name:        intern.Intern(name),
			Kind:        convertKind(definition.Kind),
			IsExtension: isClient,
			fields:      make(map[intern.StringKey]*Field, len(definition.Fields)),
		}
	}

	for name, definition := range loaded.Types {
		t := s.types[intern.Intern(name)]
		_, typeIsClient := clientTypes[name]
		for _, iface := range definition.Interfaces {
			if resolved, ok := s.types[intern.Intern(iface)]; ok {
				t.interfaces = append(t.interfaces, resolved)
			}
		}
		for _, fieldDefinition := range definition.Fields {
			_, fieldIsClient := clientFields[fieldCoordinate{typeName: name, fieldName: fieldDefinition.Name}]
			field := &Field{
				Name:        intern.Intern(fieldDefinition.Name),
				Parent:      t,
				Type:        convertTypeRef(fieldDefinition.Type),
				IsExtension: typeIsClient || fieldIsClient,
			}
			for _, argument := range fieldDefinition.Arguments {
				field.Arguments = append(field.Arguments, &Argument{
					Name: intern.Intern(argument.Name),
					Type: convertTypeRef(argument.Type),
				})
			}
			for _, directive := range fieldDefinition.Directives {
				converted := convertDirective(directive)
				field.Directives = append(field.Directives, converted)
				if converted.Name == relayResolverKey {
					if fragment, ok := converted.Arguments[fragmentNameKey]; ok {
						field.resolverFragment = intern.Intern(fragment)
					}
				}
			}
			t.fields[field.Name] = field
			t.fieldOrder = append(t.fieldOrder, field)
		}
		if t.IsComposite() {
			s.typename[t] = &Field{
				Name:   typenameKey,
				Parent: t,
				Type:   &TypeRef{Name: stringKey, NonNull: true},
			}
		}
	}

	for name, definition := range loaded.Types {
		t := s.types[intern.Intern(name)]
		switch t.Kind {
		case KindObject:
			s.possibleTypes[t] = []*Type{t}
		case KindInterface, KindUnion:
			for _, possible := range loaded.GetPossibleTypes(definition) {
				if resolved, ok := s.types[intern.Intern(possible.Name)]; ok {
					s.possibleTypes[t] = append(s.possibleTypes[t], resolved)
				}
			}
			possible := s.possibleTypes[t]
			sort.Slice(possible, func(i, j int) bool {
				return possible[i].Name.Less(possible[j].Name)
			})
		}
	}

	if loaded.Query != nil {
		s.query = s.types[intern.Intern(loaded.Query.Name)]
	}
	if loaded.Mutation != nil {
		s.mutation = s.types[intern.Intern(loaded.Mutation.Name)]
	}
	if loaded.Subscription != nil {
		s.subscription = s.types[intern.Intern(loaded.Subscription.Name)]
	}

	return s
}

func declaresDirective(document *ast.SchemaDocument, name string) bool {
	for _, directive := range document.Directives {
		if directive.Name == name {
			return true
		}
	}
	return false
}

func convertKind(kind ast.DefinitionKind) TypeKind {
	switch kind {
	case ast.Object:
		return KindObject
	case ast.Interface:
		return KindInterface
	case ast.Union:
		return KindUnion
	case ast.Enum:
		return KindEnum
	case ast.InputObject:
		return KindInputObject
	default:
		return KindScalar
	}
}

func convertTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.Elem != nil {
		return &TypeRef{NonNull: t.NonNull, Elem: convertTypeRef(t.Elem)}
	}
	return &TypeRef{Name: intern.Intern(t.NamedType), NonNull: t.NonNull}
}

func convertDirective(directive *ast.Directive) *Directive {
	converted := &Directive{
		Name:      intern.Intern(directive.Name),
		Arguments: make(map[intern.StringKey]string, len(directive.Arguments)),
	}
	for _, argument := range directive.Arguments {
		if argument.Value != nil {
			converted.Arguments[intern.Intern(argument.Name)] = argument.Value.Raw
		}
	}
	return converted
}

func (s *GQLSchema) Type(name intern.StringKey) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

func (s *GQLSchema) QueryType() (*Type, bool) {
	return s.query, s.query != nil
}

func (s *GQLSchema) MutationType() (*Type, bool) {
	return s.mutation, s.mutation != nil
}

func (s *GQLSchema) SubscriptionType() (*Type, bool) {
	return s.subscription, s.subscription != nil
}

func (s *GQLSchema) Field(parent *Type, name intern.StringKey) (*Field, bool) {
	if parent == nil {
		return nil, false
	}
	if name == typenameKey {
		field, ok := s.typename[parent]
		return field, ok
	}
	field, ok := parent.fields[name]
	return field, ok
}

func (s *GQLSchema) FieldType(field *Field) *Type {
	return s.types[field.Type.NamedType()]
}

func (s *GQLSchema) PossibleTypes(t *Type) []*Type {
	return s.possibleTypes[t]
}

func (s *GQLSchema) Implements(object, iface *Type) bool {
	for _, implemented := range object.interfaces {
		if implemented == iface {
			return true
		}
	}
	return false
}

func (s *GQLSchema) IsSubtype(sub, super *Type) bool {
	if sub == super {
		return true
	}
	switch super.Kind {
	case KindInterface, KindUnion:
		if sub.Kind == KindObject {
			for _, possible := range s.possibleTypes[super] {
				if possible == sub {
					return true
				}
			}
			return false
		}
		if sub.Kind == KindInterface && super.Kind == KindInterface {
			return s.Implements(sub, super)
		}
	}
	return false
}

func (s *GQLSchema) Overlaps(a, b *Type) bool {
	if a == b {
		return true
	}
	for _, left := range s.possibleTypes[a] {
		for _, right := range s.possibleTypes[b] {
			if left == right {
				return true
			}
		}
	}
	return false
}

func (s *GQLSchema) NodeInterface() (*Type, bool) {
	t, ok := s.types[nodeKey]
	if !ok || t.Kind != KindInterface {
		return nil, false
	}
	return t, true
}

func (s *GQLSchema) IDField(t *Type) (*Field, bool) {
	if t == nil || (t.Kind != KindObject && t.Kind != KindInterface) {
		return nil, false
	}
	field, ok := t.fields[idKey]
	if !ok || field.Type.IsList() || field.Type.NamedType() != idTypeKey {
		return nil, false
	}
	return field, true
}

func (s *GQLSchema) ResolverFragment(field *Field) (intern.StringKey, bool) {
	if field == nil {
		return intern.Empty, false
	}
	return field.ResolverFragment()
}
