// Package literal holds the interned names the compiler matches against.
package literal

import "github.com/wundergraph/graphql-go-compiler/pkg/intern"

var (
	ID       = intern.Intern("id")
	IDType   = intern.Intern("ID")
	TYPENAME = intern.Intern("__typename")
	ID_ALIAS = intern.Intern("__id")
	NODE     = intern.Intern("Node")
	QUERY    = intern.Intern("Query")

	SKIP    = intern.Intern("skip")
	INCLUDE = intern.Intern("include")
	IF      = intern.Intern("if")

	ARGUMENTS            = intern.Intern("arguments")
	ARGUMENT_DEFINITIONS = intern.Intern("argumentDefinitions")
	TYPE                 = intern.Intern("type")
	DEFAULT_VALUE        = intern.Intern("defaultValue")

	CONNECTION    = intern.Intern("connection")
	KEY           = intern.Intern("key")
	FILTERS       = intern.Intern("filters")
	FIRST         = intern.Intern("first")
	LAST          = intern.Intern("last")
	EDGES         = intern.Intern("edges")
	NODE_FIELD    = intern.Intern("node")
	CURSOR        = intern.Intern("cursor")
	PAGE_INFO     = intern.Intern("pageInfo")
	END_CURSOR    = intern.Intern("endCursor")
	HAS_NEXT_PAGE = intern.Intern("hasNextPage")

	APPEND_EDGE   = intern.Intern("appendEdge")
	PREPEND_EDGE  = intern.Intern("prependEdge")
	APPEND_NODE   = intern.Intern("appendNode")
	PREPEND_NODE  = intern.Intern("prependNode")
	DELETE_RECORD = intern.Intern("deleteRecord")
	DELETE_EDGE   = intern.Intern("deleteEdge")
	CONNECTIONS   = intern.Intern("connections")
	EDGE_TYPENAME = intern.Intern("edgeTypeName")

	REFETCHABLE = intern.Intern("refetchable")
	QUERY_NAME  = intern.Intern("queryName")

	RELAY = intern.Intern("relay")
	MASK  = intern.Intern("mask")

	RELAY_RESOLVER          = intern.Intern("relay_resolver")
	RELAY_RESOLVER_METADATA = intern.Intern("__relayResolver")
	FRAGMENT_NAME           = intern.Intern("fragment_name")
	FIELD_NAME              = intern.Intern("field_name")

	CLIENT_EXTENSION = intern.Intern("__clientExtension")
)

// CompilerDirectives are consumed by the compiler and never sent to a server.
var CompilerDirectives = intern.NewSet(
	ARGUMENTS,
	ARGUMENT_DEFINITIONS,
	CONNECTION,
	APPEND_EDGE,
	PREPEND_EDGE,
	APPEND_NODE,
	PREPEND_NODE,
	DELETE_RECORD,
	DELETE_EDGE,
	REFETCHABLE,
	RELAY,
	RELAY_RESOLVER_METADATA,
	CLIENT_EXTENSION,
)
