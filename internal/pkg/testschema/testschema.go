// Package testschema holds the schema shared by package tests.
package testschema

import (
	"github.com/wundergraph/graphql-go-compiler/internal/pkg/unsafebuilder"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

const SDL = `
schema {
	query: Query
	mutation: Mutation
}

type Query {
	node(id: ID!): Node
	viewer: User
	user(id: ID!): User
	search(term: String): [SearchResult]
	actor: Actor
	address: Address
}

type Mutation {
	setName(name: String!): User
	deleteUser(id: ID!): DeleteUserPayload
	addFriend(userID: ID!): FriendsEdge
}

interface Node {
	id: ID!
}

interface Actor {
	name: String
}

type User implements Node & Actor {
	id: ID!
	name: String
	avatar(size: Int): String
	bestFriend: User
	address: Address
	friends(first: Int, after: String, orderBy: String): FriendsConnection
	greeting: String @relay_resolver(fragment_name: "UserGreetingResolver")
}

type Page implements Node {
	id: ID!
	title: String
}

type Bot implements Actor {
	name: String
	version: Int
}

type Address {
	city: String
	street: String
}

union SearchResult = User | Page

type FriendsConnection {
	edges: [FriendsEdge]
	pageInfo: PageInfo
}

type FriendsEdge {
	cursor: String
	node: User
}

type PageInfo {
	endCursor: String
	hasNextPage: Boolean
	hasPreviousPage: Boolean
	startCursor: String
}

type DeleteUserPayload {
	deletedID: ID
	deletedIDs: [ID]
	name: String
}

directive @relay_resolver(fragment_name: String, field_name: String) on FIELD_DEFINITION
`

const Extensions = `
extend type User {
	isSelected: Boolean
	note: Note
}

type Note {
	text: String
}
`

// Schema loads SDL with Extensions.
func Schema() *schema.GQLSchema {
	return unsafebuilder.SchemaWithExtensions(SDL, Extensions)
}
