// gqlc compiles the GraphQL operations and fragments of a project.
//
// Documents are bound to the schema of their project and checked, then every operation goes
// through the transform pipeline that produces the programs used for code generation: the
// reader program describing the data a fragment reads, the normalization program used to
// write responses into a store, the typegen program and the operation text sent to the
// server.
//
// Builds are incremental: after an edit only the definitions that depend on a changed
// definition are compiled again.
//
// Usage:
//
//	gqlc compile --config gqlc.yaml
//	gqlc changed --names UserAvatar
//	gqlc config --default
package main
