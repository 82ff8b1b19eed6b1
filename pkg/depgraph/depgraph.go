// Package depgraph computes which definitions must be recompiled after a change.
//
// The graph records who references whom: explicit fragment spreads and implicit
// dependencies of fields backed by a resolver that reads a fragment. It is rebuilt from all
// definitions on every call, nothing is kept between calls.
package depgraph

import (
	"fmt"

	"github.com/phf/go-queue/queue"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
	"github.com/wundergraph/graphql-go-compiler/pkg/schema"
)

//go:generate mockgen -destination=../mocks/depgraph/mock_depgraph.go -package=mock_depgraph . ImplicitDependencies

// ImplicitDependencies resolves the fragment a field depends on without spreading it.
// schema.Schema implements it.
type ImplicitDependencies interface {
	ResolverFragment(field *schema.Field) (intern.StringKey, bool)
}

// Node is one definition name. IR is nil for a name that is referenced but not defined.
type Node struct {
	IR       ir.ExecutableDefinition
	Parents  []intern.StringKey
	Children []intern.StringKey
}

type Graph map[intern.StringKey]*Node

// BuildDependencyGraph panics when two definitions share a name.
func BuildDependencyGraph(implicit ImplicitDependencies, definitions []ir.ExecutableDefinition) Graph {
	graph := make(Graph, len(definitions))
	for _, definition := range definitions {
		name := definition.DefinitionName()
		node := graph.node(name)
		if node.IR != nil {
			panic(fmt.Sprintf("depgraph: duplicate definition %s", name))
		}
		node.IR = definition
		for _, child := range collectDependencies(implicit, definition) {
			graph.addEdge(name, child)
		}
	}
	return graph
}

func (g Graph) node(name intern.StringKey) *Node {
	node, ok := g[name]
	if !ok {
		node = &Node{}
		g[name] = node
	}
	return node
}

func (g Graph) addEdge(parent, child intern.StringKey) {
	g.node(child).Parents = append(g.node(child).Parents, parent)
	g.node(parent).Children = append(g.node(parent).Children, child)
}

// GetReachableIR returns the definitions to recompile when changed names changed: every
// root that transitively references a changed definition, unless the root is a base
// definition, together with everything those roots reference. The result is ordered by name.
//
// References from base definitions are not followed upwards: base definitions are compiled
// by their owner, so a definition only referenced by base definitions is a root itself.
//
// Changed names without a definition are ignored. A cycle between definitions or a
// reference to an undefined name reached from an included root panics, both are ruled out
// by validation before this runs.
func GetReachableIR(definitions []ir.ExecutableDefinition, baseDefinitionNames, changedNames intern.StringKeySet, implicit ImplicitDependencies) []ir.ExecutableDefinition {
	if changedNames.Len() == 0 {
		return nil
	}

	r := &reachability{
		graph:   BuildDependencyGraph(implicit, definitions),
		base:    baseDefinitionNames,
		visited: intern.StringKeySet{},
		onPath:  intern.StringKeySet{},
		result:  make(map[intern.StringKey]ir.ExecutableDefinition),
		pending: queue.New(),
	}
	for _, name := range changedNames.Sorted() {
		if _, ok := r.graph[name]; ok {
			r.addRelatedNodes(name)
		}
	}

	names := make([]intern.StringKey, 0, len(r.result))
	for name := range r.result {
		names = append(names, name)
	}
	intern.Sort(names)
	out := make([]ir.ExecutableDefinition, len(names))
	for i, name := range names {
		out[i] = r.result[name]
	}
	return out
}

type reachability struct {
	graph   Graph
	base    intern.StringKeySet
	visited intern.StringKeySet
	onPath  intern.StringKeySet
	result  map[intern.StringKey]ir.ExecutableDefinition
	pending *queue.Queue
}

// addRelatedNodes walks up from name to the roots referencing it.
func (r *reachability) addRelatedNodes(name intern.StringKey) {
	if r.onPath.Contains(name) {
		panic(fmt.Sprintf("depgraph: cycle through %s", name))
	}
	if r.visited.Contains(name) {
		return
	}
	r.visited.Add(name)

	node, ok := r.graph[name]
	if !ok {
		panic(fmt.Sprintf("depgraph: %s not found in the graph", name))
	}
	parents := r.parents(node)
	if len(parents) == 0 {
		if !r.base.Contains(name) {
			r.addDescendants(name)
		}
		return
	}

	r.onPath.Add(name)
	for _, parent := range parents {
		r.addRelatedNodes(parent)
	}
	delete(r.onPath, name)
}

// parents returns the parents of node that are not base definitions.
func (r *reachability) parents(node *Node) []intern.StringKey {
	if r.base.Len() == 0 {
		return node.Parents
	}
	out := make([]intern.StringKey, 0, len(node.Parents))
	for _, parent := range node.Parents {
		if !r.base.Contains(parent) {
			out = append(out, parent)
		}
	}
	return out
}

// addDescendants adds root and everything it references. Names already in the result are
// not expanded again.
func (r *reachability) addDescendants(root intern.StringKey) {
	r.pending.PushBack(root)
	for r.pending.Len() > 0 {
		name := r.pending.PopFront().(intern.StringKey)
		if _, ok := r.result[name]; ok {
			continue
		}
		node, ok := r.graph[name]
		if !ok || node.IR == nil {
			panic(fmt.Sprintf("depgraph: definition %s not found", name))
		}
		r.result[name] = node.IR
		for _, child := range node.Children {
			if _, ok := r.result[child]; !ok {
				r.pending.PushBack(child)
			}
		}
	}
}

// dependencyCollector gathers the names a definition depends on, in order of first use.
type dependencyCollector struct {
	*irvisitor.Walker
	implicit ImplicitDependencies
	seen     intern.StringKeySet
	names    []intern.StringKey
}

func collectDependencies(implicit ImplicitDependencies, definition ir.ExecutableDefinition) []intern.StringKey {
	c := &dependencyCollector{
		implicit: implicit,
		seen:     intern.StringKeySet{},
	}
	c.Walker = irvisitor.NewWalker(c, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	c.WalkSelections(definition.GetSelections())
	return c.names
}

func (c *dependencyCollector) add(name intern.StringKey) {
	if c.seen.Contains(name) {
		return
	}
	c.seen.Add(name)
	c.names = append(c.names, name)
}

func (c *dependencyCollector) VisitFragmentSpread(spread *ir.FragmentSpread) {
	c.add(spread.Fragment.Item)
}

func (c *dependencyCollector) VisitScalarField(field *ir.ScalarField) {
	if c.implicit == nil {
		return
	}
	if fragment, ok := c.implicit.ResolverFragment(field.Definition); ok {
		c.add(fragment)
	}
}

func (c *dependencyCollector) VisitLinkedField(field *ir.LinkedField) {
	if c.implicit != nil {
		if fragment, ok := c.implicit.ResolverFragment(field.Definition); ok {
			c.add(fragment)
		}
	}
	c.DefaultVisitLinkedField(field)
}
