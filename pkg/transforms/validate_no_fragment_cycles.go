package transforms

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/operationreport"
)

// ValidateNoFragmentCycles reports fragments that spread themselves directly or through other
// fragments. Every strongly connected group of fragments is reported once.
func ValidateNoFragmentCycles(program *ir.Program) error {
	fragments := program.Fragments()
	ids := make(map[intern.StringKey]int64, len(fragments))
	g := simple.NewDirectedGraph()
	for i, fragment := range fragments {
		ids[fragment.Name.Item] = int64(i)
		g.AddNode(simple.Node(i))
	}

	report := &operationreport.Report{}
	// spreadLocations[from][to] is the first spread of to in from.
	spreadLocations := make(map[[2]int64]ir.Location)
	for i, fragment := range fragments {
		from := int64(i)
		for _, spread := range collectSpreads(fragment.Selections) {
			to, ok := ids[spread.Fragment.Item]
			if !ok {
				continue
			}
			if to == from {
				report.AddDiagnostic(operationreport.ErrFragmentCycle(
					[]intern.StringKey{fragment.Name.Item, fragment.Name.Item},
					[]ir.Location{spread.Fragment.Loc},
				))
				continue
			}
			spreadLocations[[2]int64{from, to}] = spread.Fragment.Loc
			g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	components := topo.TarjanSCC(g)
	cycles := make([][]int64, 0)
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		cycles = append(cycles, cyclePath(g, component))
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})

	for _, cycle := range cycles {
		names := make([]intern.StringKey, 0, len(cycle)+1)
		locations := make([]ir.Location, 0, len(cycle))
		for i, id := range cycle {
			next := cycle[(i+1)%len(cycle)]
			names = append(names, fragments[id].Name.Item)
			locations = append(locations, spreadLocations[[2]int64{id, next}])
		}
		names = append(names, fragments[cycle[0]].Name.Item)
		report.AddDiagnostic(operationreport.ErrFragmentCycle(names, locations))
	}
	return report.Err()
}

// cyclePath returns a cycle through the smallest node of a strongly connected component,
// following the smallest successor that leads back to it.
func cyclePath(g graph.Directed, component []graph.Node) []int64 {
	members := make(map[int64]bool, len(component))
	start := component[0].ID()
	for _, node := range component {
		members[node.ID()] = true
		if node.ID() < start {
			start = node.ID()
		}
	}

	visited := make(map[int64]bool, len(component))
	path := make([]int64, 0, len(component))
	var walk func(id int64) bool
	walk = func(id int64) bool {
		visited[id] = true
		path = append(path, id)
		successors := graph.NodesOf(g.From(id))
		sort.Slice(successors, func(i, j int) bool {
			return successors[i].ID() < successors[j].ID()
		})
		for _, successor := range successors {
			next := successor.ID()
			if next == start {
				return true
			}
			if members[next] && !visited[next] && walk(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	walk(start)
	return path
}
