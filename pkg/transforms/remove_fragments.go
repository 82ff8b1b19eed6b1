package transforms

import (
	"github.com/phf/go-queue/queue"

	"github.com/wundergraph/graphql-go-compiler/pkg/intern"
	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

// RemoveBaseFragments drops the fragments named in base. Base fragments come from library
// documents, they may be spread but no artifacts are generated for them.
func RemoveBaseFragments(program *ir.Program, base intern.StringKeySet) (*ir.Program, error) {
	if len(base) == 0 {
		return program, nil
	}
	out := program.CloneWithoutDefinitions()
	removed := false
	for _, operation := range program.Operations() {
		out.InsertOperation(operation)
	}
	for _, fragment := range program.Fragments() {
		if base.Contains(fragment.Name.Item) {
			removed = true
			continue
		}
		out.InsertFragment(fragment)
	}
	if !removed {
		return program, nil
	}
	return out, nil
}

// RemoveUnusedFragments keeps the fragments spread by an operation, directly or through
// other fragments, and drops the rest.
func RemoveUnusedFragments(program *ir.Program) (*ir.Program, error) {
	used := usedFragments(program, program.Operations()...)
	if len(used) == program.FragmentCount() {
		return program, nil
	}
	out := program.CloneWithoutDefinitions()
	for _, operation := range program.Operations() {
		out.InsertOperation(operation)
	}
	for _, fragment := range program.Fragments() {
		if used.Contains(fragment.Name.Item) {
			out.InsertFragment(fragment)
		}
	}
	return out, nil
}

// UsedFragments returns the fragments operation spreads transitively, ordered by name.
// Spreads of fragments missing from program are ignored.
func UsedFragments(program *ir.Program, operation *ir.Operation) []*ir.Fragment {
	used := usedFragments(program, operation)
	out := make([]*ir.Fragment, 0, len(used))
	for _, name := range used.Sorted() {
		fragment, _ := program.Fragment(name)
		out = append(out, fragment)
	}
	return out
}

func usedFragments(program *ir.Program, operations ...*ir.Operation) intern.StringKeySet {
	used := intern.StringKeySet{}
	pending := queue.New()
	for _, operation := range operations {
		for _, spread := range collectSpreads(operation.Selections) {
			pending.PushBack(spread.Fragment.Item)
		}
	}
	for pending.Len() > 0 {
		name := pending.PopFront().(intern.StringKey)
		if used.Contains(name) {
			continue
		}
		fragment, ok := program.Fragment(name)
		if !ok {
			continue
		}
		used.Add(name)
		for _, spread := range collectSpreads(fragment.Selections) {
			pending.PushBack(spread.Fragment.Item)
		}
	}
	return used
}
