package transforms

import (
	"sort"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
	"github.com/wundergraph/graphql-go-compiler/pkg/irvisitor"
)

// SortSelections orders every selection list by key: fields by response key, spreads by
// fragment name, inline fragments by type condition. The sort is stable, selections with
// equal keys keep their order.
func SortSelections(program *ir.Program) (*ir.Program, error) {
	t := &sortSelectionsTransform{}
	t.Transformer = irvisitor.NewTransformer(t, irvisitor.WithVisitArguments(false), irvisitor.WithVisitDirectives(false))
	return t.TransformProgram(program), nil
}

type sortSelectionsTransform struct {
	*irvisitor.Transformer
}

func (t *sortSelectionsTransform) TransformSelections(selections []ir.Selection) irvisitor.Transformed[[]ir.Selection] {
	result := t.DefaultTransformSelections(selections)
	current := result.Or(selections)

	type sortable struct {
		selection ir.Selection
		key       string
	}
	sortables := make([]sortable, len(current))
	for i, selection := range current {
		sortables[i] = sortable{selection: selection, key: sortKey(selection)}
	}
	if sort.SliceIsSorted(sortables, func(i, j int) bool { return sortables[i].key < sortables[j].key }) {
		return result
	}
	sort.SliceStable(sortables, func(i, j int) bool {
		return sortables[i].key < sortables[j].key
	})

	sorted := make([]ir.Selection, len(sortables))
	for i, item := range sortables {
		sorted[i] = item.selection
	}
	return irvisitor.Replace(sorted)
}

func sortKey(selection ir.Selection) string {
	switch s := selection.(type) {
	case *ir.ScalarField:
		return s.AliasOrName().String()
	case *ir.LinkedField:
		return s.AliasOrName().String()
	case *ir.FragmentSpread:
		return s.Fragment.Item.String()
	case *ir.InlineFragment:
		if s.TypeCondition == nil {
			return ""
		}
		return s.TypeCondition.Name.String()
	default:
		return ""
	}
}
