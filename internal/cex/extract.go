package cex

// Extract walks every model in order and emits one item per non-initial
// state, carrying that state's variable set expanded to depth. Depth 0
// includes only the top-level declared variables; each increment unfolds
// one more level of nested fields of already-included values, then
// truncates. Items preserve model order, then within-model state order, so
// counterexamples from different verification units never interleave.
//
// A model with no non-initial states contributes zero items; that is not
// an error. Extraction is a pure function so synthetic models exercise it
// without a solver.
func Extract(models []*Model, depth int) []Item {
	if depth < 0 {
		depth = 0
	}
	var items []Item
	for _, model := range models {
		if model == nil || len(model.States) < 2 {
			continue
		}
		for _, state := range model.States[1:] {
			item := newItem(state.Pos)
			for _, v := range state.Vars {
				expand(item, v, "", depth)
			}
			items = append(items, *item)
		}
	}
	return items
}

// expand records one variable and, while budget remains, its children.
// The key is "<shortName>:<declared type>"; children chain their path onto
// the parent's short name.
func expand(item *Item, v *Variable, path string, budget int) {
	if v == nil {
		return
	}
	name := v.Name
	if path != "" {
		name = path + "." + v.Name
	}
	item.put(name+":"+v.Type, v.Value)
	if budget == 0 {
		return
	}
	for _, child := range v.Children {
		expand(item, child, name, budget-1)
	}
}
