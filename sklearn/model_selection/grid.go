package model_selection

import "sort"

// ParamGrid maps hyperparameter names to the candidate values to try.
// For example, a grid for KNeighborsClassifier:
//
//	model_selection.ParamGrid{
//	    "n_neighbors": {1, 3, 5},
//	    "metric":      {"euclidean", "manhattan"},
//	}
type ParamGrid map[string][]interface{}

// Copy returns a deep copy of the grid. The value slices are copied so that
// mutating either grid never affects the other.
func (g ParamGrid) Copy() ParamGrid {
	out := make(ParamGrid, len(g))
	for name, values := range g {
		out[name] = append([]interface{}(nil), values...)
	}
	return out
}

// NumCombinations returns the size of the Cartesian product of the grid.
// An empty grid has exactly one (empty) combination.
func (g ParamGrid) NumCombinations() int {
	total := 1
	for _, values := range g {
		total *= len(values)
	}
	return total
}

// Names returns the parameter names in sorted order.
func (g ParamGrid) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Combinations enumerates every parameter setting of the grid. Names are
// visited in sorted order and the last name varies fastest, so the order is
// stable across runs.
func (g ParamGrid) Combinations() []map[string]interface{} {
	names := g.Names()
	results := make([]map[string]interface{}, 0, g.NumCombinations())

	var dfs func(deep int, params map[string]interface{})
	dfs = func(deep int, params map[string]interface{}) {
		if deep == len(names) {
			combo := make(map[string]interface{}, len(params))
			for k, v := range params {
				combo[k] = v
			}
			results = append(results, combo)
			return
		}
		name := names[deep]
		for _, val := range g[name] {
			params[name] = val
			dfs(deep+1, params)
		}
		delete(params, name)
	}
	dfs(0, make(map[string]interface{}, len(names)))
	return results
}
