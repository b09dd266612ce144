package runs

// Group is the set of runs sharing one algorithm label.
type Group struct {
	Algorithm string
	Runs      []Run
}

// GroupByAlgorithm groups runs by label. Groups keep the order in which their
// label was first seen and runs keep their input order.
func GroupByAlgorithm(runs []Run) []Group {
	var groups []Group
	index := map[string]int{}
	for _, run := range runs {
		i, ok := index[run.Algorithm]
		if !ok {
			i = len(groups)
			index[run.Algorithm] = i
			groups = append(groups, Group{Algorithm: run.Algorithm})
		}
		groups[i].Runs = append(groups[i].Runs, run)
	}
	return groups
}
