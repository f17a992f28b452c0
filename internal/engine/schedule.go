package engine

// Order returns the nodes of def in dependency order using Kahn's algorithm.
// Ready nodes are emitted first-in first-out, seeded in definition order, so
// ties resolve to the order nodes were declared. A graph with a cycle fails
// with ErrCycleDetected.
func Order(def Definition) ([]Node, error) {
	index := make(map[string]int, len(def.Nodes))
	for i, n := range def.Nodes {
		if _, dup := index[n.ID]; dup {
			return nil, invalid(ErrDuplicateNode, n.ID, "Duplicate workflow node id '%s'", n.ID)
		}
		index[n.ID] = i
	}

	indegree := make([]int, len(def.Nodes))
	outgoing := make([][]int, len(def.Nodes))
	for _, e := range def.Edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo {
			return nil, invalid(ErrInvalidEdge, "", "Workflow edge references unknown node '%s' -> '%s'", e.From, e.To)
		}
		outgoing[from] = append(outgoing[from], to)
		indegree[to]++
	}

	queue := make([]int, 0, len(def.Nodes))
	for i := range def.Nodes {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	ordered := make([]Node, 0, len(def.Nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, def.Nodes[i])

		for _, child := range outgoing[i] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(ordered) != len(def.Nodes) {
		return nil, invalid(ErrCycleDetected, "", "Workflow contains a dependency cycle")
	}
	return ordered, nil
}
