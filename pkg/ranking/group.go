package ranking

// AggregateGroups partitions students by group id. Groups come out in order
// of first appearance and list their members in input order.
func AggregateGroups(students []Student) []Group {
	index := make(map[string]int)
	var groups []Group
	var totals []float64

	for _, s := range students {
		i, ok := index[s.Group]
		if !ok {
			i = len(groups)
			index[s.Group] = i
			groups = append(groups, Group{ID: s.Group})
			totals = append(totals, 0)
		}
		groups[i].Members = append(groups[i].Members, s.Name)
		totals[i] += s.Score
	}

	for i := range groups {
		groups[i].Mean = Round2(totals[i] / float64(len(groups[i].Members)))
	}
	return groups
}
