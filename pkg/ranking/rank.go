package ranking

import "sort"

// minRanks assigns "min" ranks to scores already sorted in descending order:
// equal scores share a rank of one plus the number of strictly higher scores.
func minRanks(n int, score func(i int) float64) []int {
	ranks := make([]int, n)
	for i := 0; i < n; i++ {
		if i > 0 && score(i) == score(i-1) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// RankStudents returns the students ordered by score, highest first, with
// their rank set. Ties keep their input order.
func RankStudents(students []Student) []Student {
	out := make([]Student, len(students))
	copy(out, students)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i, r := range minRanks(len(out), func(i int) float64 { return out[i].Score }) {
		out[i].Rank = r
	}
	return out
}

// RankGroups orders groups by mean score, highest first, using the same tie
// policy as RankStudents.
func RankGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mean > out[j].Mean
	})
	for i, r := range minRanks(len(out), func(i int) float64 { return out[i].Mean }) {
		out[i].Rank = r
	}
	return out
}
