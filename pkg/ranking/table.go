package ranking

import (
	"strconv"
	"strings"
)

// Table is a fully materialised output sheet. Every value is already a string.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Width is the number of columns in the table.
func (t Table) Width() int {
	return len(t.Header)
}

// Values returns header and data rows in the shape the Sheets API expects.
func (t Table) Values() [][]interface{} {
	values := make([][]interface{}, 0, len(t.Rows)+1)
	values = append(values, toRow(t.Header))
	for _, r := range t.Rows {
		values = append(values, toRow(r))
	}
	return values
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// FormatScore renders a score in its shortest decimal form, e.g. 8.55 or 7.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IndividualTable builds the per-student ranking sheet from ranked students.
func IndividualTable(name string, cols Columns, students []Student) Table {
	t := Table{
		Name:   name,
		Header: []string{cols.Group, cols.StudentID, cols.Name, cols.Score, cols.Rank},
		Rows:   make([][]string, 0, len(students)),
	}
	for _, s := range students {
		t.Rows = append(t.Rows, []string{
			s.Group,
			s.ID,
			s.Name,
			FormatScore(s.Score),
			strconv.Itoa(s.Rank),
		})
	}
	return t
}

// GroupTable builds the per-group ranking sheet from ranked groups.
func GroupTable(name string, cols Columns, groups []Group) Table {
	t := Table{
		Name:   name,
		Header: []string{cols.Group, cols.GroupMean, cols.GroupMembers, cols.GroupCount, cols.GroupRank},
		Rows:   make([][]string, 0, len(groups)),
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			g.ID,
			FormatScore(g.Mean),
			strings.Join(g.Members, ", "),
			strconv.Itoa(g.Count()),
			strconv.Itoa(g.Rank),
		})
	}
	return t
}
