package ranking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseScore turns a sheet cell into a number. A comma is accepted as the
// decimal separator and an empty cell counts as zero.
func ParseScore(raw string) (float64, error) {
	v := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return f, nil
}

// ParseRow validates one input row and builds the typed record.
func ParseRow(row Row, cols Columns) (Student, error) {
	s := Student{
		Group: strings.TrimSpace(row.Cells[cols.Group]),
		ID:    strings.TrimSpace(row.Cells[cols.StudentID]),
		Name:  strings.TrimSpace(row.Cells[cols.Name]),
	}
	if s.Group == "" {
		return Student{}, NewError(MalformedRecord, nil, "row %d: empty %q", row.Line, cols.Group)
	}

	scores := []struct {
		label string
		dst   *float64
	}{
		{cols.Attendance, &s.Attendance},
		{cols.Process, &s.Process},
		{cols.Midterm, &s.Midterm},
		{cols.Final, &s.Final},
	}
	for _, sc := range scores {
		v, err := ParseScore(row.Cells[sc.label])
		if err != nil {
			return Student{}, NewError(MalformedRecord, err, "row %d, column %q", row.Line, sc.label)
		}
		*sc.dst = v
	}

	return s, nil
}

// ParseRows parses every row, stopping at the first malformed one.
func ParseRows(rows []Row, cols Columns) ([]Student, error) {
	students := make([]Student, 0, len(rows))
	for _, row := range rows {
		s, err := ParseRow(row, cols)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
}

// CheckHeader reports required input labels that are missing from header
// or appear in it more than once.
func CheckHeader(header []string, cols Columns) error {
	present := make(map[string]int, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)]++
	}
	var missing, repeated []string
	for _, label := range cols.required() {
		switch n := present[label]; {
		case n == 0:
			missing = append(missing, label)
		case n > 1:
			repeated = append(repeated, label)
		}
	}
	if len(missing) > 0 {
		return NewError(MalformedRecord, nil, "missing column(s) %s", strings.Join(quote(missing), ", "))
	}
	if len(repeated) > 0 {
		return NewError(MalformedRecord, nil, "duplicate column(s) %s", strings.Join(quote(repeated), ", "))
	}
	return nil
}

func quote(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}
