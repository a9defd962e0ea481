package ranking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"85.5", 85.5, false},
		{"85,5", 85.5, false},
		{"", 0, false},
		{"   ", 0, false},
		{" 7 ", 7, false},
		{"10", 10, false},
		{"-1,25", -1.25, false},
		{"abc", 0, true},
		{"8,5,1", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseScore(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseScore(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseScore(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseScore(%q)", tt.in)
	}
}

func TestParseScoreNormalizedIsIdempotent(t *testing.T) {
	a, err := ParseScore("85.5")
	require.NoError(t, err)
	b, err := ParseScore("85,5")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseRow(t *testing.T) {
	cols := DefaultColumns()
	row := Row{Line: 2, Cells: map[string]string{
		cols.Group:      "A",
		cols.StudentID:  "1",
		cols.Name:       "Alice",
		cols.Attendance: "10",
		cols.Process:    "8,5",
		cols.Midterm:    "",
		cols.Final:      "9",
	}}

	s, err := ParseRow(row, cols)
	require.NoError(t, err)
	assert.Equal(t, Student{Group: "A", ID: "1", Name: "Alice", Attendance: 10, Process: 8.5, Midterm: 0, Final: 9}, s)
}

func TestParseRowMalformed(t *testing.T) {
	cols := DefaultColumns()
	tests := []struct {
		name  string
		cells map[string]string
		want  string
	}{
		{
			name:  "bad score",
			cells: map[string]string{cols.Group: "A", cols.Final: "nine"},
			want:  `MalformedRecord: row 5, column "Điểm cuối kỳ": not a number: "nine"`,
		},
		{
			name:  "blank group",
			cells: map[string]string{cols.Group: "  ", cols.Final: "9"},
			want:  `MalformedRecord: row 5: empty "Mã nhóm"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRow(Row{Line: 5, Cells: tt.cells}, cols)
			require.Error(t, err)
			assert.Equal(t, MalformedRecord, KindOf(err))
			assert.True(t, errors.Is(err, &Error{Kind: MalformedRecord}))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestCheckHeader(t *testing.T) {
	cols := DefaultColumns()
	assert.NoError(t, CheckHeader(cols.required(), cols))

	err := CheckHeader([]string{cols.Group, cols.StudentID, cols.Name}, cols)
	require.Error(t, err)
	assert.Equal(t, MalformedRecord, KindOf(err))
	assert.Contains(t, err.Error(), `"Điểm cuối kỳ"`)

	// unrelated columns may repeat, the ones we read may not
	header := append(cols.required(), "Ghi chú", "Ghi chú", " "+cols.Final)
	err = CheckHeader(header, cols)
	require.Error(t, err)
	assert.Equal(t, MalformedRecord, KindOf(err))
	assert.Contains(t, err.Error(), `duplicate column(s) "Điểm cuối kỳ"`)

	assert.NoError(t, CheckHeader(append(cols.required(), "Ghi chú", "Ghi chú"), cols))
}

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		a, p, m, f float64
		want       float64
	}{
		{10, 8.5, 7, 9, 8.55},
		{9, 7, 8, 6, 7},
		{0, 0, 0, 0, 0},
		{10, 10, 10, 10, 10},
		{3, 6.5, 5.25, 7.75, 6.4},
	}
	for _, tt := range tests {
		got := CompositeScore(tt.a, tt.p, tt.m, tt.f)
		assert.Equal(t, tt.want, got, "CompositeScore(%v, %v, %v, %v)", tt.a, tt.p, tt.m, tt.f)
		assert.Equal(t, Round2(0.1*tt.a+0.3*tt.p+0.2*tt.m+0.4*tt.f), got)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.78, Round2((8.55+7.0)/2))
	assert.Equal(t, 1.01, Round2(1.005000001))
	assert.Equal(t, -2.5, Round2(-2.499999))

	// exact halves go to the even neighbour
	assert.Equal(t, 0.12, Round2(0.125))
	assert.Equal(t, 6.62, Round2(6.625))
	assert.Equal(t, 8.12, Round2(8.125))
	assert.Equal(t, 0.38, Round2(0.375))
	assert.Equal(t, -0.12, Round2(-0.125))
}

func TestRankStudents(t *testing.T) {
	scores := func(ss []Student) []float64 {
		var out []float64
		for _, s := range ss {
			out = append(out, s.Score)
		}
		return out
	}
	ranks := func(ss []Student) []int {
		var out []int
		for _, s := range ss {
			out = append(out, s.Rank)
		}
		return out
	}

	orders := [][]float64{
		{90, 90, 80, 70},
		{70, 80, 90, 90},
		{80, 90, 70, 90},
	}
	for _, order := range orders {
		var in []Student
		for _, v := range order {
			in = append(in, Student{Score: v})
		}
		got := RankStudents(in)
		assert.Equal(t, []float64{90, 90, 80, 70}, scores(got), "input %v", order)
		assert.Equal(t, []int{1, 1, 3, 4}, ranks(got), "input %v", order)
	}
}

func TestRankStudentsStable(t *testing.T) {
	in := []Student{
		{ID: "a", Score: 5},
		{ID: "b", Score: 9},
		{ID: "c", Score: 5},
		{ID: "d", Score: 9},
		{ID: "e", Score: 5},
	}
	got := RankStudents(in)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids)
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")
}

func TestAggregateGroups(t *testing.T) {
	in := []Student{
		{Group: "B", Name: "Carol", Score: 6},
		{Group: "A", Name: "Alice", Score: 8.55},
		{Group: "B", Name: "Dave", Score: 7.25},
		{Group: "A", Name: "Bob", Score: 7},
		{Group: "C", Name: "Eve", Score: 3.33},
		{Group: "D", Name: "Frank", Score: 8.12},
		{Group: "D", Name: "Grace", Score: 8.13},
	}
	got := AggregateGroups(in)
	require.Len(t, got, 4)

	assert.Equal(t, Group{ID: "B", Mean: 6.62, Members: []string{"Carol", "Dave"}}, got[0])
	assert.Equal(t, Group{ID: "A", Mean: 7.78, Members: []string{"Alice", "Bob"}}, got[1])
	assert.Equal(t, Group{ID: "C", Mean: 3.33, Members: []string{"Eve"}}, got[2])
	assert.Equal(t, Group{ID: "D", Mean: 8.12, Members: []string{"Frank", "Grace"}}, got[3])
	assert.Equal(t, 1, got[2].Count())
}

func TestRankGroups(t *testing.T) {
	in := []Group{
		{ID: "A", Mean: 7},
		{ID: "B", Mean: 9},
		{ID: "C", Mean: 7},
		{ID: "D", Mean: 5},
	}
	got := RankGroups(in)

	var ids []string
	var ranks []int
	for _, g := range got {
		ids = append(ids, g.ID)
		ranks = append(ranks, g.Rank)
	}
	assert.Equal(t, []string{"B", "A", "C", "D"}, ids)
	assert.Equal(t, []int{1, 2, 2, 4}, ranks)
}

func TestNewInput(t *testing.T) {
	in := NewInput([][]string{
		{"Mã nhóm ", "MSSV", "Họ tên"},
		{"A", "1", "Alice"},
		{"", "", ""},
		{"B", "2"},
	})

	assert.Equal(t, []string{"Mã nhóm", "MSSV", "Họ tên"}, in.Header)
	require.Len(t, in.Rows, 2)
	assert.Equal(t, 2, in.Rows[0].Line)
	assert.Equal(t, 4, in.Rows[1].Line)
	assert.Equal(t, "", in.Rows[1].Cells["Họ tên"])
	assert.Equal(t, "B", in.Rows[1].Cells["Mã nhóm"])

	assert.Empty(t, NewInput(nil).Rows)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "8.55", FormatScore(8.55))
	assert.Equal(t, "7", FormatScore(7.0))
	assert.Equal(t, "7.78", FormatScore(7.78))
	assert.Equal(t, "0", FormatScore(0))
}
