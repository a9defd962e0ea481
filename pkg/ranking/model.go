package ranking

// Row is one line of the input sheet keyed by header label.
type Row struct {
	Line  int
	Cells map[string]string
}

// Student is a parsed input record.
type Student struct {
	Group      string
	ID         string
	Name       string
	Attendance float64
	Process    float64
	Midterm    float64
	Final      float64
	Score      float64
	Rank       int
}

type Group struct {
	ID      string
	Mean    float64
	Members []string
	Rank    int
}

// Count is the number of members in the group.
func (g Group) Count() int {
	return len(g.Members)
}

// Columns holds the header labels of the input and output sheets.
type Columns struct {
	Group      string `toml:"group" split_words:"true"`
	StudentID  string `toml:"student_id" split_words:"true"`
	Name       string `toml:"name" split_words:"true"`
	Attendance string `toml:"attendance" split_words:"true"`
	Process    string `toml:"process" split_words:"true"`
	Midterm    string `toml:"midterm" split_words:"true"`
	Final      string `toml:"final" split_words:"true"`

	Score        string `toml:"score" split_words:"true"`
	Rank         string `toml:"rank" split_words:"true"`
	GroupMean    string `toml:"group_mean" split_words:"true"`
	GroupMembers string `toml:"group_members" split_words:"true"`
	GroupCount   string `toml:"group_count" split_words:"true"`
	GroupRank    string `toml:"group_rank" split_words:"true"`
}

// DefaultColumns are the labels used by the class spreadsheet.
func DefaultColumns() Columns {
	return Columns{
		Group:      "Mã nhóm",
		StudentID:  "MSSV",
		Name:       "Họ tên",
		Attendance: "Số buổi điểm danh",
		Process:    "Điểm quá trình",
		Midterm:    "Điểm giữa kỳ",
		Final:      "Điểm cuối kỳ",

		Score:        "Điểm tổng",
		Rank:         "Hạng cá nhân",
		GroupMean:    "Điểm_trung_bình_nhóm",
		GroupMembers: "Thành_viên",
		GroupCount:   "Số_thành_viên",
		GroupRank:    "Hạng nhóm",
	}
}

// required returns the input labels every source row must carry.
func (c Columns) required() []string {
	return []string{c.Group, c.StudentID, c.Name, c.Attendance, c.Process, c.Midterm, c.Final}
}

// Weights are the coefficients of the composite score.
type Weights struct {
	Attendance float64 `toml:"attendance" split_words:"true"`
	Process    float64 `toml:"process" split_words:"true"`
	Midterm    float64 `toml:"midterm" split_words:"true"`
	Final      float64 `toml:"final" split_words:"true"`
}

func DefaultWeights() Weights {
	return Weights{
		Attendance: 0.1,
		Process:    0.3,
		Midterm:    0.2,
		Final:      0.4,
	}
}

// Sheets names the input sheet and the two output sheets.
type Sheets struct {
	Source     string `toml:"source" split_words:"true"`
	Individual string `toml:"individual" split_words:"true"`
	Group      string `toml:"group" split_words:"true"`
}

func DefaultSheets() Sheets {
	return Sheets{
		Source:     "Data",
		Individual: "Ranking_Individual",
		Group:      "Ranking_Group",
	}
}
