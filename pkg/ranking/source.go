package ranking

import "strings"

// Input is the raw content of the source sheet.
type Input struct {
	Header []string
	Rows   []Row
}

// NewInput splits a grid of cells into header and data rows. The first row
// is the header; short rows are padded with empty cells and rows with no
// content at all are dropped. Line numbers are 1-based sheet lines.
func NewInput(values [][]string) Input {
	if len(values) == 0 {
		return Input{}
	}

	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = strings.TrimSpace(h)
	}

	in := Input{Header: header}
	for n, v := range values[1:] {
		if blank(v) {
			continue
		}
		cells := make(map[string]string, len(header))
		for i, label := range header {
			if label == "" {
				continue
			}
			if i < len(v) {
				cells[label] = v[i]
			} else {
				cells[label] = ""
			}
		}
		in.Rows = append(in.Rows, Row{Line: n + 2, Cells: cells})
	}
	return in
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
