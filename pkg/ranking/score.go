package ranking

import "math"

// Round2 rounds v to two decimal places. Exact halves go to the even
// neighbour, so a mean of 8.125 is 8.12.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Composite is the weighted score of one student, rounded to two decimals.
func (w Weights) Composite(attendance, process, midterm, final float64) float64 {
	return Round2(w.Attendance*attendance + w.Process*process + w.Midterm*midterm + w.Final*final)
}

// CompositeScore applies the default weights.
func CompositeScore(attendance, process, midterm, final float64) float64 {
	return DefaultWeights().Composite(attendance, process, midterm, final)
}

// Score fills in the composite score of every student.
func (w Weights) Score(students []Student) {
	for i := range students {
		s := &students[i]
		s.Score = w.Composite(s.Attendance, s.Process, s.Midterm, s.Final)
	}
}
