package ledger

import "math"

// Eligibility is the three-state outcome of the attendance requirement. A
// chain with no attendance days reports EligibilityNA: "no data" is a
// different answer than "not eligible".
type Eligibility string

const (
	Eligible      Eligibility = "eligible"
	NotEligible   Eligibility = "not_eligible"
	EligibilityNA Eligibility = "n/a"
)

// EligibilityThreshold is the minimum attendance percentage, inclusive.
const EligibilityThreshold = 85.0

// Summary aggregates a chain's attendance records. Genesis does not count
// towards any total.
type Summary struct {
	TotalDays            int         `json:"total_days"`
	PresentDays          int         `json:"present_days"`
	AbsentDays           int         `json:"absent_days"`
	AttendancePercentage float64     `json:"attendance_percentage"`
	Eligibility          Eligibility `json:"eligibility"`
}

// Summarize computes the attendance summary over a full chain. The
// percentage is rounded to two decimals and the eligibility decision uses
// the rounded value, so a displayed 85.00 is always eligible.
func Summarize(recs []Record) Summary {
	s := Summary{Eligibility: EligibilityNA}
	for i, r := range recs {
		if i == 0 {
			continue
		}
		s.TotalDays++
		if r.Payload.Status == StatusPresent {
			s.PresentDays++
		}
	}
	s.AbsentDays = s.TotalDays - s.PresentDays
	if s.TotalDays == 0 {
		return s
	}

	pct := float64(s.PresentDays) / float64(s.TotalDays) * 100
	s.AttendancePercentage = math.Round(pct*100) / 100
	if s.AttendancePercentage >= EligibilityThreshold {
		s.Eligibility = Eligible
	} else {
		s.Eligibility = NotEligible
	}
	return s
}
