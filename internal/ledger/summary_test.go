package ledger_test

import (
	"fmt"
	"testing"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
	"go.uber.org/zap"
)

// chainWith builds a valid chain holding the given number of present and
// absent days, each for a distinct subject.
func chainWith(t *testing.T, present, absent int) *ledger.Chain {
	t.Helper()
	c, _ := newChain(t)
	for i := 0; i < present; i++ {
		mustAppend(t, c, fmt.Sprintf("P%03d", i), ledger.StatusPresent, "2024-01-01")
	}
	for i := 0; i < absent; i++ {
		mustAppend(t, c, fmt.Sprintf("A%03d", i), ledger.StatusAbsent, "2024-01-01")
	}
	return c
}

func TestSummarize_boundaries(t *testing.T) {
	cases := []struct {
		present, absent int
		wantPct         float64
		wantEligibility ledger.Eligibility
	}{
		{17, 3, 85.00, ledger.Eligible},    // exactly the threshold
		{16, 4, 80.00, ledger.NotEligible}, // just below
		{20, 0, 100.00, ledger.Eligible},
		{0, 5, 0.00, ledger.NotEligible},
		{1, 2, 33.33, ledger.NotEligible}, // rounding down
		{2, 1, 66.67, ledger.NotEligible}, // rounding up
		{0, 0, 0.00, ledger.EligibilityNA},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("%dp_%da", tc.present, tc.absent), func(t *testing.T) {
			s := chainWith(t, tc.present, tc.absent).Summary()

			if s.TotalDays != tc.present+tc.absent {
				t.Errorf("TotalDays: got %d, want %d", s.TotalDays, tc.present+tc.absent)
			}
			if s.PresentDays != tc.present {
				t.Errorf("PresentDays: got %d, want %d", s.PresentDays, tc.present)
			}
			if s.AbsentDays != tc.absent {
				t.Errorf("AbsentDays: got %d, want %d", s.AbsentDays, tc.absent)
			}
			if s.AttendancePercentage != tc.wantPct {
				t.Errorf("AttendancePercentage: got %.2f, want %.2f", s.AttendancePercentage, tc.wantPct)
			}
			if s.Eligibility != tc.wantEligibility {
				t.Errorf("Eligibility: got %q, want %q", s.Eligibility, tc.wantEligibility)
			}
		})
	}
}

func TestSummarize_genesisExcluded(t *testing.T) {
	store := ledger.NewMemoryStore()
	c, err := ledger.Initialize(ctx, store, ledger.Fold64{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	s := c.Summary()
	if s.TotalDays != 0 {
		t.Errorf("genesis counted as an attendance day: TotalDays=%d", s.TotalDays)
	}
	if s.Eligibility != ledger.EligibilityNA {
		t.Errorf("empty chain eligibility: got %q, want %q", s.Eligibility, ledger.EligibilityNA)
	}
	if s.AttendancePercentage != 0 {
		t.Errorf("empty chain percentage: got %v, want 0", s.AttendancePercentage)
	}
}
