package ledger_test

import (
	"testing"
	"time"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
)

var fpAt = time.Date(2024, time.January, 15, 9, 30, 0, 123456789, time.UTC)

func basePayload() ledger.Payload {
	return ledger.Payload{SubjectID: "S001", Status: ledger.StatusPresent, Date: "2024-01-15"}
}

func TestFold64_deterministic(t *testing.T) {
	fp := ledger.Fold64{}
	a := fp.Fingerprint(3, "abc", fpAt, basePayload())
	b := fp.Fingerprint(3, "abc", fpAt, basePayload())
	if a != b {
		t.Errorf("same input produced %q and %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length: got %d, want 32", len(a))
	}
}

func TestFold64_everyFieldChangesFingerprint(t *testing.T) {
	fp := ledger.Fold64{}
	base := fp.Fingerprint(3, "abc", fpAt, basePayload())

	cases := []struct {
		name string
		got  string
	}{
		{"index", fp.Fingerprint(4, "abc", fpAt, basePayload())},
		{"previous fingerprint", fp.Fingerprint(3, "abd", fpAt, basePayload())},
		{"created at", fp.Fingerprint(3, "abc", fpAt.Add(time.Nanosecond), basePayload())},
		{"subject", fp.Fingerprint(3, "abc", fpAt, ledger.Payload{SubjectID: "S002", Status: ledger.StatusPresent, Date: "2024-01-15"})},
		{"status", fp.Fingerprint(3, "abc", fpAt, ledger.Payload{SubjectID: "S001", Status: ledger.StatusAbsent, Date: "2024-01-15"})},
		{"date", fp.Fingerprint(3, "abc", fpAt, ledger.Payload{SubjectID: "S001", Status: ledger.StatusPresent, Date: "2024-01-16"})},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if tc.got == base {
				t.Errorf("changing %s did not change the fingerprint", tc.name)
			}
			if len(tc.got) != 32 {
				t.Errorf("fingerprint length: got %d, want 32", len(tc.got))
			}
		})
	}
}

func TestSHA256_shape(t *testing.T) {
	fp := ledger.SHA256{}
	a := fp.Fingerprint(1, "0", fpAt, basePayload())
	b := fp.Fingerprint(1, "0", fpAt, basePayload())
	if a != b {
		t.Errorf("same input produced %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length: got %d, want 64", len(a))
	}
	if c := fp.Fingerprint(2, "0", fpAt, basePayload()); c == a {
		t.Error("changing the index did not change the fingerprint")
	}
}

func TestNewFingerprinter_selection(t *testing.T) {
	for _, name := range []string{"", "fold64", "FOLD64", "sha256", "SHA256"} {
		if _, err := ledger.NewFingerprinter(name); err != nil {
			t.Errorf("NewFingerprinter(%q) failed: %v", name, err)
		}
	}
	if _, err := ledger.NewFingerprinter("md5"); err == nil {
		t.Error("NewFingerprinter accepted an unknown algorithm")
	}
}
