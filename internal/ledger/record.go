package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Status is the recorded presence state for a subject on a calendar day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// ParseStatus normalises raw input to a Status. Matching is
// case-insensitive; the stored form is always lowercase.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPresent:
		return StatusPresent, nil
	case StatusAbsent:
		return StatusAbsent, nil
	}
	return "", fmt.Errorf("unknown status %q (want %q or %q)", raw, StatusPresent, StatusAbsent)
}

// Payload is the attendance fact a record commits to. Date is the canonical
// YYYY-MM-DD form; together with SubjectID it is the chain's uniqueness key.
type Payload struct {
	SubjectID string `json:"subject_id"`
	Status    Status `json:"status"`
	Date      string `json:"date"`
}

// Record is one link in the chain. PreviousFingerprint binds it to its
// predecessor and Fingerprint commits to every other field, so no persisted
// record can change without Validate noticing.
type Record struct {
	Index               int       `json:"index"`
	CreatedAt           time.Time `json:"created_at"`
	Payload             Payload   `json:"payload"`
	PreviousFingerprint string    `json:"previous_fingerprint"`
	Fingerprint         string    `json:"fingerprint"`
}

// Genesis sentinel values. Appends require a non-empty subject and date, so
// no attendance payload can ever collide with the genesis payload.
const (
	GenesisSubject         = "genesis"
	GenesisPrevFingerprint = "0"
)

func genesisPayload() Payload {
	return Payload{SubjectID: GenesisSubject}
}
