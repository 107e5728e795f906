package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Fingerprinter computes the fixed-length fingerprint that commits a record
// to its own fields and to its predecessor. Implementations must be pure:
// identical input always yields identical output, and every byte of every
// field contributes to the result.
type Fingerprinter interface {
	Fingerprint(index int, prevFingerprint string, createdAt time.Time, p Payload) string
}

// canonicalInput is the byte sequence a fingerprint commits to. Pipe
// separators keep field boundaries unambiguous, and timestamps are rendered
// as UTC RFC3339Nano so the same instant always encodes identically.
func canonicalInput(index int, prev string, createdAt time.Time, p Payload) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s",
		index, prev, createdAt.UTC().Format(time.RFC3339Nano),
		p.SubjectID, p.Status, p.Date)
}

// Fold64 is the default fingerprinter: two independent 64-bit FNV passes
// over the canonical input, concatenated as 32 hex characters. It is fast
// and sensitive to every input byte, but it is a checksum, not a
// cryptographic digest. Deployments that want collision resistance should
// select SHA256 instead.
type Fold64 struct{}

// Fingerprint implements Fingerprinter.
func (Fold64) Fingerprint(index int, prev string, createdAt time.Time, p Payload) string {
	in := []byte(canonicalInput(index, prev, createdAt, p))
	a := fnv.New64a()
	b := fnv.New64()
	a.Write(in)
	b.Write(in)
	return fmt.Sprintf("%016x%016x", a.Sum64(), b.Sum64())
}

// SHA256 fingerprints records with crypto/sha256 over the same canonical
// input, producing 64 hex characters.
type SHA256 struct{}

// Fingerprint implements Fingerprinter.
func (SHA256) Fingerprint(index int, prev string, createdAt time.Time, p Payload) string {
	sum := sha256.Sum256([]byte(canonicalInput(index, prev, createdAt, p)))
	return hex.EncodeToString(sum[:])
}

// NewFingerprinter returns the implementation selected by configuration.
// The empty string selects the default.
func NewFingerprinter(algorithm string) (Fingerprinter, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", "fold64":
		return Fold64{}, nil
	case "sha256":
		return SHA256{}, nil
	}
	return nil, fmt.Errorf("unknown fingerprint algorithm %q", algorithm)
}

var (
	_ Fingerprinter = Fold64{}
	_ Fingerprinter = SHA256{}
)
