package ledger

import (
	"errors"
	"fmt"
)

// ErrNotExist reports that a store has no persisted chain yet.
var ErrNotExist = errors.New("ledger: no persisted chain")

// CorruptError reports persisted bytes that no longer parse as a chain.
// Initialize replaces a corrupt chain with a fresh genesis chain; the file
// store quarantines the damaged bytes first.
type CorruptError struct {
	Source string // file path or database key
	Err    error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("ledger: corrupt chain in %s: %v", e.Source, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// DuplicateEntryError rejects a second attendance entry for the same subject
// and calendar date. Existing is the record already on the chain; the append
// that triggered the error changed nothing.
type DuplicateEntryError struct {
	Existing Record
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("ledger: duplicate entry for subject %s on %s (already recorded at index %d)",
		e.Existing.Payload.SubjectID, e.Existing.Payload.Date, e.Existing.Index)
}

// IntegrityError locates the first record that fails validation.
type IntegrityError struct {
	Index  int
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger: integrity violation at index %d: %s", e.Index, e.Reason)
}
