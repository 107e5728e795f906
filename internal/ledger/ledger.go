// Package ledger implements the append-only, fingerprint-linked attendance chain.
//
// A chain always begins with a genesis record (index 0, previous fingerprint
// "0") and grows strictly by appending. Every record's fingerprint is a pure
// function of all of its fields, and every record carries its predecessor's
// fingerprint, so editing any persisted record breaks the chain at exactly
// that point. Validate recomputes the links and fingerprints; it reports the
// first violation and never repairs anything.
//
// The working chain lives in memory behind *Chain. A Store persists the whole
// ordered sequence as one document on every mutation and hands it back
// verbatim on load — fingerprints are never recomputed while loading, which
// is what makes tampering in storage detectable afterwards.
//
// Three Store implementations are provided:
//   - MemoryStore: in-process, for testing and ephemeral deployments.
//   - FileStore: one JSON document on local disk.
//   - PostgresStore: one jsonb row per ledger name, for production use.
package ledger

import "context"

// Store persists the full chain as a single document.
type Store interface {
	// Load returns the persisted sequence exactly as stored. It returns
	// ErrNotExist when nothing has ever been persisted and a *CorruptError
	// when the persisted bytes no longer parse.
	Load(ctx context.Context) ([]Record, error)

	// Save replaces the entire persisted sequence.
	Save(ctx context.Context, recs []Record) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
