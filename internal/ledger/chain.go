package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Chain is the in-memory working copy of one attendance ledger. It is safe
// for concurrent use. Every mutation persists the full sequence through the
// Store before it becomes visible; a failed save leaves the chain unchanged.
type Chain struct {
	mu     sync.RWMutex
	fp     Fingerprinter
	store  Store
	logger *zap.Logger
	recs   []Record
}

// Initialize loads the persisted chain, or creates and persists a fresh
// genesis chain when the store holds nothing. Corrupt or empty persisted
// state is also replaced by a fresh genesis chain — loudly, never silently.
// Any other load failure aborts startup.
func Initialize(ctx context.Context, store Store, fp Fingerprinter, logger *zap.Logger) (*Chain, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{fp: fp, store: store, logger: logger}

	recs, err := store.Load(ctx)
	switch {
	case err == nil && len(recs) > 0:
		c.recs = recs
		return c, nil
	case err == nil:
		// Parsed fine but holds zero records; a chain is never empty.
		logger.Warn("persisted chain is empty, reinitializing with a fresh genesis")
	case errors.Is(err, ErrNotExist):
		logger.Info("no persisted chain, creating genesis")
	default:
		var corrupt *CorruptError
		if !errors.As(err, &corrupt) {
			return nil, fmt.Errorf("load chain: %w", err)
		}
		logger.Warn("persisted chain is corrupt, reinitializing with a fresh genesis",
			zap.String("source", corrupt.Source),
			zap.Error(corrupt.Err))
	}

	c.recs = []Record{newGenesis(fp, time.Now().UTC())}
	if err := store.Save(ctx, c.recs); err != nil {
		return nil, fmt.Errorf("persist genesis: %w", err)
	}
	logger.Info("genesis record created", zap.String("fingerprint", c.recs[0].Fingerprint))
	return c, nil
}

// newGenesis builds the index-0 record. Its fingerprint is computed like any
// other record's, so Validate can recompute it later.
func newGenesis(fp Fingerprinter, now time.Time) Record {
	r := Record{
		Index:               0,
		CreatedAt:           now,
		Payload:             genesisPayload(),
		PreviousFingerprint: GenesisPrevFingerprint,
	}
	r.Fingerprint = fp.Fingerprint(r.Index, r.PreviousFingerprint, r.CreatedAt, r.Payload)
	return r
}

// Append adds one attendance record at the tip. It rejects a payload whose
// subject already has an entry for the same calendar date with a
// *DuplicateEntryError, and persists the grown chain before the new record
// becomes visible.
func (c *Chain) Append(ctx context.Context, p Payload) (Record, error) {
	if p.SubjectID == "" || p.Date == "" {
		return Record{}, fmt.Errorf("ledger: payload requires a subject and a date")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := findDuplicate(c.recs, p.SubjectID, p.Date); ok {
		return Record{}, &DuplicateEntryError{Existing: existing}
	}

	tip := c.recs[len(c.recs)-1]
	rec := Record{
		Index:               tip.Index + 1,
		CreatedAt:           time.Now().UTC(),
		Payload:             p,
		PreviousFingerprint: tip.Fingerprint,
	}
	rec.Fingerprint = c.fp.Fingerprint(rec.Index, rec.PreviousFingerprint, rec.CreatedAt, rec.Payload)

	grown := make([]Record, len(c.recs)+1)
	copy(grown, c.recs)
	grown[len(grown)-1] = rec
	if err := c.store.Save(ctx, grown); err != nil {
		return Record{}, fmt.Errorf("persist chain: %w", err)
	}
	c.recs = grown
	return rec, nil
}

// Latest returns the tip record. A chain is never empty, so this always
// succeeds.
func (c *Chain) Latest() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recs[len(c.recs)-1]
}

// Records returns a copy of the full chain, genesis included.
func (c *Chain) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.recs))
	copy(out, c.recs)
	return out
}

// Get returns the record at the given zero-based index.
func (c *Chain) Get(index int) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.recs) {
		return Record{}, false
	}
	return c.recs[index], true
}

// Len returns the number of records, genesis included.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recs)
}

// Validate walks the whole chain and recomputes its invariants: genesis
// structure, dense indexes, link integrity, and every record's fingerprint.
// It returns nil on an intact chain, or an *IntegrityError locating the
// first violation. Violations are reported, never repaired.
func (c *Chain) Validate() *IntegrityError {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return validate(c.recs, c.fp)
}

func validate(recs []Record, fp Fingerprinter) *IntegrityError {
	if len(recs) == 0 {
		return &IntegrityError{Index: 0, Reason: "chain has no genesis record"}
	}
	if recs[0].Index != 0 {
		return &IntegrityError{Index: 0, Reason: fmt.Sprintf("genesis index is %d, want 0", recs[0].Index)}
	}
	if recs[0].PreviousFingerprint != GenesisPrevFingerprint {
		return &IntegrityError{Index: 0, Reason: fmt.Sprintf("genesis previous fingerprint is %q, want %q",
			recs[0].PreviousFingerprint, GenesisPrevFingerprint)}
	}
	for i, r := range recs {
		if i > 0 {
			if r.Index != recs[i-1].Index+1 {
				return &IntegrityError{Index: i, Reason: fmt.Sprintf("index %d breaks the sequence after %d",
					r.Index, recs[i-1].Index)}
			}
			if r.PreviousFingerprint != recs[i-1].Fingerprint {
				return &IntegrityError{Index: i, Reason: "link to previous record is broken"}
			}
		}
		if want := fp.Fingerprint(r.Index, r.PreviousFingerprint, r.CreatedAt, r.Payload); r.Fingerprint != want {
			return &IntegrityError{Index: i, Reason: "fingerprint does not match record contents"}
		}
	}
	return nil
}

// Reset discards every record and persists a fresh genesis chain. The
// previous records are unrecoverable once Reset returns.
func (c *Chain) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := []Record{newGenesis(c.fp, time.Now().UTC())}
	if err := c.store.Save(ctx, fresh); err != nil {
		return fmt.Errorf("persist chain: %w", err)
	}
	c.recs = fresh
	c.logger.Info("chain reset", zap.String("genesis_fingerprint", fresh[0].Fingerprint))
	return nil
}

// Summary aggregates the chain's attendance records.
func (c *Chain) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summarize(c.recs)
}
