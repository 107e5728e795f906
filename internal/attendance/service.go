// Package attendance contains the business logic between the transport
// layers and the ledger: input validation, canonicalisation, and the
// confirmation gate in front of reset. Handlers and CLI commands talk to
// *Service; only *Service talks to the chain.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/ledger"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/pkg/civildate"
)

// Service contains business logic for recording and auditing attendance.
type Service struct {
	chain  *ledger.Chain
	logger *zap.Logger
}

// NewService creates a Service on top of an initialized chain.
func NewService(chain *ledger.Chain, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{chain: chain, logger: logger}
}

// Record validates the raw input, canonicalises it, and appends one
// attendance record. Invalid input is rejected with *ErrValidation before
// the chain is touched; a second entry for the same subject and day is
// rejected with *ledger.DuplicateEntryError and changes nothing.
func (s *Service) Record(ctx context.Context, subjectID, status, date string) (ledger.Record, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return ledger.Record{}, &ErrValidation{Msg: "subject_id is required"}
	}

	st, err := ledger.ParseStatus(status)
	if err != nil {
		return ledger.Record{}, &ErrValidation{Msg: err.Error()}
	}

	day, err := civildate.Parse(strings.TrimSpace(date))
	if err != nil {
		return ledger.Record{}, &ErrValidation{Msg: err.Error()}
	}

	rec, err := s.chain.Append(ctx, ledger.Payload{
		SubjectID: subjectID,
		Status:    st,
		Date:      day.String(),
	})
	if err != nil {
		var dup *ledger.DuplicateEntryError
		if errors.As(err, &dup) {
			s.logger.Info("duplicate attendance entry rejected",
				zap.String("subject_id", subjectID),
				zap.String("date", day.String()),
				zap.Int("existing_index", dup.Existing.Index),
			)
			return ledger.Record{}, err
		}
		s.logger.Error("append attendance record", zap.Error(err))
		return ledger.Record{}, fmt.Errorf("append attendance record: %w", err)
	}

	s.logger.Info("attendance recorded",
		zap.Int("index", rec.Index),
		zap.String("subject_id", subjectID),
		zap.String("status", string(st)),
		zap.String("date", day.String()),
	)
	return rec, nil
}

// Chain returns a read-only snapshot of every record, genesis included.
func (s *Service) Chain() []ledger.Record {
	return s.chain.Records()
}

// Get returns the record at the given index.
func (s *Service) Get(index int) (ledger.Record, bool) {
	return s.chain.Get(index)
}

// Find reports whether subjectID already has an entry on date.
func (s *Service) Find(subjectID, date string) (ledger.Record, bool) {
	return s.chain.FindEntry(subjectID, date)
}

// Summary aggregates the current chain into attendance statistics.
func (s *Service) Summary() ledger.Summary {
	return s.chain.Summary()
}

// Validate audits the whole chain and returns the first integrity violation,
// or nil when the chain is intact. The chain stays readable either way.
func (s *Service) Validate() *ledger.IntegrityError {
	return s.chain.Validate()
}

// Len returns the chain length, genesis included.
func (s *Service) Len() int {
	return s.chain.Len()
}

// Reset discards every attendance record and persists a fresh genesis chain.
// The caller must pass confirm=true; anything else returns
// ErrResetNotConfirmed and changes nothing.
func (s *Service) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}
	if err := s.chain.Reset(ctx); err != nil {
		s.logger.Error("reset chain", zap.Error(err))
		return err
	}
	s.logger.Warn("attendance ledger reset, prior records discarded")
	return nil
}
