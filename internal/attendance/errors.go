package attendance

import "errors"

// ErrValidation is returned by service methods when the caller supplies
// invalid input. Handlers should convert this to HTTP 400 rather than 500.
type ErrValidation struct{ Msg string }

func (e *ErrValidation) Error() string { return e.Msg }

// ErrResetNotConfirmed is returned by Reset when the caller did not supply
// an explicit confirmation. Nothing is discarded until one arrives.
var ErrResetNotConfirmed = errors.New("attendance: reset requires explicit confirmation")
