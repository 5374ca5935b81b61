package loco

import "errors"

// InvalidIndex is returned in place of a set or foot index when the request
// could not be honoured.
const InvalidIndex = -1

// Contract violations. None of them are fatal; the call that reports one
// leaves the Locomotor unchanged.
var (
	// ErrInvalidFootSet indicates a foot set index that was never issued.
	ErrInvalidFootSet = errors.New("loco: invalid foot set index")

	// ErrInvalidFoot indicates a foot index outside its set.
	ErrInvalidFoot = errors.New("loco: invalid foot index")

	// ErrFootCountMismatch indicates an output slice not sized to FootCount.
	ErrFootCountMismatch = errors.New("loco: output length does not match foot count")
)
