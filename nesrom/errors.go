package nesrom

import "errors"

// Sentinel errors a caller can branch on with errors.Is.
var (
	// ErrUnsupportedROM covers bad magic, a present trainer (not
	// implemented), or an unsupported mapper id. Arcade
	// (VS/PlayChoice) images are not rejected: they load like any
	// other ROM.
	ErrUnsupportedROM = errors.New("unsupported ROM")

	// ErrStateMismatch is returned by a StateReader when a tag or
	// size read from the stream doesn't match what the field
	// being restored expects.
	ErrStateMismatch = errors.New("save-state mismatch")
)
