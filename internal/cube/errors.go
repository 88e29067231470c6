package cube

import "errors"

// Sentinel errors for cube decoding.
var (
	// ErrMalformed reports a facelet string with the wrong length, an unknown
	// letter or a letter that does not appear exactly four times.
	ErrMalformed = errors.New("cube: malformed facelet string")

	// ErrUnreachable reports stickers that no assembled cube can show.
	ErrUnreachable = errors.New("cube: unreachable cube state")
)
