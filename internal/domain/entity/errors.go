package entity

import "errors"

// Failure classes. Callers wrap these with context and test them with errors.Is.
var (
	// ErrInvalidInput is a bad argument combination or malformed value
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlayerNotFound means the replay has no rows for the named player
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNoRounds means the replay has no complete round
	ErrNoRounds = errors.New("no rounds in replay")
	// ErrNoMatchingRounds means no round matched the selector
	ErrNoMatchingRounds = errors.New("no matching rounds")

	// ErrReplayParse means the replay is corrupt or uses an unsupported schema
	ErrReplayParse = errors.New("replay parse failed")

	// ErrEncode means the external encoder failed
	ErrEncode = errors.New("encode failed")
)
