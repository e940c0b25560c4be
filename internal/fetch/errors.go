package fetch

import "errors"

// Sentinel errors for the fetch package.
var (
	// ErrWrongGame is returned when an nxm source belongs to another game.
	ErrWrongGame = errors.New("source belongs to another game")

	// ErrNoFileName is returned when no usable file name can be derived from a source.
	ErrNoFileName = errors.New("source has no file name")

	// ErrUnsupportedScheme is returned for source keys the factory cannot acquire.
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
)
