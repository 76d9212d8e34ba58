package mapcodec

import (
	"errors"

	"github.com/WarFrontIO/MapCodec/internal/bitio"
	"github.com/WarFrontIO/MapCodec/internal/frame"
)

// Error kinds per spec.md §7. Truncated, InvalidString and StringTooLong
// are defined in internal/bitio (the layer that actually detects them) and
// re-exported here so callers only need to import this package.
// UnknownTileType is defined in internal/frame for the same reason.
var (
	ErrUnsupportedVersion = errors.New("mapcodec: unsupported version")
	ErrInvalidInput       = errors.New("mapcodec: invalid input")
	ErrUnknownTileType    = frame.ErrUnknownTileType
	ErrStringTooLong      = bitio.ErrStringTooLong
	ErrInvalidString      = bitio.ErrInvalidString
	ErrTruncated          = bitio.ErrTruncated
)
