package micube

import "errors"

// Sentinel errors for the micube package.
var (
	// Decoding errors
	ErrMalformedFrame     = errors.New("micube: malformed frame")
	ErrInvalidOrientation = errors.New("micube: invalid orientation")
	ErrInvalidPieces      = errors.New("micube: invalid piece placement")
	ErrUnencodable        = errors.New("micube: state cannot be encoded")

	// Parsing errors
	ErrInvalidNotation = errors.New("micube: invalid move notation")

	// Connection errors
	ErrNotConnected     = errors.New("micube: not connected to device")
	ErrDeviceNotFound   = errors.New("micube: device not found")
	ErrConnectionFailed = errors.New("micube: connection failed")
)
