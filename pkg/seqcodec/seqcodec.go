// Package seqcodec writes numeric vectors as self-checking snapshot frames
// and reads them back.
//
// Frame layout:
//
//	'R' 'V' | version | flags | kind | varint count | varint payloadLen | payload | xxhash64
//
// The payload is the little-endian element array, zstd-compressed when
// FlagZstd is set. The trailing checksum covers every preceding byte.
package seqcodec

import "errors"

const (
	Magic0  = 'R'
	Magic1  = 'V'
	Version = 1

	FlagZstd byte = 0x01
	knownFlags    = FlagZstd

	headerSize   = 5 // magic, version, flags, kind
	checksumSize = 8
)

var (
	ErrBadMagic     = errors.New("seqcodec: bad magic")
	ErrVersion      = errors.New("seqcodec: unsupported version")
	ErrUnknownFlags = errors.New("seqcodec: unknown flags")
	ErrKindMismatch = errors.New("seqcodec: element kind mismatch")
	ErrTruncated    = errors.New("seqcodec: truncated frame")
	ErrChecksum     = errors.New("seqcodec: checksum mismatch")
	ErrOversized    = errors.New("seqcodec: payload inflates past its element count")
)

// Number lists the element types with a fixed little-endian encoding.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}
