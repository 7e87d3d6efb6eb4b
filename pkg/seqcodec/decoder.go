package seqcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/rawvec"
	"github.com/rawbytedev/rawvec/internal/common"
)

// Decode parses a snapshot frame into a new vector configured with opts.
// The vector's capacity equals the element count.
func Decode[T Number](data []byte, opts rawvec.Options) (*rawvec.Vector[T], error) {
	if len(data) < headerSize+checksumSize {
		return nil, ErrTruncated
	}
	if data[0] != Magic0 || data[1] != Magic1 {
		return nil, ErrBadMagic
	}
	if data[2] != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, data[2])
	}
	body := data[:len(data)-checksumSize]
	if xxhash.Sum64(body) != binary.LittleEndian.Uint64(data[len(body):]) {
		return nil, ErrChecksum
	}
	flags := data[3]
	if flags&^knownFlags != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownFlags, flags)
	}
	kind := reflect.TypeFor[T]().Kind()
	if reflect.Kind(data[4]) != kind {
		return nil, fmt.Errorf("%w: frame holds %s, want %s", ErrKindMismatch, reflect.Kind(data[4]), kind)
	}
	width := uint64(common.FixedSize(kind))

	cursor := headerSize
	count, n := common.ReadVarUint(body[cursor:])
	if n == 0 {
		return nil, ErrTruncated
	}
	cursor += n
	// Bound the count before anything is inflated or allocated.
	if count > uint64(math.MaxInt)/width || (opts.CapacityLimit > 0 && count > uint64(opts.CapacityLimit)) {
		return nil, fmt.Errorf("%w: frame holds %d elements", rawvec.ErrAllocation, count)
	}
	size := count * width
	plen, n := common.ReadVarUint(body[cursor:])
	if n == 0 {
		return nil, ErrTruncated
	}
	cursor += n
	if plen != uint64(len(body)-cursor) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrTruncated, len(body)-cursor, plen)
	}
	payload := body[cursor:]

	if flags&FlagZstd != 0 {
		var err error
		if payload, err = decompress(payload, size); err != nil {
			return nil, err
		}
	}
	if uint64(len(payload)) != size {
		return nil, fmt.Errorf("%w: %d payload bytes for %d elements", ErrTruncated, len(payload), count)
	}

	v, err := rawvec.NewSized[T](int(count), opts)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		if _, err := binary.Decode(payload, binary.LittleEndian, v.Slice()); err != nil {
			return nil, fmt.Errorf("decode elements: %w", err)
		}
	}
	return v, nil
}

// decompress inflates payload, reading at most one byte past size so a
// frame that expands further is refused without being inflated.
func decompress(payload []byte, size uint64) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(payload), zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	limit := int64(size)
	if limit < math.MaxInt64 {
		limit++
	}
	raw, err := io.ReadAll(io.LimitReader(dec, limit))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if uint64(len(raw)) > size {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOversized, size)
	}
	return raw, nil
}
