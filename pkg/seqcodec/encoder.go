package seqcodec

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/rawvec"
	"github.com/rawbytedev/rawvec/internal/common"
)

// Encode serializes the live elements of v into a snapshot frame.
func Encode[T Number](v *rawvec.Vector[T], flags byte) ([]byte, error) {
	if flags&^knownFlags != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownFlags, flags)
	}
	kind := reflect.TypeFor[T]().Kind()

	payload, err := binary.Append(nil, binary.LittleEndian, v.Slice())
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	if flags&FlagZstd != 0 {
		if payload, err = compress(payload); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, headerSize+20+len(payload)+checksumSize)
	out = append(out, Magic0, Magic1, Version, flags, byte(kind))
	out = common.WriteVarUintTo(out, uint64(v.Size()))
	out = common.WriteVarUintTo(out, uint64(len(payload)))
	out = append(out, payload...)
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(out))
	return out, nil
}

func compress(raw []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}
