// Package binutil holds the little-endian decoders shared by every binary
// dictionary reader: length-prefixed UTF-16 strings, length-prefixed u32
// arrays, and Cast, an unsafe slice cast that views a byte range as a
// typed array without copying it (the dictionary readers decode with the
// functions above and do not call Cast).
package binutil

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"unicode/utf16"
	"unsafe"
)

// ErrShortBuffer is returned whenever a decode would read past the end of
// the supplied slice.
var ErrShortBuffer = fmt.Errorf("binutil: buffer too short")

// U16 reads a little-endian uint16 at offset and returns the value plus the
// offset immediately following it.
func U16(b []byte, off int) (uint16, int, error) {
	if off+2 > len(b) {
		return 0, off, ErrShortBuffer
	}
	return binary.LittleEndian.Uint16(b[off:]), off + 2, nil
}

// U32 reads a little-endian uint32 at offset.
func U32(b []byte, off int) (uint32, int, error) {
	if off+4 > len(b) {
		return 0, off, ErrShortBuffer
	}
	return binary.LittleEndian.Uint32(b[off:]), off + 4, nil
}

// U64 reads a little-endian uint64 at offset.
func U64(b []byte, off int) (uint64, int, error) {
	if off+8 > len(b) {
		return 0, off, ErrShortBuffer
	}
	return binary.LittleEndian.Uint64(b[off:]), off + 8, nil
}

// I16 reads a little-endian int16 at offset.
func I16(b []byte, off int) (int16, int, error) {
	v, next, err := U16(b, off)
	return int16(v), next, err
}

// I32 reads a little-endian int32 at offset.
func I32(b []byte, off int) (int32, int, error) {
	v, next, err := U32(b, off)
	return int32(v), next, err
}

// StringLenPrefix decodes the length prefix used by UTF-16 strings in the
// binary dictionary (spec.md §4.1): a single byte holds the length in UTF-16
// code units when it is below 128; otherwise the high bit of the first byte
// is set and the remaining 15 bits of the two-byte pair (big-endian within
// the pair: [b0|0x80, b1]) hold the length, up to 32767 code units.
func StringLenPrefix(b []byte, off int) (length int, next int, err error) {
	if off >= len(b) {
		return 0, off, ErrShortBuffer
	}
	b0 := b[off]
	if b0&0x80 == 0 {
		return int(b0), off + 1, nil
	}
	if off+2 > len(b) {
		return 0, off, ErrShortBuffer
	}
	b1 := b[off+1]
	length = int(b0&0x7F)<<8 | int(b1)
	return length, off + 2, nil
}

// UTF16String decodes a length-prefixed UTF-16LE string starting at off.
func UTF16String(b []byte, off int) (string, int, error) {
	length, next, err := StringLenPrefix(b, off)
	if err != nil {
		return "", off, err
	}
	byteLen := length * 2
	if next+byteLen > len(b) {
		return "", off, ErrShortBuffer
	}
	units := make([]uint16, length)
	for i := 0; i < length; i++ {
		units[i] = binary.LittleEndian.Uint16(b[next+i*2:])
	}
	return string(utf16.Decode(units)), next + byteLen, nil
}

// SkipUTF16String advances past a length-prefixed UTF-16LE string without
// decoding it — used by WordInfo subset decoding to skip fields the caller
// did not request.
func SkipUTF16String(b []byte, off int) (next int, err error) {
	length, next, err := StringLenPrefix(b, off)
	if err != nil {
		return off, err
	}
	byteLen := length * 2
	if next+byteLen > len(b) {
		return off, ErrShortBuffer
	}
	return next + byteLen, nil
}

// U32Array decodes a u8-count-prefixed array of little-endian u32 values
// (max count 127, per spec.md §4.1/§6).
func U32Array(b []byte, off int) ([]uint32, int, error) {
	if off >= len(b) {
		return nil, off, ErrShortBuffer
	}
	count := int(b[off])
	next := off + 1
	if next+count*4 > len(b) {
		return nil, off, ErrShortBuffer
	}
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		out[i] = binary.LittleEndian.Uint32(b[next+i*4:])
	}
	return out, next + count*4, nil
}

// SkipU32Array advances past a u8-count-prefixed u32 array without decoding.
func SkipU32Array(b []byte, off int) (next int, err error) {
	if off >= len(b) {
		return off, ErrShortBuffer
	}
	count := int(b[off])
	next = off + 1 + count*4
	if next > len(b) {
		return off, ErrShortBuffer
	}
	return next, nil
}

// Cast reinterprets a byte slice as a slice of T without copying. The
// caller must guarantee b's backing memory outlives the returned slice.
func Cast[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(b) / size
	hdr := reflect.SliceHeader{Data: uintptr(unsafe.Pointer(&b[0])), Len: n, Cap: n}
	return *(*[]T)(unsafe.Pointer(&hdr))
}
