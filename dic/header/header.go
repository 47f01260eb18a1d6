// Package header parses the 272-byte header that begins every binary
// dictionary file: a version magic, a creation timestamp, and a
// NUL-padded description. The magic value identifies both the dictionary
// kind (system vs. user) and its format version, which in turn gates
// which later sections of the file are present (spec.md §3, §4.2).
package header

import (
	"fmt"
	"strings"

	"github.com/sudachigo/sudachigo/internal/binutil"
)

// Kind identifies whether a dictionary is a system or user dictionary.
type Kind int

const (
	KindUnknown Kind = iota
	KindSystem
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// Version magic values. System and user values interleave (user v1/v2
// below the system ones, user v3 above), so kind and version are found by
// matching each value exactly rather than by a range comparison.
const (
	SystemDictVersion1 uint64 = 0x7366d3f18bd111e7
	SystemDictVersion2 uint64 = 0x7366d3f18bd111e8

	UserDictVersion1 uint64 = 0x7366d3f18bd111e5
	UserDictVersion2 uint64 = 0x7366d3f18bd111e6
	UserDictVersion3 uint64 = 0x7366d3f18bd111e9
)

// Size is the fixed on-disk size of the header: 8 (version) + 8
// (creation time) + 256 (description).
const Size = 8 + 8 + 256

const descriptionSize = 256

// Header is the parsed, immutable dictionary header.
type Header struct {
	Version      uint64
	CreationTime uint64
	Description  string
	Kind         Kind
}

// ErrCannotParse is returned when the supplied slice is shorter than Size.
var ErrCannotParse = fmt.Errorf("header: slice shorter than %d bytes", Size)

// ErrInvalidVersion is returned when the version magic does not match any
// known system or user dictionary version.
var ErrInvalidVersion = fmt.Errorf("header: unknown version magic")

// Parse decodes a Header from the start of b.
func Parse(b []byte) (Header, error) {
	if len(b) < Size {
		return Header{}, ErrCannotParse
	}
	version, off, err := binutil.U64(b, 0)
	if err != nil {
		return Header{}, fmt.Errorf("header: %w", err)
	}
	createTime, off, err := binutil.U64(b, off)
	if err != nil {
		return Header{}, fmt.Errorf("header: %w", err)
	}
	descBytes := b[off : off+descriptionSize]
	desc := strings.TrimRight(string(descBytes), "\x00")

	kind, ok := kindOf(version)
	if !ok {
		return Header{}, fmt.Errorf("header: magic %#x: %w", version, ErrInvalidVersion)
	}

	return Header{
		Version:      version,
		CreationTime: createTime,
		Description:  desc,
		Kind:         kind,
	}, nil
}

func kindOf(version uint64) (Kind, bool) {
	switch version {
	case SystemDictVersion1, SystemDictVersion2:
		return KindSystem, true
	case UserDictVersion1, UserDictVersion2, UserDictVersion3:
		return KindUser, true
	default:
		return KindUnknown, false
	}
}

// HasGrammar reports whether a grammar section (POS table + connection
// matrix) follows this header. True for any system dictionary version and
// for user dictionary versions 2 and 3.
func (h Header) HasGrammar() bool {
	switch h.Version {
	case SystemDictVersion1, SystemDictVersion2, UserDictVersion2, UserDictVersion3:
		return true
	default:
		return false
	}
}

// HasSynonymGroupIds reports whether WordInfo records in this dictionary
// carry a synonym_group_ids field. True for system v2 and user v3.
func (h Header) HasSynonymGroupIds() bool {
	switch h.Version {
	case SystemDictVersion2, UserDictVersion3:
		return true
	default:
		return false
	}
}
