package patterncore

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// PatternID is an opaque 128-bit identity, represented as two 64-bit words
// so it is cheap to hash, compare, and serialize without allocating. Words
// are generated from a uuid.UUID (crypto/rand backed, collision-free within
// a process) and never interpreted as a UUID again past construction.
type PatternID struct {
	Hi uint64
	Lo uint64
}

// NewPatternID generates a fresh, globally unique PatternID. Generation
// goes through uuid.NewRandom, which draws from a process-wide CSPRNG and
// requires no caller-held lock.
func NewPatternID() PatternID {
	u := uuid.New()
	return PatternID{
		Hi: binary.BigEndian.Uint64(u[0:8]),
		Lo: binary.BigEndian.Uint64(u[8:16]),
	}
}

// Zero is the nil pattern id, used as a sentinel for "no id" return values.
var Zero = PatternID{}

// IsZero reports whether this is the zero-value id.
func (id PatternID) IsZero() bool {
	return id.Hi == 0 && id.Lo == 0
}

// Less gives PatternID a total order, word-major.
func (id PatternID) Less(other PatternID) bool {
	if id.Hi != other.Hi {
		return id.Hi < other.Hi
	}
	return id.Lo < other.Lo
}

// String renders the canonical hex form: 16 hex chars per word, 32 total.
// This is also the on-disk filename stem used by the WARM/COLD/ARCHIVE
// tiers, so it must never contain characters that are unsafe in a
// filename (hex digits only).
func (id PatternID) String() string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], id.Hi)
	binary.BigEndian.PutUint64(buf[8:16], id.Lo)
	return hex.EncodeToString(buf[:])
}

// ParsePatternID reconstructs a PatternID from its canonical hex string, as
// produced by String. It is used by WARM/COLD/ARCHIVE tiers to rebuild
// their on-disk index after a restart, since the filename is the only
// surviving record of a pattern's id.
func ParsePatternID(s string) (PatternID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 16 {
		return PatternID{}, fmt.Errorf("patterncore: malformed pattern id %q: %w", s, ErrCorruption)
	}
	return PatternID{
		Hi: binary.BigEndian.Uint64(raw[0:8]),
		Lo: binary.BigEndian.Uint64(raw[8:16]),
	}, nil
}

// Serialize writes the id as two little-endian u64 words, per the wire
// format in SPEC_FULL §6.
func (id PatternID) Serialize(w io.Writer) error {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], id.Hi)
	binary.LittleEndian.PutUint64(buf[8:16], id.Lo)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("patterncore: write pattern id: %w", ErrIoError)
	}
	return nil
}

// DeserializePatternID reads an id written by Serialize.
func DeserializePatternID(r io.Reader) (PatternID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return PatternID{}, fmt.Errorf("patterncore: read pattern id: %w", ErrIoError)
	}
	return PatternID{
		Hi: binary.LittleEndian.Uint64(buf[0:8]),
		Lo: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// PairHash combines two PatternIDs into a single order-sensitive scalar, for
// callers that want a single-value hash of (source, target) instead of a
// struct key; the AssociationMatrix and the disk tiers key pairs without
// it. Adapted from
// the lineage-signature combining step in the teacher's structural memory
// (hash folding via multiply-xor), generalized from a single id to a pair.
func PairHash(a, b PatternID) uint64 {
	h := a.Hi
	h = h*1099511628211 ^ a.Lo
	h = h*1099511628211 ^ b.Hi
	h = h*1099511628211 ^ b.Lo
	return h
}
