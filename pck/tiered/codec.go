package tiered

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// entryCodec controls how a disk tier serializes patterns and associations
// to bytes. WARM and COLD use plainCodec (a direct Serialize call); ARCHIVE
// wraps the same bytes in a versioned, zstd-compressed envelope, per the
// archive compression decision in SPEC_FULL §9.
type entryCodec interface {
	encodePattern(node *patterncore.PatternNode) ([]byte, error)
	decodePattern(data []byte) (*patterncore.PatternNode, error)
	encodeEdge(edge *association.Edge) ([]byte, error)
	decodeEdge(data []byte) (*association.Edge, error)
}

type plainCodec struct{}

func (plainCodec) encodePattern(node *patterncore.PatternNode) ([]byte, error) {
	var buf bytes.Buffer
	if err := node.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (plainCodec) decodePattern(data []byte) (*patterncore.PatternNode, error) {
	return patterncore.DeserializePatternNode(bytes.NewReader(data))
}

func (plainCodec) encodeEdge(edge *association.Edge) ([]byte, error) {
	var buf bytes.Buffer
	if err := edge.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (plainCodec) decodeEdge(data []byte) (*association.Edge, error) {
	return association.DeserializeEdge(bytes.NewReader(data))
}

// archiveEnvelopeVersion is the single leading byte that precedes every
// zstd frame archiveCodec writes, so a future codec change can be
// distinguished from a corrupt file.
const archiveEnvelopeVersion byte = 1

// archiveCodec compresses the plain wire format with zstd behind a
// one-byte version envelope.
type archiveCodec struct {
	plain plainCodec
}

func (c archiveCodec) compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(archiveEnvelopeVersion)

	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("tiered: create zstd encoder: %w", patterncore.ErrIoError)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, fmt.Errorf("tiered: zstd compress: %w", patterncore.ErrIoError)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("tiered: close zstd encoder: %w", patterncore.ErrIoError)
	}
	return buf.Bytes(), nil
}

func (c archiveCodec) decompress(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("tiered: empty archive entry: %w", patterncore.ErrCorruption)
	}
	if data[0] != archiveEnvelopeVersion {
		return nil, fmt.Errorf("tiered: unsupported archive envelope version %d: %w", data[0], patterncore.ErrCorruption)
	}

	dec, err := zstd.NewReader(bytes.NewReader(data[1:]))
	if err != nil {
		return nil, fmt.Errorf("tiered: create zstd decoder: %w", patterncore.ErrCorruption)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("tiered: zstd decompress: %w", patterncore.ErrCorruption)
	}
	return raw, nil
}

func (c archiveCodec) encodePattern(node *patterncore.PatternNode) ([]byte, error) {
	raw, err := c.plain.encodePattern(node)
	if err != nil {
		return nil, err
	}
	return c.compress(raw)
}

func (c archiveCodec) decodePattern(data []byte) (*patterncore.PatternNode, error) {
	raw, err := c.decompress(data)
	if err != nil {
		return nil, err
	}
	return c.plain.decodePattern(raw)
}

func (c archiveCodec) encodeEdge(edge *association.Edge) ([]byte, error) {
	raw, err := c.plain.encodeEdge(edge)
	if err != nil {
		return nil, err
	}
	return c.compress(raw)
}

func (c archiveCodec) decodeEdge(data []byte) (*association.Edge, error) {
	raw, err := c.decompress(data)
	if err != nil {
		return nil, err
	}
	return c.plain.decodeEdge(raw)
}
