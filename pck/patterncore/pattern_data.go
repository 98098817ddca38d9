package patterncore

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Modality tags what kind of signal a PatternData's features were derived
// from. NUMERIC/CATEGORICAL/TEXT are named directly in SPEC_FULL; IMAGE,
// AUDIO and UNKNOWN are carried so the envelope never has to reject a
// payload kind it doesn't recognize.
type Modality uint8

const (
	ModalityNumeric Modality = iota
	ModalityCategorical
	ModalityText
	ModalityImage
	ModalityAudio
	ModalityUnknown
)

func (m Modality) String() string {
	switch m {
	case ModalityNumeric:
		return "NUMERIC"
	case ModalityCategorical:
		return "CATEGORICAL"
	case ModalityText:
		return "TEXT"
	case ModalityImage:
		return "IMAGE"
	case ModalityAudio:
		return "AUDIO"
	default:
		return "UNKNOWN"
	}
}

// PatternData is the envelope a PatternNode carries: a feature vector, a
// modality tag, and an optional compressed payload (e.g. the original
// text/image bytes the features were extracted from).
type PatternData struct {
	modality Modality
	features FeatureVector
	payload  []byte
}

// NewPatternData builds a PatternData from features and an optional raw
// payload. The payload is stored as given; compression, if any, is the
// caller's concern (the ARCHIVE tier compresses the whole serialized
// PatternNode, not PatternData's payload in isolation).
func NewPatternData(modality Modality, features FeatureVector, payload []byte) PatternData {
	var cp []byte
	if len(payload) > 0 {
		cp = make([]byte, len(payload))
		copy(cp, payload)
	}
	return PatternData{modality: modality, features: features, payload: cp}
}

// GetFeatures returns the feature vector.
func (d PatternData) GetFeatures() FeatureVector {
	return d.features
}

// Modality returns the modality tag.
func (d PatternData) Modality() Modality {
	return d.modality
}

// Payload returns the raw payload bytes, if any.
func (d PatternData) Payload() []byte {
	return d.payload
}

// GetCompressedSize returns the size, in bytes, this data would occupy:
// the feature vector plus the payload. Used by PatternNode.EstimateMemoryUsage.
func (d PatternData) GetCompressedSize() int {
	return 4*d.features.Dim() + len(d.payload)
}

// IsEmpty reports whether this data carries no features at all.
func (d PatternData) IsEmpty() bool {
	return d.features.IsEmpty()
}

// Serialize writes: modality byte, FeatureVector, u32 payload length, payload bytes.
func (d PatternData) Serialize(w io.Writer) error {
	if _, err := w.Write([]byte{byte(d.modality)}); err != nil {
		return fmt.Errorf("patterncore: write modality: %w", ErrIoError)
	}
	if err := d.features.Serialize(w); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(d.payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("patterncore: write payload length: %w", ErrIoError)
	}
	if len(d.payload) > 0 {
		if _, err := w.Write(d.payload); err != nil {
			return fmt.Errorf("patterncore: write payload: %w", ErrIoError)
		}
	}
	return nil
}

// DeserializePatternData reads a PatternData written by Serialize.
func DeserializePatternData(r io.Reader) (PatternData, error) {
	var modalityByte [1]byte
	if _, err := io.ReadFull(r, modalityByte[:]); err != nil {
		return PatternData{}, fmt.Errorf("patterncore: read modality: %w", ErrIoError)
	}
	features, err := DeserializeFeatureVector(r)
	if err != nil {
		return PatternData{}, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return PatternData{}, fmt.Errorf("patterncore: read payload length: %w", ErrIoError)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	var payload []byte
	if n > 0 {
		payload = make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return PatternData{}, fmt.Errorf("patterncore: read payload: %w", ErrIoError)
		}
	}
	return PatternData{
		modality: Modality(modalityByte[0]),
		features: features,
		payload:  payload,
	}, nil
}
