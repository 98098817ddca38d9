package patterncore

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// PatternType distinguishes a leaf pattern from one composed of other
// patterns.
type PatternType uint8

const (
	PatternAtomic PatternType = iota
	PatternComposite
	PatternMeta
)

func (t PatternType) String() string {
	switch t {
	case PatternAtomic:
		return "ATOMIC"
	case PatternComposite:
		return "COMPOSITE"
	case PatternMeta:
		return "META"
	default:
		return "UNKNOWN"
	}
}

// PatternNode is the atomic unit of storage: a feature-bearing entity with
// atomic statistics and an ordered set of sub-pattern ids.
//
// PatternNode is not copyable in spirit, even though Go has no way to
// enforce that at compile time: it embeds atomics and a mutex, so a bare
// struct copy would duplicate (and desynchronize) that state. Always share
// a *PatternNode, never a PatternNode value, once it has left its
// constructor.
type PatternNode struct {
	id               PatternID
	data             PatternData
	patternType      PatternType
	creationTime     Timestamp
	activationThresh atomic.Uint32 // float32 bits
	baseActivation   atomic.Uint32 // float32 bits
	confidence       atomic.Uint32 // float32 bits, clamped [0,1]
	lastAccessed     AtomicTimestamp
	accessCount      atomic.Uint32

	subMu    sync.Mutex
	subPats  []PatternID
}

// NewPatternNode constructs a node with default activation threshold 0.5,
// base activation 0.0, and confidence 0.5, stamped with the current time.
func NewPatternNode(id PatternID, data PatternData, patternType PatternType) *PatternNode {
	n := &PatternNode{
		id:           id,
		data:         data,
		patternType:  patternType,
		creationTime: Now(),
	}
	n.activationThresh.Store(math.Float32bits(0.5))
	n.baseActivation.Store(math.Float32bits(0.0))
	n.confidence.Store(math.Float32bits(0.5))
	n.lastAccessed.Store(n.creationTime)
	return n
}

// GetID returns the pattern's identity.
func (n *PatternNode) GetID() PatternID { return n.id }

// GetData returns the pattern's data envelope.
func (n *PatternNode) GetData() PatternData { return n.data }

// GetType returns the pattern's type.
func (n *PatternNode) GetType() PatternType { return n.patternType }

// GetCreationTime returns when the pattern was constructed.
func (n *PatternNode) GetCreationTime() Timestamp { return n.creationTime }

// GetActivationThreshold returns the current activation threshold.
func (n *PatternNode) GetActivationThreshold() float32 {
	return math.Float32frombits(n.activationThresh.Load())
}

// SetActivationThreshold updates the activation threshold.
func (n *PatternNode) SetActivationThreshold(threshold float32) {
	n.activationThresh.Store(math.Float32bits(threshold))
}

// GetBaseActivation returns the current base activation.
func (n *PatternNode) GetBaseActivation() float32 {
	return math.Float32frombits(n.baseActivation.Load())
}

// SetBaseActivation updates the base activation.
func (n *PatternNode) SetBaseActivation(activation float32) {
	n.baseActivation.Store(math.Float32bits(activation))
}

// GetConfidenceScore returns the current confidence score.
func (n *PatternNode) GetConfidenceScore() float32 {
	return math.Float32frombits(n.confidence.Load())
}

// SetConfidenceScore sets the confidence score, clamped to [0, 1].
func (n *PatternNode) SetConfidenceScore(score float32) {
	n.confidence.Store(math.Float32bits(clamp01(score)))
}

// UpdateConfidence adjusts the confidence score by delta, clamped to [0, 1].
func (n *PatternNode) UpdateConfidence(delta float32) {
	for {
		old := n.confidence.Load()
		newVal := math.Float32bits(clamp01(math.Float32frombits(old) + delta))
		if n.confidence.CompareAndSwap(old, newVal) {
			return
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetLastAccessed returns the last time RecordAccess was called.
func (n *PatternNode) GetLastAccessed() Timestamp {
	return n.lastAccessed.Load()
}

// GetAccessCount returns the number of recorded accesses.
func (n *PatternNode) GetAccessCount() uint32 {
	return n.accessCount.Load()
}

// RecordAccess stamps last_accessed with the current time and increments
// the access count by one.
func (n *PatternNode) RecordAccess() {
	n.lastAccessed.Store(Now())
	n.accessCount.Add(1)
}

// IncrementAccessCount increments the access count by the given amount
// without touching last_accessed.
func (n *PatternNode) IncrementAccessCount(count uint32) {
	n.accessCount.Add(count)
}

// GetSubPatterns returns a copy of the ordered sub-pattern id sequence.
func (n *PatternNode) GetSubPatterns() []PatternID {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	out := make([]PatternID, len(n.subPats))
	copy(out, n.subPats)
	return out
}

// AddSubPattern appends id to the sub-pattern sequence if it isn't already
// present.
func (n *PatternNode) AddSubPattern(id PatternID) {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	for _, existing := range n.subPats {
		if existing == id {
			return
		}
	}
	n.subPats = append(n.subPats, id)
}

// RemoveSubPattern removes id from the sub-pattern sequence, if present.
func (n *PatternNode) RemoveSubPattern(id PatternID) {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	for i, existing := range n.subPats {
		if existing == id {
			n.subPats = append(n.subPats[:i], n.subPats[i+1:]...)
			return
		}
	}
}

// HasSubPatterns reports whether this node has any sub-patterns.
func (n *PatternNode) HasSubPatterns() bool {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	return len(n.subPats) > 0
}

// ComputeActivation scores input against this pattern's features. If the
// pattern carries no features, or the input's dimension doesn't match,
// this degrades silently to base activation rather than propagating an
// error — activation is a best-effort scalar, not a query that can fail.
func (n *PatternNode) ComputeActivation(input FeatureVector) float32 {
	base := n.GetBaseActivation()
	if n.data.IsEmpty() {
		return base
	}
	similarity, err := n.data.GetFeatures().CosineSimilarity(input)
	if err != nil {
		return base
	}
	return (similarity + base) / 2.0
}

// IsActivated reports whether ComputeActivation(input) meets or exceeds
// the current activation threshold.
func (n *PatternNode) IsActivated(input FeatureVector) bool {
	return n.ComputeActivation(input) >= n.GetActivationThreshold()
}

// GetAge returns how long ago this node was created.
func (n *PatternNode) GetAge() time.Duration {
	return Now().Sub(n.creationTime)
}

// EstimateMemoryUsage approximates the node's footprint in bytes: the
// struct itself, its data envelope, and the sub-pattern slice's capacity.
func (n *PatternNode) EstimateMemoryUsage() int {
	n.subMu.Lock()
	subCap := cap(n.subPats)
	n.subMu.Unlock()

	return int(unsafe.Sizeof(*n)) + n.data.GetCompressedSize() + subCap*int(unsafe.Sizeof(PatternID{}))
}

// String renders a debug summary, mirroring the teacher's "Type{fields}"
// convention used across its printing helpers.
func (n *PatternNode) String() string {
	return fmt.Sprintf(
		"PatternNode{id=%s, type=%s, threshold=%.2f, base_activation=%.2f, confidence=%.2f, access_count=%d, sub_patterns=%d}",
		n.id, n.patternType, n.GetActivationThreshold(), n.GetBaseActivation(), n.GetConfidenceScore(), n.GetAccessCount(), len(n.GetSubPatterns()),
	)
}

// Serialize writes the node in the stable binary form documented in
// SPEC_FULL §6: id, data, type byte, threshold f32, base f32, creation
// i64 micros, last_accessed u64 micros, access_count u32, confidence f32,
// sub_count usize-as-u64, then that many PatternIDs.
func (n *PatternNode) Serialize(w io.Writer) error {
	if err := n.id.Serialize(w); err != nil {
		return err
	}
	if err := n.data.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(n.patternType)}); err != nil {
		return fmt.Errorf("patterncore: write pattern type: %w", ErrIoError)
	}

	var f32buf [4]byte
	binary.LittleEndian.PutUint32(f32buf[:], n.activationThresh.Load())
	if _, err := w.Write(f32buf[:]); err != nil {
		return fmt.Errorf("patterncore: write threshold: %w", ErrIoError)
	}
	binary.LittleEndian.PutUint32(f32buf[:], n.baseActivation.Load())
	if _, err := w.Write(f32buf[:]); err != nil {
		return fmt.Errorf("patterncore: write base activation: %w", ErrIoError)
	}

	var i64buf [8]byte
	binary.LittleEndian.PutUint64(i64buf[:], uint64(n.creationTime.ToMicros()))
	if _, err := w.Write(i64buf[:]); err != nil {
		return fmt.Errorf("patterncore: write creation time: %w", ErrIoError)
	}

	var u64buf [8]byte
	binary.LittleEndian.PutUint64(u64buf[:], uint64(n.GetLastAccessed().ToMicros()))
	if _, err := w.Write(u64buf[:]); err != nil {
		return fmt.Errorf("patterncore: write last accessed: %w", ErrIoError)
	}

	var u32buf [4]byte
	binary.LittleEndian.PutUint32(u32buf[:], n.accessCount.Load())
	if _, err := w.Write(u32buf[:]); err != nil {
		return fmt.Errorf("patterncore: write access count: %w", ErrIoError)
	}

	binary.LittleEndian.PutUint32(f32buf[:], n.confidence.Load())
	if _, err := w.Write(f32buf[:]); err != nil {
		return fmt.Errorf("patterncore: write confidence: %w", ErrIoError)
	}

	subs := n.GetSubPatterns()
	binary.LittleEndian.PutUint64(u64buf[:], uint64(len(subs)))
	if _, err := w.Write(u64buf[:]); err != nil {
		return fmt.Errorf("patterncore: write sub count: %w", ErrIoError)
	}
	for _, sub := range subs {
		if err := sub.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializePatternNode reconstructs a node written by Serialize, with
// identical observable state.
func DeserializePatternNode(r io.Reader) (*PatternNode, error) {
	id, err := DeserializePatternID(r)
	if err != nil {
		return nil, err
	}
	data, err := DeserializePatternData(r)
	if err != nil {
		return nil, err
	}

	var typeByte [1]byte
	if _, err := io.ReadFull(r, typeByte[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read pattern type: %w", ErrIoError)
	}

	n := &PatternNode{id: id, data: data, patternType: PatternType(typeByte[0])}

	var f32buf [4]byte
	if _, err := io.ReadFull(r, f32buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read threshold: %w", ErrIoError)
	}
	n.activationThresh.Store(binary.LittleEndian.Uint32(f32buf[:]))

	if _, err := io.ReadFull(r, f32buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read base activation: %w", ErrIoError)
	}
	n.baseActivation.Store(binary.LittleEndian.Uint32(f32buf[:]))

	var i64buf [8]byte
	if _, err := io.ReadFull(r, i64buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read creation time: %w", ErrIoError)
	}
	n.creationTime = FromMicros(int64(binary.LittleEndian.Uint64(i64buf[:])))

	var u64buf [8]byte
	if _, err := io.ReadFull(r, u64buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read last accessed: %w", ErrIoError)
	}
	n.lastAccessed.Store(FromMicros(int64(binary.LittleEndian.Uint64(u64buf[:]))))

	var u32buf [4]byte
	if _, err := io.ReadFull(r, u32buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read access count: %w", ErrIoError)
	}
	n.accessCount.Store(binary.LittleEndian.Uint32(u32buf[:]))

	if _, err := io.ReadFull(r, f32buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read confidence: %w", ErrIoError)
	}
	n.confidence.Store(binary.LittleEndian.Uint32(f32buf[:]))

	if _, err := io.ReadFull(r, u64buf[:]); err != nil {
		return nil, fmt.Errorf("patterncore: read sub count: %w", ErrIoError)
	}
	subCount := binary.LittleEndian.Uint64(u64buf[:])
	subs := make([]PatternID, 0, subCount)
	for i := uint64(0); i < subCount; i++ {
		sub, err := DeserializePatternID(r)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	n.subPats = subs

	return n, nil
}

// Clone produces a deep, independent copy of n's observable state, safe to
// hand to a caller that must not see future mutations of the original (the
// LRU cache and tier reads use this rather than sharing the same pointer
// across cache and tier residency, per the "ownership is exclusive per
// node" invariant).
func (n *PatternNode) Clone() *PatternNode {
	clone := NewPatternNode(n.id, n.data, n.patternType)
	clone.creationTime = n.creationTime
	clone.activationThresh.Store(n.activationThresh.Load())
	clone.baseActivation.Store(n.baseActivation.Load())
	clone.confidence.Store(n.confidence.Load())
	clone.lastAccessed.Store(n.GetLastAccessed())
	clone.accessCount.Store(n.accessCount.Load())
	clone.subPats = n.GetSubPatterns()
	return clone
}
