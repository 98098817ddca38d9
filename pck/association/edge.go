// Package association holds directed, weighted, decaying edges between
// patterns (AssociationEdge), their sparse adjacency index
// (AssociationMatrix), and the streaming temporal correlation estimator
// (TemporalLearner) described in SPEC_FULL §4.3, §4.8 and §4.9.
package association

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// EdgeType distinguishes why two patterns are associated.
type EdgeType uint8

const (
	EdgeTemporal EdgeType = iota
	EdgeSemantic
)

func (t EdgeType) String() string {
	switch t {
	case EdgeTemporal:
		return "TEMPORAL"
	case EdgeSemantic:
		return "SEMANTIC"
	default:
		return "UNKNOWN"
	}
}

// Edge is a directed, weighted, decaying association from Source to
// Target. Strength decays exponentially between reinforcements; the edge
// only stores the last-reinforced value and recomputes the decayed
// strength lazily on read, to avoid a write on every tick.
type Edge struct {
	source        patterncore.PatternID
	target        patterncore.PatternID
	edgeType      EdgeType
	strength      float32
	lastReinforced patterncore.Timestamp
	decayRate     float32
}

// NewEdge constructs an edge with an initial strength, reinforced now.
func NewEdge(source, target patterncore.PatternID, edgeType EdgeType, initialStrength, decayRate float32) *Edge {
	return &Edge{
		source:         source,
		target:         target,
		edgeType:       edgeType,
		strength:       clamp01(initialStrength),
		lastReinforced: patterncore.Now(),
		decayRate:      decayRate,
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

// GetSource returns the edge's source pattern id.
func (e *Edge) GetSource() patterncore.PatternID { return e.source }

// GetTarget returns the edge's target pattern id.
func (e *Edge) GetTarget() patterncore.PatternID { return e.target }

// GetType returns the edge's type.
func (e *Edge) GetType() EdgeType { return e.edgeType }

// GetLastReinforced returns the last time Reinforce was called.
func (e *Edge) GetLastReinforced() patterncore.Timestamp { return e.lastReinforced }

// GetDecayRate returns the per-second exponential decay rate.
func (e *Edge) GetDecayRate() float32 { return e.decayRate }

// GetStrength returns the edge's strength decayed forward to now:
// stored_strength * exp(-decay_rate * (now - last_reinforced)).
func (e *Edge) GetStrength(now patterncore.Timestamp) float32 {
	elapsedSeconds := now.Sub(e.lastReinforced).Seconds()
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	decayed := float64(e.strength) * math.Exp(-float64(e.decayRate)*elapsedSeconds)
	return clamp01(float32(decayed))
}

// Reinforce adds delta to the current (decayed) strength, saturating at 1,
// and stamps last_reinforced to now. Reinforcement is idempotent-additive:
// repeated reinforcement never exceeds the [0,1] range regardless of how
// many times it is called.
func (e *Edge) Reinforce(delta float32, now patterncore.Timestamp) {
	e.strength = clamp01(e.GetStrength(now) + delta)
	e.lastReinforced = now
}

// Serialize writes: source id, target id, type byte, strength f32,
// last_reinforced i64 micros, decay_rate f32 — per SPEC_FULL §6.
func (e *Edge) Serialize(w io.Writer) error {
	if err := e.source.Serialize(w); err != nil {
		return err
	}
	if err := e.target.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(e.edgeType)}); err != nil {
		return fmt.Errorf("association: write edge type: %w", patterncore.ErrIoError)
	}

	var f32buf [4]byte
	binary.LittleEndian.PutUint32(f32buf[:], math.Float32bits(e.strength))
	if _, err := w.Write(f32buf[:]); err != nil {
		return fmt.Errorf("association: write strength: %w", patterncore.ErrIoError)
	}

	var i64buf [8]byte
	binary.LittleEndian.PutUint64(i64buf[:], uint64(e.lastReinforced.ToMicros()))
	if _, err := w.Write(i64buf[:]); err != nil {
		return fmt.Errorf("association: write last reinforced: %w", patterncore.ErrIoError)
	}

	binary.LittleEndian.PutUint32(f32buf[:], math.Float32bits(e.decayRate))
	if _, err := w.Write(f32buf[:]); err != nil {
		return fmt.Errorf("association: write decay rate: %w", patterncore.ErrIoError)
	}
	return nil
}

// DeserializeEdge reads an edge written by Serialize.
func DeserializeEdge(r io.Reader) (*Edge, error) {
	source, err := patterncore.DeserializePatternID(r)
	if err != nil {
		return nil, err
	}
	target, err := patterncore.DeserializePatternID(r)
	if err != nil {
		return nil, err
	}

	var typeByte [1]byte
	if _, err := io.ReadFull(r, typeByte[:]); err != nil {
		return nil, fmt.Errorf("association: read edge type: %w", patterncore.ErrIoError)
	}

	var f32buf [4]byte
	if _, err := io.ReadFull(r, f32buf[:]); err != nil {
		return nil, fmt.Errorf("association: read strength: %w", patterncore.ErrIoError)
	}
	strength := math.Float32frombits(binary.LittleEndian.Uint32(f32buf[:]))

	var i64buf [8]byte
	if _, err := io.ReadFull(r, i64buf[:]); err != nil {
		return nil, fmt.Errorf("association: read last reinforced: %w", patterncore.ErrIoError)
	}
	lastReinforced := patterncore.FromMicros(int64(binary.LittleEndian.Uint64(i64buf[:])))

	if _, err := io.ReadFull(r, f32buf[:]); err != nil {
		return nil, fmt.Errorf("association: read decay rate: %w", patterncore.ErrIoError)
	}
	decayRate := math.Float32frombits(binary.LittleEndian.Uint32(f32buf[:]))

	return &Edge{
		source:         source,
		target:         target,
		edgeType:       EdgeType(typeByte[0]),
		strength:       strength,
		lastReinforced: lastReinforced,
		decayRate:      decayRate,
	}, nil
}
