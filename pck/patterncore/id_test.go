package patterncore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternID_StringRoundTrip(t *testing.T) {
	id := NewPatternID()
	s := id.String()
	require.Len(t, s, 32)

	parsed, err := ParsePatternID(s)
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestPatternID_Unique(t *testing.T) {
	a := NewPatternID()
	b := NewPatternID()
	require.NotEqual(t, a, b)
}

func TestPatternID_SerializeRoundTrip(t *testing.T) {
	id := NewPatternID()
	var buf bytes.Buffer
	require.NoError(t, id.Serialize(&buf))

	got, err := DeserializePatternID(&buf)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestPatternID_Less(t *testing.T) {
	a := PatternID{Hi: 1, Lo: 5}
	b := PatternID{Hi: 1, Lo: 9}
	c := PatternID{Hi: 2, Lo: 0}

	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, b.Less(c))
}

func TestParsePatternID_Malformed(t *testing.T) {
	_, err := ParsePatternID("not-hex")
	require.Error(t, err)

	_, err = ParsePatternID("abcd")
	require.Error(t, err)
}

func TestPairHash_OrderSensitive(t *testing.T) {
	a := NewPatternID()
	b := NewPatternID()
	require.NotEqual(t, PairHash(a, b), PairHash(b, a))
	require.Equal(t, PairHash(a, b), PairHash(a, b))
}
