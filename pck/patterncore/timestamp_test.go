package patterncore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestamp_MicrosRoundTrip(t *testing.T) {
	ts := Now()
	rebuilt := FromMicros(ts.ToMicros())
	require.Equal(t, ts, rebuilt)
}

func TestTimestamp_Sub(t *testing.T) {
	a := FromMicros(1000)
	b := FromMicros(1500)
	require.Equal(t, 500*time.Microsecond, b.Sub(a))
	require.Equal(t, -500*time.Microsecond, a.Sub(b))
}

func TestTimestamp_BeforeAfter(t *testing.T) {
	a := FromMicros(100)
	b := FromMicros(200)
	require.True(t, a.Before(b))
	require.True(t, b.After(a))
}

func TestAtomicTimestamp_StoreLoad(t *testing.T) {
	var at AtomicTimestamp
	ts := FromMicros(42)
	at.Store(ts)
	require.Equal(t, ts, at.Load())
}
