package patterncore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternData_SerializeRoundTrip(t *testing.T) {
	data := NewPatternData(ModalityText, NewFeatureVector([]float32{1, 2, 3}), []byte("hello"))

	var buf bytes.Buffer
	require.NoError(t, data.Serialize(&buf))

	got, err := DeserializePatternData(&buf)
	require.NoError(t, err)
	require.Equal(t, data.Modality(), got.Modality())
	require.Equal(t, data.GetFeatures().Values(), got.GetFeatures().Values())
	require.Equal(t, data.Payload(), got.Payload())
}

func TestPatternData_IsEmpty(t *testing.T) {
	empty := NewPatternData(ModalityNumeric, NewFeatureVector(nil), nil)
	require.True(t, empty.IsEmpty())

	nonEmpty := NewPatternData(ModalityNumeric, NewFeatureVector([]float32{1}), nil)
	require.False(t, nonEmpty.IsEmpty())
}

func TestPatternData_GetCompressedSize(t *testing.T) {
	data := NewPatternData(ModalityNumeric, NewFeatureVector([]float32{1, 2}), []byte("ab"))
	require.Equal(t, 4*2+2, data.GetCompressedSize())
}

func TestModality_String(t *testing.T) {
	require.Equal(t, "NUMERIC", ModalityNumeric.String())
	require.Equal(t, "TEXT", ModalityText.String())
	require.Equal(t, "UNKNOWN", Modality(99).String())
}
