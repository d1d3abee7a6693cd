package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var delta = 1e-12

func TestRMSError(t *testing.T) {

	t.Run("Exact", func(t *testing.T) {
		want := []float64{1, -2, 3.5, 0}
		have := []complex128{1, -2, 3.5, 0}
		rms, err := RMSError(want, have, len(want))
		require.NoError(t, err)
		require.Zero(t, rms)
	})

	t.Run("ImaginaryIgnored", func(t *testing.T) {
		want := []float64{1, 2}
		have := []complex128{1 + 5i, 2 - 3i}
		rms, err := RMSError(want, have, len(want))
		require.NoError(t, err)
		require.Zero(t, rms)
	})

	t.Run("Value", func(t *testing.T) {
		want := []float64{0, 0, 0, 0}
		have := []complex128{1, -1, 1, -1}
		rms, err := RMSError(want, have, len(want))
		require.NoError(t, err)
		require.InDelta(t, 1, rms, delta)

		have = []complex128{3, 0, 0, 4}
		rms, err = RMSError(want, have, len(want))
		require.NoError(t, err)
		require.InDelta(t, math.Sqrt(25.0/4), rms, delta)
	})

	t.Run("PositiveOnDifference", func(t *testing.T) {
		want := []float64{1, 2, 3}
		have := []complex128{1, 2, 3.000001}
		rms, err := RMSError(want, have, len(want))
		require.NoError(t, err)
		require.Greater(t, rms, 0.0)
	})

	t.Run("DecodedPadding", func(t *testing.T) {
		want := []float64{1, 2}
		have := []complex128{1, 2, 100, -100}
		rms, err := RMSError(want, have, len(want))
		require.NoError(t, err)
		require.Zero(t, rms)
	})

	t.Run("Prefix", func(t *testing.T) {
		want := []float64{1, 2, 7}
		have := []complex128{1, 2}
		rms, err := RMSError(want, have, 2)
		require.NoError(t, err)
		require.Zero(t, rms)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		want := []float64{1, 2, 3}

		_, err := RMSError(want, []complex128{1, 2}, len(want))
		require.ErrorIs(t, err, ErrLengthMismatch)

		_, err = RMSError(want[:1], []complex128{1, 2, 3}, 3)
		require.ErrorIs(t, err, ErrLengthMismatch)

		_, err = RMSError(want, []complex128{1, 2, 3}, 0)
		require.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestPrecisionStats(t *testing.T) {

	t.Run("Empty", func(t *testing.T) {
		require.Error(t, NewPrecisionStats().Finalize())
	})

	t.Run("Single", func(t *testing.T) {
		p := NewPrecisionStats()
		p.Update(0.25)
		require.NoError(t, p.Finalize())
		require.Equal(t, 1, p.Len())
		require.InDelta(t, 2, p.MinPrecision, delta)
		require.InDelta(t, 2, p.MeanPrecision, delta)
		require.InDelta(t, 2, p.MedianPrecision, delta)
		require.Zero(t, p.StdPrecision)
	})

	t.Run("Series", func(t *testing.T) {
		p := NewPrecisionStats()
		for _, rms := range []float64{0.5, 0.25, 0.125} {
			p.Update(rms)
		}
		require.NoError(t, p.Finalize())

		require.Equal(t, 0.5, p.MaxDelta)
		require.InDelta(t, 0.875/3, p.MeanDelta, delta)
		require.InDelta(t, 1, p.MinPrecision, delta)
		require.InDelta(t, math.Log2(3/0.875), p.MeanPrecision, delta)
		require.InDelta(t, 2, p.MedianPrecision, delta)
		require.InDelta(t, 1, p.StdPrecision, delta)

		row := p.ToCSV()
		require.Len(t, row, len(Header))
		require.Equal(t, "3", row[0])
		require.Equal(t, "1.00000", row[1])
	})

	t.Run("Floor", func(t *testing.T) {
		require.InDelta(t, math.Log2(1e16), DeltaToPrecision(0), 1e-9)
		require.Equal(t, DeltaToPrecision(1e-16), DeltaToPrecision(1e-20))
	})
}
