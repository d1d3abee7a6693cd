package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ErrLengthMismatch is returned when a vector is shorter than the
// number of values to compare.
var ErrLengthMismatch = errors.New("length mismatch")

var Header = []string{
	"RUNS",
	"MIN",
	"AVG",
	"MED",
	"STD",
	"RMS",
}

// RMSError returns sqrt(mean((real(decoded[i]) - original[i])^2)) over the
// first length values. Entries of decoded beyond length are ignored.
func RMSError(original []float64, decoded []complex128, length int) (rms float64, err error) {

	if length <= 0 {
		return 0, fmt.Errorf("%w: length=%d must be positive", ErrLengthMismatch, length)
	}

	if len(original) < length {
		return 0, fmt.Errorf("%w: original has %d values but %d are compared", ErrLengthMismatch, len(original), length)
	}

	if len(decoded) < length {
		return 0, fmt.Errorf("%w: decoded has %d values but %d are compared", ErrLengthMismatch, len(decoded), length)
	}

	sq := make(stats.Float64Data, length)
	for i := range sq {
		d := real(decoded[i]) - original[i]
		sq[i] = d * d
	}

	var mean float64
	if mean, err = sq.Mean(); err != nil {
		return 0, fmt.Errorf("cannot compute RMS: %w", err)
	}

	return math.Sqrt(mean), nil
}

// PrecisionStats is a struct storing statistics about the precision
// of a series of round trips.
type PrecisionStats struct {
	MaxDelta        float64
	MeanDelta       float64
	MinPrecision    float64
	MeanPrecision   float64
	MedianPrecision float64
	StdPrecision    float64

	diff stats.Float64Data
	prec stats.Float64Data
}

func NewPrecisionStats() (prec *PrecisionStats) {
	return &PrecisionStats{
		diff: stats.Float64Data{},
		prec: stats.Float64Data{},
	}
}

// Update records the RMS error of one round trip.
func (p *PrecisionStats) Update(rms float64) {
	p.diff = append(p.diff, rms)
	p.prec = append(p.prec, DeltaToPrecision(rms))
}

// Len returns the number of recorded round trips.
func (p *PrecisionStats) Len() int {
	return len(p.diff)
}

// Finalize computes the statistics over the recorded round trips.
// The standard deviation is over the precision in bits.
func (p *PrecisionStats) Finalize() (err error) {

	if len(p.diff) == 0 {
		return fmt.Errorf("cannot Finalize: no round trip recorded")
	}

	if p.MaxDelta, err = p.diff.Max(); err != nil {
		return
	}

	if p.MeanDelta, err = p.diff.Mean(); err != nil {
		return
	}

	if p.MedianPrecision, err = p.prec.Median(); err != nil {
		return
	}

	p.MinPrecision = DeltaToPrecision(p.MaxDelta)
	p.MeanPrecision = DeltaToPrecision(p.MeanDelta)

	if len(p.prec) > 1 {
		if p.StdPrecision, err = p.prec.StandardDeviationSample(); err != nil {
			return
		}
	} else {
		p.StdPrecision = 0
	}

	return nil
}

func (p *PrecisionStats) String() string {
	return fmt.Sprintf("runs: %d minPrec: %.5f avgPrec: %.5f medPrec: %.5f stdPrec: %.5f avgRMS: %.5e",
		p.Len(), p.MinPrecision, p.MeanPrecision, p.MedianPrecision, p.StdPrecision, p.MeanDelta)
}

func (p *PrecisionStats) ToCSV() []string {
	return []string{
		fmt.Sprintf("%d", p.Len()),
		fmt.Sprintf("%.5f", p.MinPrecision),
		fmt.Sprintf("%.5f", p.MeanPrecision),
		fmt.Sprintf("%.5f", p.MedianPrecision),
		fmt.Sprintf("%.5f", p.StdPrecision),
		fmt.Sprintf("%.5e", p.MeanDelta),
	}
}

// DeltaToPrecision returns log2(1/c), with c floored at 1e-16.
func DeltaToPrecision(c float64) float64 {
	return math.Log2(1 / maxFloat64(c, 1e-16))
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
