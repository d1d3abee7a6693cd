// Package params derives the CKKS parameter set used by the round-trip harness
// from the raw integer knobs given on the command line.
package params

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxH is the ceiling on the Hamming weight of the secret key.
const MaxH = 64

// maxLogN bounds LogN so that 1<<LogN fits in an int.
const maxLogN = 62

// ErrInvalidParameter is returned for malformed or out-of-range input.
var ErrInvalidParameter = errors.New("invalid parameter")

// Arguments are the raw knobs of a run, in positional CLI order.
type Arguments struct {
	LogN     int // Log2 ring degree
	LogQ     int // Log2 ciphertext modulus
	LogScale int // Log2 scaling factor
	GapShift int // Log2 slot subsampling
	Min      int // Range offset of the sampled values
	Max      int // Range scale of the sampled values
	Seed     int64
}

// DefaultArguments returns the arguments used when none are given.
func DefaultArguments() Arguments {
	return Arguments{
		LogN:     4,
		LogQ:     35,
		LogScale: 25,
		GapShift: 0,
		Min:      0,
		Max:      8,
		Seed:     1,
	}
}

// ParseArguments overrides the default arguments with up to seven positional
// base-10 integers: logN logQ logP gapShift min max seed.
func ParseArguments(args []string) (a Arguments, err error) {

	a = DefaultArguments()

	if len(args) > 7 {
		return a, fmt.Errorf("%w: expected at most 7 arguments but got %d", ErrInvalidParameter, len(args))
	}

	fields := []*int{&a.LogN, &a.LogQ, &a.LogScale, &a.GapShift, &a.Min, &a.Max}

	for i, s := range args {

		var v int64
		if v, err = strconv.ParseInt(s, 10, 64); err != nil {
			return a, fmt.Errorf("%w: argument %d (%q): %v", ErrInvalidParameter, i+1, s, err)
		}

		if i < len(fields) {
			*fields[i] = int(v)
		} else {
			a.Seed = v
		}
	}

	return a, nil
}

// ScaleParameters is the derived, immutable parameter set of a run.
type ScaleParameters struct {
	LogN     int
	LogQ     int
	LogScale int
	GapShift int
	H        int // Hamming weight of the secret key
	Slots    int
}

// Derive derives a consistent ScaleParameters from a.
// The slot count is 2^(LogN-1) >> GapShift and the Hamming weight
// is min(2^LogN, MaxH).
func Derive(a Arguments) (p ScaleParameters, err error) {

	if a.LogN <= 0 || a.LogN > maxLogN {
		return p, fmt.Errorf("%w: logN=%d must be in [1, %d]", ErrInvalidParameter, a.LogN, maxLogN)
	}

	if a.LogQ <= 0 {
		return p, fmt.Errorf("%w: logQ=%d must be positive", ErrInvalidParameter, a.LogQ)
	}

	if a.LogScale <= 0 {
		return p, fmt.Errorf("%w: logP=%d must be positive", ErrInvalidParameter, a.LogScale)
	}

	if a.GapShift < 0 {
		return p, fmt.Errorf("%w: gapShift=%d must be non-negative", ErrInvalidParameter, a.GapShift)
	}

	ringDim := 1 << a.LogN
	logSlots := a.LogN - 1

	// A shift of logSlots or more would leave no slot.
	if a.GapShift > logSlots {
		return p, fmt.Errorf("%w: gapShift=%d leaves no slot for logN=%d", ErrInvalidParameter, a.GapShift, a.LogN)
	}

	slots := (1 << logSlots) >> a.GapShift

	if slots <= 0 {
		return p, fmt.Errorf("%w: derived slot count %d is not positive", ErrInvalidParameter, slots)
	}

	h := ringDim
	if h > MaxH {
		h = MaxH
	}

	return ScaleParameters{
		LogN:     a.LogN,
		LogQ:     a.LogQ,
		LogScale: a.LogScale,
		GapShift: a.GapShift,
		H:        h,
		Slots:    slots,
	}, nil
}

// RingDim returns 2^LogN.
func (p ScaleParameters) RingDim() int {
	return 1 << p.LogN
}

// LogSlots returns log2 of the slot count.
func (p ScaleParameters) LogSlots() int {
	return p.LogN - 1 - p.GapShift
}

// String returns the diagnostic line printed before a run.
func (p ScaleParameters) String() string {
	return fmt.Sprintf("logN: %d logQ: %d logP: %d Ringdim: %d slots: %d", p.LogN, p.LogQ, p.LogScale, p.RingDim(), p.Slots)
}
