// Package roundtrip sequences the encode, encrypt, decrypt and decode
// operations of an encryption engine on a sample vector and measures the
// resulting approximation error.
package roundtrip

import (
	"fmt"

	"github.com/tuneinsight/ckks-roundtrip-precision/operations"
	"github.com/tuneinsight/ckks-roundtrip-precision/params"
	"github.com/tuneinsight/ckks-roundtrip-precision/sampler"
	"github.com/tuneinsight/ckks-roundtrip-precision/stats"
)

// Result is the outcome of a round trip.
type Result struct {
	Decoded []complex128
	RMS     float64
}

// Precision returns log2(1/RMS).
func (r Result) Precision() float64 {
	return stats.DeltaToPrecision(r.RMS)
}

// Instance bundles the handles of one run.
type Instance struct {
	Params params.ScaleParameters
	SK     operations.SecretKey
	Scheme operations.Scheme
}

// NewInstance builds the context, the secret key and the scheme of p.
// Errors of the engine are returned unchanged.
func NewInstance(eng operations.Engine, p params.ScaleParameters) (inst *Instance, err error) {

	var ctx operations.Context
	if ctx, err = eng.NewContext(p.LogN, p.LogQ, p.LogScale); err != nil {
		return nil, err
	}

	var sk operations.SecretKey
	if sk, err = eng.NewSecretKey(ctx, p.H); err != nil {
		return nil, err
	}

	var scheme operations.Scheme
	if scheme, err = eng.NewScheme(sk, ctx); err != nil {
		return nil, err
	}

	return &Instance{
		Params: p,
		SK:     sk,
		Scheme: scheme,
	}, nil
}

// Run performs encode, encrypt, decrypt and decode on v and returns the
// decoded values with their RMS error.
func (inst *Instance) Run(v sampler.SampleVector, seed int64) (res Result, err error) {

	p := inst.Params

	if err = checkLength(p, v); err != nil {
		return
	}

	var pt operations.Plaintext
	if pt, err = inst.Scheme.Encode(v, p.Slots, p.LogScale, p.LogQ); err != nil {
		return
	}

	var ct operations.Ciphertext
	if ct, err = inst.Scheme.EncryptMsg(pt, seed); err != nil {
		return
	}

	if pt, err = inst.Scheme.DecryptMsg(inst.SK, ct); err != nil {
		return
	}

	return decode(inst.Scheme, pt, v)
}

// EncodeDecode decodes v right after encoding it, without encryption.
func (inst *Instance) EncodeDecode(v sampler.SampleVector) (res Result, err error) {

	p := inst.Params

	if err = checkLength(p, v); err != nil {
		return
	}

	var pt operations.Plaintext
	if pt, err = inst.Scheme.Encode(v, p.Slots, p.LogScale, p.LogQ); err != nil {
		return
	}

	return decode(inst.Scheme, pt, v)
}

// Run builds a new Instance of p on eng and performs one round trip on v.
func Run(eng operations.Engine, p params.ScaleParameters, v sampler.SampleVector, seed int64) (res Result, err error) {

	var inst *Instance
	if inst, err = NewInstance(eng, p); err != nil {
		return
	}

	return inst.Run(v, seed)
}

func checkLength(p params.ScaleParameters, v sampler.SampleVector) error {
	if v.Len() != p.Slots {
		return fmt.Errorf("%w: sample vector has %d values but there are %d slots", params.ErrInvalidParameter, v.Len(), p.Slots)
	}
	return nil
}

func decode(scheme operations.Scheme, pt operations.Plaintext, v sampler.SampleVector) (res Result, err error) {

	if res.Decoded, err = scheme.Decode(pt); err != nil {
		return
	}

	// Values beyond v.Len() are padding.
	if res.RMS, err = stats.RMSError(v, res.Decoded, v.Len()); err != nil {
		return
	}

	return
}
