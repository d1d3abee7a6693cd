package operations

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/ring"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
	"golang.org/x/crypto/blake2b"
)

// CKKS is the Engine backed by lattigo's CKKS scheme.
type CKKS struct{}

// NewCKKS returns the lattigo Engine.
func NewCKKS() *CKKS {
	return &CKKS{}
}

// CKKSContext stores the parameters and the encoder of a CKKS instance.
type CKKSContext struct {
	params ckks.Parameters
	ecd    *ckks.Encoder
}

// Parameters returns the underlying lattigo parameters.
func (c *CKKSContext) Parameters() ckks.Parameters {
	return c.params
}

// NewContext generates a single-modulus CKKS parameter set. No auxiliary
// modulus is used since no key-switching is performed.
func (CKKS) NewContext(logN, logQ, logScale int) (ctx Context, err error) {

	defer catch("NewContext", &err)

	if logN < rlwe.MinLogN || logN > rlwe.MaxLogN {
		return nil, engineError("NewContext", fmt.Errorf("logN=%d must be in [%d, %d]", logN, rlwe.MinLogN, rlwe.MaxLogN))
	}

	var params ckks.Parameters
	if params, err = ckks.NewParametersFromLiteral(ckks.ParametersLiteral{
		LogN:            logN,
		LogQ:            []int{logQ},
		LogDefaultScale: logScale,
	}); err != nil {
		return nil, engineError("NewContext", err)
	}

	return &CKKSContext{
		params: params,
		ecd:    ckks.NewEncoder(params),
	}, nil
}

// NewSecretKey generates a secret key with exactly h non-zero coefficients.
func (CKKS) NewSecretKey(ctx Context, h int) (sk SecretKey, err error) {

	defer catch("NewSecretKey", &err)

	c, ok := ctx.(*CKKSContext)
	if !ok {
		return nil, handleType("NewSecretKey", "*CKKSContext", ctx)
	}

	if h <= 0 || h > c.params.N() {
		return nil, engineError("NewSecretKey", fmt.Errorf("hamming weight %d must be in [1, %d]", h, c.params.N()))
	}

	return ckks.NewKeyGenerator(c.params).GenSecretKeyWithHammingWeightNew(h), nil
}

// NewScheme instantiates the decryptor of sk.
func (CKKS) NewScheme(sk SecretKey, ctx Context) (s Scheme, err error) {

	defer catch("NewScheme", &err)

	c, ok := ctx.(*CKKSContext)
	if !ok {
		return nil, handleType("NewScheme", "*CKKSContext", ctx)
	}

	key, ok := sk.(*rlwe.SecretKey)
	if !ok {
		return nil, handleType("NewScheme", "*rlwe.SecretKey", sk)
	}

	return &CKKSScheme{
		CKKSContext: c,
		sk:          key,
		dec:         ckks.NewDecryptor(c.params, key),
	}, nil
}

// CKKSScheme is the Scheme of a CKKSContext under a fixed secret key.
type CKKSScheme struct {
	*CKKSContext
	sk  *rlwe.SecretKey
	dec *rlwe.Decryptor
}

// Encode encodes values on a new plaintext.
func (s *CKKSScheme) Encode(values []float64, slots, logScale, logQ int) (pt Plaintext, err error) {

	defer catch("Encode", &err)

	params := s.params

	if slots <= 0 || slots&(slots-1) != 0 || slots > params.MaxSlots() {
		return nil, engineError("Encode", fmt.Errorf("slots=%d must be a power of two in [1, %d]", slots, params.MaxSlots()))
	}

	if len(values) > slots {
		return nil, engineError("Encode", fmt.Errorf("%d values do not fit in %d slots", len(values), slots))
	}

	p := ckks.NewPlaintext(params, s.level(logQ))
	p.LogDimensions.Cols = bits.Len(uint(slots)) - 1
	p.Scale = rlwe.NewScale(math.Exp2(float64(logScale)))

	if err = s.ecd.Encode(values, p); err != nil {
		return nil, engineError("Encode", err)
	}

	return p, nil
}

// level returns the largest level whose modulus has at most logQ bits,
// or level zero if none has.
func (s *CKKSScheme) level(logQ int) (level int) {
	level = s.params.MaxLevel()
	for level > 0 && s.params.LogQLvl(level) > logQ {
		level--
	}
	return
}

// EncryptMsg encrypts pt under the secret key of s as (-a*s + m + e, a).
// Both the uniform mask a and the error e are read from a keyed PRNG whose
// key is the BLAKE2b digest of seed, so that equal seeds and keys give
// equal ciphertexts.
func (s *CKKSScheme) EncryptMsg(pt Plaintext, seed int64) (ct Ciphertext, err error) {

	defer catch("EncryptMsg", &err)

	p, ok := pt.(*rlwe.Plaintext)
	if !ok {
		return nil, handleType("EncryptMsg", "*rlwe.Plaintext", pt)
	}

	if !p.IsNTT {
		return nil, engineError("EncryptMsg", fmt.Errorf("plaintext must be in the NTT domain"))
	}

	var prng sampling.PRNG
	if prng, err = NewSeededPRNG(seed); err != nil {
		return nil, engineError("EncryptMsg", err)
	}

	params := s.params
	level := p.Level()
	ringQ := params.RingQ().AtLevel(level)

	var xe ring.Sampler
	if xe, err = ring.NewSampler(prng, params.RingQ(), params.Xe(), false); err != nil {
		return nil, engineError("EncryptMsg", err)
	}

	c := ckks.NewCiphertext(params, 1, level)
	*c.MetaData = *p.MetaData

	c0, c1 := c.Value[0], c.Value[1]

	// a is sampled directly in the NTT domain.
	ring.NewUniformSampler(prng, ringQ).Read(c1)

	ringQ.MulCoeffsMontgomery(c1, s.sk.Value.Q, c0)
	ringQ.Neg(c0, c0)

	e := ringQ.NewPoly()
	xe.AtLevel(level).Read(e)
	ringQ.NTT(e, e)

	ringQ.Add(c0, e, c0)
	ringQ.Add(c0, p.Value, c0)

	return c, nil
}

// DecryptMsg decrypts ct with sk.
func (s *CKKSScheme) DecryptMsg(sk SecretKey, ct Ciphertext) (pt Plaintext, err error) {

	defer catch("DecryptMsg", &err)

	key, ok := sk.(*rlwe.SecretKey)
	if !ok {
		return nil, handleType("DecryptMsg", "*rlwe.SecretKey", sk)
	}

	c, ok := ct.(*rlwe.Ciphertext)
	if !ok {
		return nil, handleType("DecryptMsg", "*rlwe.Ciphertext", ct)
	}

	dec := s.dec
	if key != s.sk {
		dec = ckks.NewDecryptor(s.params, key)
	}

	return dec.DecryptNew(c), nil
}

// Decode decodes pt on as many values as it has slots.
func (s *CKKSScheme) Decode(pt Plaintext) (values []complex128, err error) {

	defer catch("Decode", &err)

	p, ok := pt.(*rlwe.Plaintext)
	if !ok {
		return nil, handleType("Decode", "*rlwe.Plaintext", pt)
	}

	values = make([]complex128, 1<<p.LogDimensions.Cols)

	if err = s.ecd.Decode(p, values); err != nil {
		return nil, engineError("Decode", err)
	}

	return values, nil
}

// NewSeededPRNG returns a keyed PRNG whose key is the BLAKE2b-256 digest
// of the little-endian encoding of seed.
func NewSeededPRNG(seed int64) (*sampling.KeyedPRNG, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	key := blake2b.Sum256(buf[:])
	return sampling.NewKeyedPRNG(key[:])
}
