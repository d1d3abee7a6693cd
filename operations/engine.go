// Package operations defines the contract of the encryption engine driven by
// the round trip, and provides its implementation over the lattigo CKKS
// scheme.
package operations

import (
	"errors"
	"fmt"
)

// ErrEngineFailure wraps every error surfaced by an encryption engine.
var ErrEngineFailure = errors.New("engine failure")

// Context, SecretKey, Plaintext and Ciphertext are opaque engine handles.
// Only the engine that created a handle knows its concrete type.
type (
	Context    interface{}
	SecretKey  interface{}
	Plaintext  interface{}
	Ciphertext interface{}
)

// Engine instantiates the handles of an encryption engine.
type Engine interface {
	// NewContext returns a context for a ring of degree 2^logN, a ciphertext
	// modulus of logQ bits and a default scaling factor of 2^logScale.
	NewContext(logN, logQ, logScale int) (Context, error)
	// NewSecretKey samples a ternary secret key with h non-zero coefficients.
	// The key is not derived from any seed.
	NewSecretKey(ctx Context, h int) (SecretKey, error)
	// NewScheme binds a secret key to a context.
	NewScheme(sk SecretKey, ctx Context) (Scheme, error)
}

// Scheme is the set of operations of a round trip.
type Scheme interface {
	// Encode encodes values on slots slots, at scale 2^logScale and at the
	// largest level whose modulus does not exceed logQ bits.
	Encode(values []float64, slots, logScale, logQ int) (Plaintext, error)
	// EncryptMsg encrypts pt. All the randomness of the encryption is derived
	// from seed: equal seeds under the same key give equal ciphertexts.
	EncryptMsg(pt Plaintext, seed int64) (Ciphertext, error)
	// DecryptMsg decrypts ct with sk.
	DecryptMsg(sk SecretKey, ct Ciphertext) (Plaintext, error)
	// Decode decodes pt. The result has at least as many values as slots were encoded.
	Decode(pt Plaintext) ([]complex128, error)
}

func engineError(op string, err error) error {
	return fmt.Errorf("%w: cannot %s: %w", ErrEngineFailure, op, err)
}

// catch converts a panic raised by the engine into an ErrEngineFailure.
func catch(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: cannot %s: %v", ErrEngineFailure, op, r)
	}
}

func handleType(op string, want string, have interface{}) error {
	return fmt.Errorf("%w: cannot %s: invalid handle type, want %s but have %T", ErrEngineFailure, op, want, have)
}
