// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
)

// Curve identifies the signature scheme of a key.
// The numeric value is the tag used in the binary encoding of implicit
// accounts.
type Curve byte

const (
	Ed25519 Curve = iota
)

var (
	ErrUnknownCurve     = errors.New("unknown curve")
	ErrInvalidSignature = errors.New("signature is not correct")

	errCurveMismatch  = errors.New("signature and public key use different curves")
	errBadTaggedValue = errors.New("expected an object with exactly one curve tag")
	errBadSeedLength  = errors.New("bad seed length")
)

// scheme describes how a curve's keys, hashes and signatures are encoded.
type scheme struct {
	// tag of public keys and signatures in JSON
	name string
	// tag of public key hashes in JSON
	hashName string

	publicKeyPrefix []byte
	signaturePrefix []byte
	hashPrefix      []byte

	publicKeyLen int
	signatureLen int

	verify func(publicKey, message, signature []byte) bool
}

var schemes = map[Curve]scheme{
	Ed25519: {
		name:            "Ed25519",
		hashName:        "Tz1",
		publicKeyPrefix: prefixEd25519PublicKey,
		signaturePrefix: prefixEd25519Signature,
		hashPrefix:      prefixTz1,
		publicKeyLen:    ed25519.PublicKeySize,
		signatureLen:    ed25519.SignatureSize,
		verify: func(publicKey, message, signature []byte) bool {
			return ed25519.Verify(publicKey, message, signature)
		},
	},
}

// curveOrder fixes the order in which curves are tried while parsing.
var curveOrder = []Curve{Ed25519}

func (c Curve) scheme() (scheme, error) {
	s, ok := schemes[c]
	if !ok {
		return scheme{}, fmt.Errorf("%w: %d", ErrUnknownCurve, c)
	}
	return s, nil
}

// String returns the JSON tag of the curve
func (c Curve) String() string {
	s, err := c.scheme()
	if err != nil {
		return fmt.Sprintf("Curve(%d)", byte(c))
	}
	return s.name
}

// PublicKey is a public key tagged by its curve
type PublicKey struct {
	curve Curve
	key   []byte
}

// NewEd25519PublicKey wraps an ed25519 public key
func NewEd25519PublicKey(key ed25519.PublicKey) PublicKey {
	return PublicKey{curve: Ed25519, key: append([]byte(nil), key...)}
}

// ParsePublicKey parses a base58check encoded public key ("edpk...")
func ParsePublicKey(s string) (PublicKey, error) {
	for _, curve := range curveOrder {
		sch := schemes[curve]
		key, err := decodeBase58Check(sch.publicKeyPrefix, sch.publicKeyLen, s)
		if err == nil {
			return PublicKey{curve: curve, key: key}, nil
		}
	}
	return PublicKey{}, fmt.Errorf("cannot decode public key %q", s)
}

func (pk PublicKey) Curve() Curve  { return pk.curve }
func (pk PublicKey) Bytes() []byte { return pk.key }

// String returns the base58check representation of the key
func (pk PublicKey) String() string {
	sch, err := pk.curve.scheme()
	if err != nil {
		return ""
	}
	return encodeBase58Check(sch.publicKeyPrefix, pk.key)
}

// Hash returns the public key hash (tz1 address) of the key
func (pk PublicKey) Hash() PublicKeyHash {
	return PublicKeyHash{curve: pk.curve, hash: Blake2b160(pk.key)}
}

// Verify checks that [sig] signs the blake2b digest of [message].
func (pk PublicKey) Verify(message []byte, sig Signature) error {
	if pk.curve != sig.curve {
		return errCurveMismatch
	}
	sch, err := pk.curve.scheme()
	if err != nil {
		return err
	}
	if len(pk.key) != sch.publicKeyLen || len(sig.sig) != sch.signatureLen {
		return ErrInvalidSignature
	}
	digest := Blake2b256(message)
	if !sch.verify(pk.key, digest[:], sig.sig) {
		return ErrInvalidSignature
	}
	return nil
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return marshalTagged(pk.curve.String(), pk.String())
}

func (pk *PublicKey) UnmarshalJSON(b []byte) error {
	tag, value, err := decodeTagged(b)
	if err != nil {
		return err
	}
	key, err := ParsePublicKey(value)
	if err != nil {
		return err
	}
	if key.curve.String() != tag {
		return fmt.Errorf("public key %q is not tagged %s", value, tag)
	}
	*pk = key
	return nil
}

// PublicKeyHash is the hash of a public key, rendered as a tz1 address
type PublicKeyHash struct {
	curve Curve
	hash  [PublicKeyHashLen]byte
}

// ParsePublicKeyHash parses a base58check address ("tz1...")
func ParsePublicKeyHash(s string) (PublicKeyHash, error) {
	for _, curve := range curveOrder {
		sch := schemes[curve]
		payload, err := decodeBase58Check(sch.hashPrefix, PublicKeyHashLen, s)
		if err == nil {
			pkh := PublicKeyHash{curve: curve}
			copy(pkh.hash[:], payload)
			return pkh, nil
		}
	}
	return PublicKeyHash{}, fmt.Errorf("cannot parse public key hash %q", s)
}

func (h PublicKeyHash) Curve() Curve  { return h.curve }
func (h PublicKeyHash) Bytes() []byte { return h.hash[:] }

// String returns the base58check representation of the address
func (h PublicKeyHash) String() string {
	sch, err := h.curve.scheme()
	if err != nil {
		return ""
	}
	return encodeBase58Check(sch.hashPrefix, h.hash[:])
}

// ContractBytes returns the binary encoding of the implicit account:
// 0x00, the curve tag, then the 20 byte hash.
func (h PublicKeyHash) ContractBytes() []byte {
	b := make([]byte, 0, 2+PublicKeyHashLen)
	b = append(b, implicitContractTag, byte(h.curve))
	return append(b, h.hash[:]...)
}

func (h PublicKeyHash) MarshalJSON() ([]byte, error) {
	sch, err := h.curve.scheme()
	if err != nil {
		return nil, err
	}
	return marshalTagged(sch.hashName, h.String())
}

func (h *PublicKeyHash) UnmarshalJSON(b []byte) error {
	tag, value, err := decodeTagged(b)
	if err != nil {
		return err
	}
	pkh, err := ParsePublicKeyHash(value)
	if err != nil {
		return err
	}
	if schemes[pkh.curve].hashName != tag {
		return fmt.Errorf("public key hash %q is not tagged %s", value, tag)
	}
	*h = pkh
	return nil
}

// Signature is a detached signature tagged by its curve
type Signature struct {
	curve Curve
	sig   []byte
}

// ParseSignature parses a base58check signature ("edsig...")
func ParseSignature(s string) (Signature, error) {
	for _, curve := range curveOrder {
		sch := schemes[curve]
		sig, err := decodeBase58Check(sch.signaturePrefix, sch.signatureLen, s)
		if err == nil {
			return Signature{curve: curve, sig: sig}, nil
		}
	}
	return Signature{}, fmt.Errorf("cannot decode signature %q", s)
}

func (s Signature) Curve() Curve  { return s.curve }
func (s Signature) Bytes() []byte { return s.sig }

func (s Signature) String() string {
	sch, err := s.curve.scheme()
	if err != nil {
		return ""
	}
	return encodeBase58Check(sch.signaturePrefix, s.sig)
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return marshalTagged(s.curve.String(), s.String())
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	tag, value, err := decodeTagged(b)
	if err != nil {
		return err
	}
	sig, err := ParseSignature(value)
	if err != nil {
		return err
	}
	if sig.curve.String() != tag {
		return fmt.Errorf("signature %q is not tagged %s", value, tag)
	}
	*s = sig
	return nil
}

// SecretKey signs messages the way wallets do: the blake2b digest of the
// message is signed, not the message itself.
type SecretKey struct {
	curve Curve
	key   ed25519.PrivateKey
}

// NewEd25519SecretKey derives a secret key from a 32 byte seed
func NewEd25519SecretKey(seed []byte) (SecretKey, error) {
	if len(seed) != ed25519.SeedSize {
		return SecretKey{}, fmt.Errorf("%w: expected %d but got %d", errBadSeedLength, ed25519.SeedSize, len(seed))
	}
	return SecretKey{curve: Ed25519, key: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseSecretKey parses an "edsk..." secret key, either in its 32 byte seed
// form or its 64 byte expanded form.
func ParseSecretKey(s string) (SecretKey, error) {
	if seed, err := decodeBase58Check(prefixEd25519Seed, ed25519.SeedSize, s); err == nil {
		return NewEd25519SecretKey(seed)
	}
	key, err := decodeBase58Check(prefixEd25519SecretKey, ed25519.PrivateKeySize, s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("cannot decode secret key: %w", err)
	}
	return NewEd25519SecretKey(key[:ed25519.SeedSize])
}

// String returns the seed form of the key
func (sk SecretKey) String() string {
	return encodeBase58Check(prefixEd25519Seed, sk.key.Seed())
}

func (sk SecretKey) PublicKey() PublicKey {
	return NewEd25519PublicKey(sk.key.Public().(ed25519.PublicKey))
}

// Sign signs the blake2b digest of [message]
func (sk SecretKey) Sign(message []byte) Signature {
	digest := Blake2b256(message)
	return Signature{curve: sk.curve, sig: ed25519.Sign(sk.key, digest[:])}
}

func marshalTagged(tag, value string) ([]byte, error) {
	return json.Marshal(map[string]string{tag: value})
}
