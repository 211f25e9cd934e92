// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testPublicKey     = "edpkuDMUm7Y53wp4gxeLBXuiAhXZrLn8XB1R83ksvvesH8Lp8bmCfK"
	testPublicKeyHash = "tz1QFD9WqLWZmmAuqnnTPPUjfauitYEWdshv"
	testSignature     = "edsigu1mRCtZquLvspcxaYXVZdsKKSqHnXevnrmh1T63Dq1Rr8M1giVLvapiDFK6TQCEyY6xytdGnKgZyVSHDVnub7puy54bD1y"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	require := require.New(t)

	pk, err := ParsePublicKey(testPublicKey)
	require.NoError(err)
	require.Equal(Ed25519, pk.Curve())
	require.Len(pk.Bytes(), 32)
	require.Equal(testPublicKey, pk.String())
}

func TestPublicKeyHashFromPublicKey(t *testing.T) {
	require := require.New(t)

	pk, err := ParsePublicKey(testPublicKey)
	require.NoError(err)
	require.Equal(testPublicKeyHash, pk.Hash().String())

	pkh, err := ParsePublicKeyHash(testPublicKeyHash)
	require.NoError(err)
	require.Equal(pk.Hash(), pkh)
}

func TestParseRejectsWrongPrefix(t *testing.T) {
	require := require.New(t)

	_, err := ParsePublicKeyHash(testPublicKey)
	require.Error(err)
	_, err = ParsePublicKey(testPublicKeyHash)
	require.Error(err)
	_, err = ParseSignature(testPublicKey)
	require.Error(err)
	_, err = ParseContractHash(testPublicKeyHash)
	require.Error(err)
}

func TestParseRejectsBadChecksum(t *testing.T) {
	// last character changed
	_, err := ParsePublicKeyHash("tz1QFD9WqLWZmmAuqnnTPPUjfauitYEWdshw")
	require.Error(t, err)
}

func TestSignatureVerification(t *testing.T) {
	require := require.New(t)

	pk, err := ParsePublicKey(testPublicKey)
	require.NoError(err)
	sig, err := ParseSignature(testSignature)
	require.NoError(err)
	require.Equal(testSignature, sig.String())

	require.NoError(pk.Verify([]byte("Hello world"), sig))
	require.ErrorIs(pk.Verify([]byte("Hello world!"), sig), ErrInvalidSignature)
}

func TestSecretKeySign(t *testing.T) {
	require := require.New(t)

	sk, err := NewEd25519SecretKey(make([]byte, 32))
	require.NoError(err)
	require.Equal("edsk2fuHAameH2ugtQy1ojXnrJMk7NyEc6tWwejFGr2SkhFf3MXE4i", sk.String())

	pk := sk.PublicKey()
	require.Equal("edpku6Pc31JWM3RXfym4pG5RzoKkyNCxQzakzsfQiG1aKXP1J651n8", pk.String())
	require.Equal("tz1XvkuUNDk8j2tG3RJaRUo4Xppcjc6FvK39", pk.Hash().String())

	sig := sk.Sign([]byte("payload"))
	require.NoError(pk.Verify([]byte("payload"), sig))

	parsed, err := ParseSecretKey(sk.String())
	require.NoError(err)
	require.Equal(pk.String(), parsed.PublicKey().String())

	_, err = NewEd25519SecretKey([]byte{1, 2, 3})
	require.ErrorIs(err, errBadSeedLength)
}

func TestTaggedJSON(t *testing.T) {
	require := require.New(t)

	var pkh PublicKeyHash
	require.NoError(json.Unmarshal([]byte(`{"Tz1":"`+testPublicKeyHash+`"}`), &pkh))
	require.Equal(testPublicKeyHash, pkh.String())

	b, err := json.Marshal(pkh)
	require.NoError(err)
	require.JSONEq(`{"Tz1":"`+testPublicKeyHash+`"}`, string(b))

	var pk PublicKey
	require.NoError(json.Unmarshal([]byte(`{"Ed25519":"`+testPublicKey+`"}`), &pk))
	require.Equal(testPublicKey, pk.String())

	var sig Signature
	require.NoError(json.Unmarshal([]byte(`{"Ed25519":"`+testSignature+`"}`), &sig))
	require.Equal(testSignature, sig.String())

	// wrong tag, missing tag, too many tags
	require.Error(json.Unmarshal([]byte(`{"Ed25519":"`+testPublicKeyHash+`"}`), &pkh))
	require.Error(json.Unmarshal([]byte(`{}`), &pk))
	require.Error(json.Unmarshal([]byte(`{"Ed25519":"`+testPublicKey+`","Tz1":"x"}`), &pk))
	require.Error(json.Unmarshal([]byte(`"`+testPublicKey+`"`), &pk))

	// null, duplicate tags and keys differing in case are rejected
	require.Error(json.Unmarshal([]byte(`null`), &pk))
	require.Error(json.Unmarshal([]byte(`{"Ed25519":null}`), &pk))
	require.Error(json.Unmarshal([]byte(`{"Ed25519":"`+testPublicKey+`","Ed25519":"`+testPublicKey+`"}`), &pk))
	require.Error(json.Unmarshal([]byte(`{"ED25519":"`+testSignature+`"}`), &sig))
	require.Error(json.Unmarshal([]byte(`{"tz1":"`+testPublicKeyHash+`"}`), &pkh))
}

func TestDecodeObject(t *testing.T) {
	require := require.New(t)

	members, err := DecodeObject([]byte(` {"a":1, "A":null, "b":{"c":[]}} `))
	require.NoError(err)
	require.Len(members, 3)
	require.Equal(`{"c":[]}`, string(members["b"]))

	var n uint64
	require.NoError(DecodeMember(members, "a", &n))
	require.Equal(uint64(1), n)
	require.ErrorIs(DecodeMember(members, "A", &n), errNullValue)
	require.ErrorIs(DecodeMember(members, "c", &n), ErrMissingField)

	_, err = DecodeObject([]byte(`{"a":1,"a":2}`))
	require.ErrorIs(err, errDuplicateKey)
	_, err = DecodeObject([]byte(`{"a":1} {}`))
	require.ErrorIs(err, errTrailingData)
	_, err = DecodeObject([]byte(`null`))
	require.ErrorIs(err, errNotAnObject)
	_, err = DecodeObject([]byte(`[1]`))
	require.ErrorIs(err, errNotAnObject)
	_, err = DecodeObject([]byte(`{"a":}`))
	require.Error(err)
}

func TestBlockHashRoundTrip(t *testing.T) {
	require := require.New(t)

	var h BlockHash
	for i := range h {
		h[i] = 1
	}
	require.Equal("BKiiym5cWWUEL6xzjK7FtMdP3RzHXYvGYGqmRLj5KvfhsCcaAQb", h.String())

	parsed, err := ParseBlockHash(h.String())
	require.NoError(err)
	require.Equal(h, parsed)
}

func TestBlake2b(t *testing.T) {
	digest := Blake2b256([]byte{1, 2, 3, 4})
	require.Equal(t,
		"28517e4cdf6c90798c1a983b03727ca7743c21a3880672429ccfc5bd15ea5f72",
		hexString(digest[:]),
	)
}
