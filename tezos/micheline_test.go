// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const testContract = "KT1RycYvM4EVs6BAXWEsGXaAaRqiMP53KT4w"

func hexString(b []byte) string { return hex.EncodeToString(b) }

func TestEncodeNat(t *testing.T) {
	tests := []struct {
		n        Nat
		expected string
	}{
		{0, "0000"},
		{1, "0001"},
		{63, "003f"},
		{64, "008001"},
		{300, "00ac04"},
	}
	for _, test := range tests {
		b, err := EncodeMicheline(test.n)
		require.NoError(t, err)
		require.Equal(t, test.expected, hexString(b), "nat %d", test.n)
	}
}

func TestEncodeStringAndPair(t *testing.T) {
	require := require.New(t)

	b, err := EncodeMicheline(String("ab"))
	require.NoError(err)
	require.Equal("01000000026162", hexString(b))

	b, err = EncodeMicheline(Pair{Nat(1), String("a")})
	require.NoError(err)
	require.Equal("07070001010000000161", hexString(b))
}

func TestEncodeAddress(t *testing.T) {
	require := require.New(t)

	kt1, err := ParseContractHash(testContract)
	require.NoError(err)
	require.Equal(testContract, kt1.String())

	b, err := EncodeMicheline(Address{Contract: kt1})
	require.NoError(err)
	require.Equal("0a0000001601becc2e32eca0e6fe70de0e3fb884e8f6aefffa3d00", hexString(b))

	pkh, err := ParsePublicKeyHash(testPublicKeyHash)
	require.NoError(err)
	b, err = EncodeMicheline(Address{Contract: pkh})
	require.NoError(err)
	require.Len(b, 1+4+22)
	require.Equal([]byte{0x0a, 0, 0, 0, 22, 0x00, 0x00}, b[:7])
}

func TestOutboxMessage(t *testing.T) {
	require := require.New(t)

	author, err := NewEd25519SecretKey(make([]byte, 32))
	require.NoError(err)
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 2
	}
	owner, err := NewEd25519SecretKey(seed)
	require.NoError(err)
	kt1, err := ParseContractHash(testContract)
	require.NoError(err)

	params := Pair{
		Left: Pair{Nat(0), Address{owner.PublicKey().Hash()}},
		Right: Pair{
			Left:  Pair{Address{author.PublicKey().Hash()}, String("Hello world")},
			Right: Nat(1),
		},
	}
	msg := OutboxMessage{Transactions: []OutboxTransaction{{
		Parameters:  params,
		Destination: kt1,
		Entrypoint:  "mint",
	}}}
	b, err := msg.Bytes()
	require.NoError(err)
	require.Equal(
		"00000000700707070700000a00000016000043346e326b6721be4a070bfb2eb49127322fa5e4"+
			"070707070a00000016000086cb6705403b50453c7a7f461133114f56057829"+
			"010000000b48656c6c6f20776f726c640001"+
			"01becc2e32eca0e6fe70de0e3fb884e8f6aefffa3d00"+
			"000000046d696e74",
		hexString(b),
	)
}

func TestOutboxMessageErrors(t *testing.T) {
	require := require.New(t)

	_, err := OutboxMessage{}.Bytes()
	require.ErrorIs(err, errEmptyBatch)

	_, err = OutboxMessage{Transactions: []OutboxTransaction{{
		Parameters: Nat(1),
		Entrypoint: "not an entrypoint",
	}}}.Bytes()
	require.ErrorIs(err, ErrBadEntrypoint)

	_, err = OutboxMessage{Transactions: []OutboxTransaction{{
		Parameters: String(make([]byte, MaxOutputMessageSize)),
		Entrypoint: "mint",
	}}}.Bytes()
	require.ErrorIs(err, errOutboxTooLarge)
}

func TestValidateEntrypoint(t *testing.T) {
	require := require.New(t)

	require.NoError(ValidateEntrypoint("mint"))
	require.NoError(ValidateEntrypoint("default"))
	require.NoError(ValidateEntrypoint("do_it.%@"))
	require.ErrorIs(ValidateEntrypoint(""), ErrBadEntrypoint)
	require.ErrorIs(ValidateEntrypoint("0123456789012345678901234567890123"), ErrBadEntrypoint)
	require.ErrorIs(ValidateEntrypoint("mint!"), ErrBadEntrypoint)
}
