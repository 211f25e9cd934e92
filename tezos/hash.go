// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"golang.org/x/crypto/blake2b"
)

const (
	// PublicKeyHashLen is the size of a tz1 / KT1 hash
	PublicKeyHashLen = 20
	// BlockHashLen is the size of a block hash
	BlockHashLen = 32
)

// Blake2b256 returns the 32 byte blake2b digest of [data]
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Blake2b160 returns the 20 byte blake2b digest of [data]
func Blake2b160(data []byte) [PublicKeyHashLen]byte {
	// blake2b.New only fails for a bad size or an oversized key.
	h, err := blake2b.New(PublicKeyHashLen, nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(data)

	var digest [PublicKeyHashLen]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// BlockHash identifies a block of the base layer
type BlockHash [BlockHashLen]byte

// ParseBlockHash parses a base58check "B..." block hash
func ParseBlockHash(s string) (BlockHash, error) {
	payload, err := decodeBase58Check(prefixBlockHash, BlockHashLen, s)
	if err != nil {
		return BlockHash{}, err
	}
	var h BlockHash
	copy(h[:], payload)
	return h, nil
}

// String returns the base58check representation of the block hash
func (h BlockHash) String() string {
	return encodeBase58Check(prefixBlockHash, h[:])
}
