// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/ava-labs/avalanchego/utils/hashing"
)

const checksumLen = 4

// Base58check prefixes of the Tezos encodings used by the kernel.
var (
	prefixTz1              = []byte{6, 161, 159}
	prefixKT1              = []byte{2, 90, 121}
	prefixEd25519PublicKey = []byte{13, 15, 37, 217}
	prefixEd25519Signature = []byte{9, 245, 205, 134, 18}
	prefixEd25519Seed      = []byte{13, 15, 58, 7}
	prefixEd25519SecretKey = []byte{43, 246, 78, 7}
	prefixBlockHash        = []byte{1, 52}
)

var (
	errBadChecksum           = errors.New("invalid base58check checksum")
	errBadPrefix             = errors.New("unexpected base58check prefix")
	errBadPayloadLength      = errors.New("unexpected base58check payload length")
	errEmptyBase58CheckInput = errors.New("empty base58check input")
)

func checksum(data []byte) []byte {
	return hashing.ComputeHash256(hashing.ComputeHash256(data))[:checksumLen]
}

// encodeBase58Check returns base58(prefix || payload || checksum).
func encodeBase58Check(prefix, payload []byte) string {
	data := make([]byte, 0, len(prefix)+len(payload)+checksumLen)
	data = append(data, prefix...)
	data = append(data, payload...)
	data = append(data, checksum(data)...)
	return base58.Encode(data)
}

// decodeBase58Check decodes [s], checks its checksum and strips [prefix].
// The remaining payload must be exactly [size] bytes long.
func decodeBase58Check(prefix []byte, size int, s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, errEmptyBase58CheckInput
	}
	data, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %q: %w", s, err)
	}
	if len(data) < len(prefix)+checksumLen {
		return nil, errBadPayloadLength
	}
	body, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	if !bytes.Equal(checksum(body), sum) {
		return nil, errBadChecksum
	}
	if !bytes.HasPrefix(body, prefix) {
		return nil, errBadPrefix
	}
	payload := body[len(prefix):]
	if len(payload) != size {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", errBadPayloadLength, size, len(payload))
	}
	return payload, nil
}
