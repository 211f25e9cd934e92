// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"encoding/hex"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/tzwitter/tezos"
)

// Hash returns the blake2b hash of the nonce followed by the canonical text of
// the content. Clients sign this hash and receipts are stored under it.
func (i Inner) Hash() ids.ID {
	return ids.ID(tezos.Blake2b256([]byte(i.Nonce.String() + i.Content.canonical())))
}

// HashHex returns the lowercase hex form of [hash] used in storage paths
func HashHex(hash ids.ID) string {
	return hex.EncodeToString(hash[:])
}

// ParseHashHex parses the hex form of a message hash
func ParseHashHex(s string) (ids.ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(b)
}
