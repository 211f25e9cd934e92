// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import "github.com/ava-labs/avalanchego/ids"

// Receipt is the outcome of a message, keyed by the hash its sender signed.
// The cause of a failure is not kept.
type Receipt struct {
	Hash    ids.ID
	Success bool
}

// NewReceipt returns the receipt of the message [hash] processed with [err]
func NewReceipt(hash ids.ID, err error) Receipt {
	return Receipt{Hash: hash, Success: err == nil}
}
