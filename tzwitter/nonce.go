// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import "fmt"

// Nonce is the replay counter of an account
type Nonce uint64

// Next returns the nonce following [n]
func (n Nonce) Next() Nonce { return n + 1 }

// String returns the uppercase, zero padded, 8 digit hex form of the nonce
// used in the signed hash of a message.
func (n Nonce) String() string {
	return fmt.Sprintf("%08X", uint64(n))
}
