// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import "github.com/ava-labs/tzwitter/tezos"

// Account is the state of a tzwitter user.
// Accounts are created on first use with a zero nonce.
type Account struct {
	PublicKeyHash tezos.PublicKeyHash
	Nonce         Nonce
}

// IncrementNonce returns the account with its next nonce
func (a Account) IncrementNonce() Account {
	a.Nonce = a.Nonce.Next()
	return a
}
