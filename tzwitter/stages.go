// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

// ReadInput reads the next message of the inbox.
//
// Only external messages starting with [MagicByte] are decoded, any other
// message returns ErrNotATzwitterMessage. ErrEndOfInbox is returned once the
// inbox is empty and ErrRuntime if the host failed to read it, ErrCommit when
// it failed to commit the previous message.
func ReadInput(rt host.Runtime) (*Message, error) {
	input, err := rt.ReadInput()
	switch {
	case errors.Is(err, host.ErrCheckpoint):
		return nil, fmt.Errorf("%w: %v", ErrCommit, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	case input == nil:
		return nil, ErrEndOfInbox
	}
	return DecodeInput(input.Payload)
}

// DecodeInput decodes a raw inbox message
func DecodeInput(data []byte) (*Message, error) {
	if len(data) < 2 || data[0] != tezos.ExternalMessageTag || data[1] != MagicByte {
		return nil, ErrNotATzwitterMessage
	}
	payload := data[2:]
	if !utf8.Valid(payload) {
		return nil, ErrInvalidUTF8
	}
	return ParseMessage(payload)
}

// VerifySignature checks the message is signed by its public key
func VerifySignature(msg *Message) error {
	hash := msg.Hash()
	if err := msg.PublicKey.Verify(hash[:], msg.Signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// VerifyNonce checks the nonce of the message follows the nonce of the
// account of its signer, and returns the account with its nonce incremented.
func VerifyNonce(state *StateReader, msg *Message) (Account, error) {
	account, err := state.Account(msg.PublicKey.Hash())
	if err != nil {
		return Account{}, err
	}
	next := account.IncrementNonce()
	if msg.Inner.Nonce != next.Nonce {
		return Account{}, fmt.Errorf("%w: expected %d but got %d", ErrInvalidNonce, next.Nonce, msg.Inner.Nonce)
	}
	return next, nil
}
