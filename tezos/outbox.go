// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// MaxOutputMessageSize is the largest outbox message the host accepts
	MaxOutputMessageSize = 4096

	maxEntrypointLen = 31

	atomicTransactionBatchTag byte = 0x00
)

var (
	errEmptyBatch     = errors.New("outbox message has no transaction")
	ErrBadEntrypoint  = errors.New("not a correct entrypoint")
	errOutboxTooLarge = errors.New("outbox message is too large")
)

// OutboxTransaction calls [Entrypoint] of the contract [Destination] with
// [Parameters].
type OutboxTransaction struct {
	Parameters  Micheline
	Destination ContractHash
	Entrypoint  string
}

// OutboxMessage is an atomic batch of transactions executed on the base layer
type OutboxMessage struct {
	Transactions []OutboxTransaction
}

// Bytes returns the binary encoding of the outbox message:
// the batch tag followed by the size-prefixed list of transactions.
// Each transaction is its Micheline parameters, the 22 byte destination and
// the size-prefixed entrypoint name.
func (m OutboxMessage) Bytes() ([]byte, error) {
	if len(m.Transactions) == 0 {
		return nil, errEmptyBatch
	}

	batch := wrappers.Packer{MaxSize: MaxOutputMessageSize}
	for i, tx := range m.Transactions {
		if err := ValidateEntrypoint(tx.Entrypoint); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if tx.Parameters == nil {
			return nil, fmt.Errorf("transaction %d has no parameters", i)
		}
		tx.Parameters.pack(&batch)
		batch.PackFixedBytes(tx.Destination.ContractBytes())
		batch.PackBytes([]byte(tx.Entrypoint))
	}
	if batch.Errored() {
		return nil, fmt.Errorf("%w: %v", errOutboxTooLarge, batch.Err)
	}

	p := wrappers.Packer{MaxSize: MaxOutputMessageSize}
	p.PackByte(atomicTransactionBatchTag)
	p.PackBytes(batch.Bytes)
	if p.Errored() {
		return nil, fmt.Errorf("%w: %v", errOutboxTooLarge, p.Err)
	}
	return p.Bytes, nil
}

// ValidateEntrypoint checks [name] is a valid Michelson entrypoint name
func ValidateEntrypoint(name string) error {
	if len(name) == 0 || len(name) > maxEntrypointLen {
		return fmt.Errorf("%w: %q has length %d", ErrBadEntrypoint, name, len(name))
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '%', c == '@':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrBadEntrypoint, name, c)
		}
	}
	return nil
}
