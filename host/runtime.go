// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

// MaxInputMessageSize is the largest inbox message delivered to the kernel
const MaxInputMessageSize = 4096

// Input is one message of the rollup inbox
type Input struct {
	// Level of the base layer block that delivered the message
	Level uint32
	// Index of the message within its level
	ID      uint32
	Payload []byte
}

// StoreReader reads the durable store.
// StoreRead returns database.ErrNotFound when nothing is stored at [path].
type StoreReader interface {
	StoreHas(path Path) (bool, error)
	StoreRead(path Path) ([]byte, error)
}

// StoreWriter mutates the durable store one key at a time
type StoreWriter interface {
	StoreWrite(path Path, value []byte) error
	StoreDelete(path Path) error
	// StoreMove moves the value at [from] to [to], overwriting [to]
	StoreMove(from, to Path) error
}

// StoreLister lists the direct children of a path
type StoreLister interface {
	StoreList(prefix Path) ([]string, error)
}

// Runtime is everything the kernel needs from its host
type Runtime interface {
	StoreReader
	StoreWriter

	// ReadInput returns the next inbox message, or nil once the inbox is
	// exhausted. An error means the host itself failed. An error wrapping
	// ErrCheckpoint means the writes made since the previous call were not
	// committed.
	ReadInput() (*Input, error)

	// WriteOutput appends a message to the outbox
	WriteOutput(payload []byte) error

	// WriteDebug forwards a trace line to the host's log, it never fails
	WriteDebug(msg string)
}

// Inbox is the source of inbox messages of a Host
type Inbox interface {
	// Next returns the next message, or nil once there are no more
	Next() (*Input, error)
}
