// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/tzwitter/tezos"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	durablePrefix = []byte("durable")
	outboxPrefix  = []byte("outbox")

	// ErrCheckpoint is returned by ReadInput when the writes of the previous
	// message could not be committed. Those writes are lost.
	ErrCheckpoint = errors.New("checkpoint failed")

	errOutputTooLarge = errors.New("outbox message is too large")

	_ Runtime     = (*Host)(nil)
	_ StoreLister = (*Host)(nil)
)

// Host runs a kernel against a database.
//
// Writes are buffered in a version database and committed at message
// boundaries: every call to ReadInput first commits everything written since
// the previous call, so a failure while processing a message never leaves a
// partially applied message in the underlying database.
type Host struct {
	log log.Logger

	baseDB   *versiondb.Database
	durable  database.Database
	outboxDB database.Database

	inbox Inbox

	// level of the last input returned by ReadInput
	level uint32
	// outbox messages written since the last checkpoint
	pendingOutbox [][]byte
	// index of the next archived outbox message, per level
	nextOutboxIndex map[uint32]uint32
}

// New returns a host storing its state in [db] and reading [inbox]
func New(db database.Database, inbox Inbox, logger log.Logger) *Host {
	if logger == nil {
		logger = log.New("module", "host")
	}
	baseDB := versiondb.New(db)
	return &Host{
		log:             logger,
		baseDB:          baseDB,
		durable:         prefixdb.New(durablePrefix, baseDB),
		outboxDB:        prefixdb.New(outboxPrefix, baseDB),
		inbox:           inbox,
		nextOutboxIndex: make(map[uint32]uint32),
	}
}

func (h *Host) StoreHas(path Path) (bool, error) {
	return h.durable.Has(path.Bytes())
}

func (h *Host) StoreRead(path Path) ([]byte, error) {
	return h.durable.Get(path.Bytes())
}

func (h *Host) StoreWrite(path Path, value []byte) error {
	return h.durable.Put(path.Bytes(), value)
}

func (h *Host) StoreDelete(path Path) error {
	return h.durable.Delete(path.Bytes())
}

// StoreMove moves the value at [from] to [to], overwriting it. Moving a
// path to itself is a no-op.
func (h *Host) StoreMove(from, to Path) error {
	if from == to {
		_, err := h.durable.Get(from.Bytes())
		return err
	}
	value, err := h.durable.Get(from.Bytes())
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}
	if err := h.durable.Put(to.Bytes(), value); err != nil {
		return fmt.Errorf("failed to write %s: %w", to, err)
	}
	return h.durable.Delete(from.Bytes())
}

// StoreList returns the sorted, distinct steps found directly under [prefix]
func (h *Host) StoreList(prefix Path) ([]string, error) {
	keyPrefix := []byte(prefix.String() + pathSeparator)
	it := h.durable.NewIteratorWithPrefix(keyPrefix)
	defer it.Release()

	seen := make(map[string]struct{})
	steps := []string{}
	for it.Next() {
		rest := string(it.Key()[len(keyPrefix):])
		if i := strings.Index(rest, pathSeparator); i >= 0 {
			rest = rest[:i]
		}
		if _, ok := seen[rest]; ok {
			continue
		}
		seen[rest] = struct{}{}
		steps = append(steps, rest)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	sort.Strings(steps)
	return steps, nil
}

func (h *Host) ReadInput() (*Input, error) {
	if err := h.Checkpoint(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckpoint, err)
	}
	input, err := h.inbox.Next()
	if err != nil {
		return nil, err
	}
	if input != nil {
		h.level = input.Level
	}
	return input, nil
}

func (h *Host) WriteOutput(payload []byte) error {
	if len(payload) > tezos.MaxOutputMessageSize {
		return fmt.Errorf("%w: %d bytes", errOutputTooLarge, len(payload))
	}
	h.pendingOutbox = append(h.pendingOutbox, append([]byte(nil), payload...))
	return nil
}

func (h *Host) WriteDebug(msg string) {
	h.log.Debug(strings.TrimSpace(msg))
}

// Checkpoint archives the pending outbox messages and commits every pending
// write to the underlying database.
func (h *Host) Checkpoint() error {
	defer h.baseDB.Abort()

	for _, payload := range h.pendingOutbox {
		if err := h.archiveOutput(payload); err != nil {
			return err
		}
	}
	if err := h.baseDB.Commit(); err != nil {
		return fmt.Errorf("failed to commit database: %w", err)
	}
	if len(h.pendingOutbox) > 0 {
		h.log.Debug("outbox committed", "level", h.level, "messages", len(h.pendingOutbox))
	}
	h.pendingOutbox = nil
	return nil
}

// Abort discards everything written since the last checkpoint
func (h *Host) Abort() {
	h.baseDB.Abort()
	h.pendingOutbox = nil
	h.nextOutboxIndex = make(map[uint32]uint32)
}

func (h *Host) archiveOutput(payload []byte) error {
	index, err := h.outboxIndex(h.level)
	if err != nil {
		return err
	}
	record := &OutboxRecord{
		Level:   h.level,
		Index:   index,
		Payload: payload,
	}
	bytes, err := Codec.Marshal(CodecVersion, record)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox message: %w", err)
	}
	if err := h.outboxDB.Put(outboxKey(h.level, index), bytes); err != nil {
		return fmt.Errorf("failed to archive outbox message %d of level %d: %w", index, h.level, err)
	}
	h.nextOutboxIndex[h.level] = index + 1
	return nil
}

// outboxIndex returns the index of the next outbox message of [level],
// counting the messages already archived by previous runs.
func (h *Host) outboxIndex(level uint32) (uint32, error) {
	if index, ok := h.nextOutboxIndex[level]; ok {
		return index, nil
	}
	records, err := h.Outbox(level)
	if err != nil {
		return 0, err
	}
	return uint32(len(records)), nil
}

// Outbox returns the outbox messages archived for [level], in order
func (h *Host) Outbox(level uint32) ([]OutboxRecord, error) {
	it := h.outboxDB.NewIteratorWithPrefix(levelKey(level))
	defer it.Release()

	records := []OutboxRecord{}
	for it.Next() {
		record := OutboxRecord{}
		if _, err := Codec.Unmarshal(it.Value(), &record); err != nil {
			return nil, fmt.Errorf("failed to parse outbox message: %w", err)
		}
		records = append(records, record)
	}
	return records, it.Error()
}

func levelKey(level uint32) []byte {
	key := make([]byte, wrappers.IntLen)
	binary.BigEndian.PutUint32(key, level)
	return key
}

func outboxKey(level, index uint32) []byte {
	key := make([]byte, 2*wrappers.IntLen)
	binary.BigEndian.PutUint32(key, level)
	binary.BigEndian.PutUint32(key[wrappers.IntLen:], index)
	return key
}
