// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/tzwitter/tezos"
)

var (
	errInputTooLarge = errors.New("inbox message is too large")

	_ Inbox = (*MemInbox)(nil)
)

// MemInbox is an inbox held in memory
type MemInbox struct {
	inputs []*Input
	next   int
}

// NewMemInbox returns an inbox delivering [inputs] in order
func NewMemInbox(inputs ...*Input) *MemInbox {
	return &MemInbox{inputs: inputs}
}

func (i *MemInbox) Next() (*Input, error) {
	if i.next >= len(i.inputs) {
		return nil, nil
	}
	input := i.inputs[i.next]
	i.next++
	return input, nil
}

// Remaining returns the number of messages not yet delivered
func (i *MemInbox) Remaining() int { return len(i.inputs) - i.next }

// NewLevelInbox returns the inbox of one base layer level: StartOfLevel,
// InfoPerLevel, one external message per payload and EndOfLevel.
func NewLevelInbox(level uint32, info tezos.InfoPerLevel, externals ...[]byte) (*MemInbox, error) {
	messages := make([][]byte, 0, len(externals)+3)
	messages = append(messages, tezos.StartOfLevel(), info.Bytes())
	for _, payload := range externals {
		messages = append(messages, tezos.ExternalMessage(payload))
	}
	messages = append(messages, tezos.EndOfLevel())

	inputs := make([]*Input, len(messages))
	for id, msg := range messages {
		if len(msg) > MaxInputMessageSize {
			return nil, fmt.Errorf("%w: message %d of level %d has %d bytes", errInputTooLarge, id, level, len(msg))
		}
		inputs[id] = &Input{
			Level:   level,
			ID:      uint32(id),
			Payload: msg,
		}
	}
	return NewMemInbox(inputs...), nil
}

// LevelDescription is the JSON description of one level's inbox
type LevelDescription struct {
	Level uint32 `json:"level"`
	// Base58 hash of the predecessor block
	Predecessor          string `json:"predecessor"`
	PredecessorTimestamp int64  `json:"predecessorTimestamp"`
	// Hex encoded external message payloads, without the external tag
	Messages []string `json:"messages"`
}

// Inbox builds the inbox described by [d]
func (d *LevelDescription) Inbox() (*MemInbox, error) {
	predecessor, err := tezos.ParseBlockHash(d.Predecessor)
	if err != nil {
		return nil, fmt.Errorf("bad predecessor: %w", err)
	}
	externals := make([][]byte, len(d.Messages))
	for i, msg := range d.Messages {
		payload, err := hex.DecodeString(msg)
		if err != nil {
			return nil, fmt.Errorf("bad message %d: %w", i, err)
		}
		externals[i] = payload
	}
	info := tezos.InfoPerLevel{
		PredecessorTimestamp: d.PredecessorTimestamp,
		Predecessor:          predecessor,
	}
	return NewLevelInbox(d.Level, info, externals...)
}

// LoadLevel reads a level description from the JSON file at [path]
func LoadLevel(path string) (*LevelDescription, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &LevelDescription{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return d, nil
}
