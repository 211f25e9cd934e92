// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// First byte of every inbox message
const (
	InternalMessageTag byte = 0x00
	ExternalMessageTag byte = 0x01
)

// Second byte of internal inbox messages
const (
	startOfLevelTag byte = 0x01
	endOfLevelTag   byte = 0x02
	infoPerLevelTag byte = 0x03
)

const infoPerLevelLen = 2 + wrappers.LongLen + BlockHashLen

var ErrNotInfoPerLevel = errors.New("not an InfoPerLevel message")

// StartOfLevel returns the internal message opening every level
func StartOfLevel() []byte { return []byte{InternalMessageTag, startOfLevelTag} }

// EndOfLevel returns the internal message closing every level
func EndOfLevel() []byte { return []byte{InternalMessageTag, endOfLevelTag} }

// IsStartOfLevel reports whether [msg] is a StartOfLevel message
func IsStartOfLevel(msg []byte) bool {
	return len(msg) == 2 && msg[0] == InternalMessageTag && msg[1] == startOfLevelTag
}

// ExternalMessage frames [payload] the way the base layer delivers external
// messages to the rollup.
func ExternalMessage(payload []byte) []byte {
	msg := make([]byte, 0, 1+len(payload))
	msg = append(msg, ExternalMessageTag)
	return append(msg, payload...)
}

// InfoPerLevel is the second internal message of every level, it carries
// information about the predecessor of the current base layer block.
type InfoPerLevel struct {
	// Unix timestamp of the predecessor block, in seconds
	PredecessorTimestamp int64
	Predecessor          BlockHash
}

// Bytes returns the inbox encoding of the message
func (i InfoPerLevel) Bytes() []byte {
	p := wrappers.Packer{MaxSize: infoPerLevelLen}
	p.PackByte(InternalMessageTag)
	p.PackByte(infoPerLevelTag)
	p.PackLong(uint64(i.PredecessorTimestamp))
	p.PackFixedBytes(i.Predecessor[:])
	return p.Bytes
}

// ParseInfoPerLevel decodes an InfoPerLevel inbox message
func ParseInfoPerLevel(msg []byte) (InfoPerLevel, error) {
	if len(msg) != infoPerLevelLen || msg[0] != InternalMessageTag || msg[1] != infoPerLevelTag {
		return InfoPerLevel{}, ErrNotInfoPerLevel
	}
	p := wrappers.Packer{Bytes: msg, Offset: 2}
	timestamp := p.UnpackLong()
	predecessor := p.UnpackFixedBytes(BlockHashLen)
	if p.Errored() {
		return InfoPerLevel{}, ErrNotInfoPerLevel
	}

	info := InfoPerLevel{PredecessorTimestamp: int64(timestamp)}
	copy(info.Predecessor[:], predecessor)
	return info, nil
}
