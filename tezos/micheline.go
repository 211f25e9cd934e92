// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// Binary tags of Micheline nodes
const (
	michelineIntTag    byte = 0x00
	michelineStringTag byte = 0x01
	michelinePrim2Tag  byte = 0x07 // primitive, two arguments, no annotation
	michelineBytesTag  byte = 0x0a

	primPair byte = 0x07
)

var (
	_ Micheline = Nat(0)
	_ Micheline = String("")
	_ Micheline = Bytes(nil)
	_ Micheline = Address{}
	_ Micheline = Pair{}
)

// Micheline is a node of a Michelson value
type Micheline interface {
	pack(p *wrappers.Packer)
}

// Nat is a non-negative Michelson integer
type Nat uint64

func (n Nat) pack(p *wrappers.Packer) {
	p.PackByte(michelineIntTag)
	packZarith(p, uint64(n))
}

// String is a Michelson string
type String string

func (s String) pack(p *wrappers.Packer) {
	p.PackByte(michelineStringTag)
	p.PackBytes([]byte(s))
}

// Bytes is a Michelson byte sequence
type Bytes []byte

func (b Bytes) pack(p *wrappers.Packer) {
	p.PackByte(michelineBytesTag)
	p.PackBytes(b)
}

// Address is a Michelson address, optimized as the bytes of its contract
// encoding.
type Address struct {
	Contract Contract
}

func (a Address) pack(p *wrappers.Packer) {
	Bytes(a.Contract.ContractBytes()).pack(p)
}

// Pair is the Michelson "Pair" primitive
type Pair struct {
	Left  Micheline
	Right Micheline
}

func (pr Pair) pack(p *wrappers.Packer) {
	p.PackByte(michelinePrim2Tag)
	p.PackByte(primPair)
	pr.Left.pack(p)
	pr.Right.pack(p)
}

// EncodeMicheline returns the binary encoding of [m]
func EncodeMicheline(m Micheline) ([]byte, error) {
	p := wrappers.Packer{MaxSize: MaxOutputMessageSize}
	m.pack(&p)
	if p.Errored() {
		return nil, p.Err
	}
	return p.Bytes, nil
}

// packZarith packs [v] as a signed zarith number: the first byte carries six
// bits of payload and the sign bit, the following bytes seven bits each, the
// high bit of every byte flagging a continuation.
func packZarith(p *wrappers.Packer, v uint64) {
	b := byte(v & 0x3f)
	v >>= 6
	for v != 0 {
		p.PackByte(b | 0x80)
		b = byte(v & 0x7f)
		v >>= 7
	}
	p.PackByte(b)
}
