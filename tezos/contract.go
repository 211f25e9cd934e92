// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

const (
	implicitContractTag   byte = 0x00
	originatedContractTag byte = 0x01
	originatedPadding     byte = 0x00
)

var _ Contract = ContractHash{}
var _ Contract = PublicKeyHash{}

// Contract is an address of the base layer: an implicit account (tz1) or an
// originated contract (KT1).
type Contract interface {
	ContractBytes() []byte
	String() string
}

// ContractHash is the address of an originated contract ("KT1...")
type ContractHash [PublicKeyHashLen]byte

// ParseContractHash parses a base58check "KT1..." address
func ParseContractHash(s string) (ContractHash, error) {
	payload, err := decodeBase58Check(prefixKT1, PublicKeyHashLen, s)
	if err != nil {
		return ContractHash{}, err
	}
	var h ContractHash
	copy(h[:], payload)
	return h, nil
}

func (h ContractHash) String() string {
	return encodeBase58Check(prefixKT1, h[:])
}

// ContractBytes returns the binary encoding of the originated contract:
// 0x01, the 20 byte hash, then one byte of padding.
func (h ContractHash) ContractBytes() []byte {
	b := make([]byte, 0, 2+PublicKeyHashLen)
	b = append(b, originatedContractTag)
	b = append(b, h[:]...)
	return append(b, originatedPadding)
}
