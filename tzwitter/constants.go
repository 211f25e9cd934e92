// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

const (
	Name    = "tzwitter"
	Version = "v0.1.0"

	// MagicByte follows the external message tag of every message addressed
	// to this kernel
	MagicByte byte = 0x74

	// DefaultL1Contract is the base layer contract minting collected tweets
	DefaultL1Contract = "KT1RycYvM4EVs6BAXWEsGXaAaRqiMP53KT4w"
	// DefaultL1Entrypoint is the entrypoint of [DefaultL1Contract] called on
	// collect
	DefaultL1Entrypoint = "mint"
)
