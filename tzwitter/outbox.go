// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"fmt"

	"github.com/ava-labs/tzwitter/tezos"
)

// CollectParameters returns the parameters of the base layer call minting
// [tweet] for [owner]:
//
//	Pair (Pair id owner) (Pair (Pair author content) likes)
func CollectParameters(tweet *Tweet, owner tezos.PublicKeyHash) tezos.Micheline {
	return tezos.Pair{
		Left: tezos.Pair{
			Left:  tezos.Nat(tweet.ID),
			Right: tezos.Address{Contract: owner},
		},
		Right: tezos.Pair{
			Left: tezos.Pair{
				Left:  tezos.Address{Contract: tweet.Author},
				Right: tezos.String(tweet.Content),
			},
			Right: tezos.Nat(tweet.Likes),
		},
	}
}

// CollectMessage returns the outbox message minting [tweet] for [owner] on
// the base layer contract of [config].
func CollectMessage(config Config, tweet *Tweet, owner tezos.PublicKeyHash) ([]byte, error) {
	contract, err := tezos.ParseContractHash(config.L1Contract)
	if err != nil {
		return nil, fmt.Errorf("invalid L1 contract: %w", err)
	}
	msg := tezos.OutboxMessage{Transactions: []tezos.OutboxTransaction{{
		Parameters:  CollectParameters(tweet, owner),
		Destination: contract,
		Entrypoint:  config.L1Entrypoint,
	}}}
	return msg.Bytes()
}
