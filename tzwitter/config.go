// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"fmt"

	"github.com/ava-labs/tzwitter/tezos"
)

// Config is the deployment specific configuration of the kernel
type Config struct {
	// Base layer contract receiving the collected tweets
	L1Contract string `json:"l1Contract"`
	// Entrypoint of [L1Contract]
	L1Entrypoint string `json:"l1Entrypoint"`
}

func DefaultConfig() Config {
	return Config{
		L1Contract:   DefaultL1Contract,
		L1Entrypoint: DefaultL1Entrypoint,
	}
}

// Verify returns an error if the configuration cannot be used
func (c Config) Verify() error {
	if _, err := tezos.ParseContractHash(c.L1Contract); err != nil {
		return fmt.Errorf("invalid L1 contract: %w", err)
	}
	return tezos.ValidateEntrypoint(c.L1Entrypoint)
}
