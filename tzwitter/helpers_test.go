// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

// base58 encoding of a block hash made of 32 0x01 bytes
const testPredecessor = "BKiiym5cWWUEL6xzjK7FtMdP3RzHXYvGYGqmRLj5KvfhsCcaAQb"

func testKey(t *testing.T, b byte) tezos.SecretKey {
	sk, err := tezos.NewEd25519SecretKey(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)
	return sk
}

func testAddress(t *testing.T, b byte) tezos.PublicKeyHash {
	return testKey(t, b).PublicKey().Hash()
}

func signedPayload(t *testing.T, sk tezos.SecretKey, nonce Nonce, content Content) []byte {
	payload, err := SignMessage(sk, Inner{Nonce: nonce, Content: content}).Payload()
	require.NoError(t, err)
	return payload
}

func testInfo(t *testing.T) tezos.InfoPerLevel {
	predecessor, err := tezos.ParseBlockHash(testPredecessor)
	require.NoError(t, err)
	return tezos.InfoPerLevel{PredecessorTimestamp: 1680000000, Predecessor: predecessor}
}

// testEnv runs the kernel on successive levels sharing one database
type testEnv struct {
	t        *testing.T
	db       database.Database
	registry *prometheus.Registry
	kernel   *Kernel
	level    uint32
}

func newTestEnv(t *testing.T) *testEnv {
	registry := prometheus.NewRegistry()
	kernel, err := New(DefaultConfig(), registry)
	require.NoError(t, err)
	return &testEnv{
		t:        t,
		db:       memdb.New(),
		registry: registry,
		kernel:   kernel,
	}
}

// run runs the kernel on a new level carrying [payloads]
func (e *testEnv) run(payloads ...[]byte) (*host.Host, Summary) {
	e.level++
	inbox, err := host.NewLevelInbox(e.level, testInfo(e.t), payloads...)
	require.NoError(e.t, err)
	h := host.New(e.db, inbox, nil)
	summary, err := e.kernel.Run(h)
	require.NoError(e.t, err)
	require.Equal(e.t, Draining, summary.Status)
	return h, summary
}

// state returns a reader of the committed state
func (e *testEnv) state() *StateReader {
	return NewStateReader(host.New(e.db, host.NewMemInbox(), nil))
}
