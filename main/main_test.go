// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	log "github.com/inconshreveable/log15"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/tzwitter/client"
	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
	"github.com/ava-labs/tzwitter/tzwitter"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(dbPathKey, "tzwitter.db")
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(l1ContractKey, tzwitter.DefaultL1Contract)
	v.SetDefault(l1EntrypointKey, tzwitter.DefaultL1Entrypoint)
	return v
}

func TestParseParams(t *testing.T) {
	require := require.New(t)

	p, err := parseParams(newTestViper())
	require.NoError(err)
	require.Equal("tzwitter.db", p.dbPath)
	require.Equal(log.LvlInfo, p.logLevel)
	require.Equal(tzwitter.DefaultConfig(), p.config)
	require.Empty(p.rpcAddr)

	v := newTestViper()
	v.Set(logLevelKey, "debug")
	v.Set(inboxFileKey, "level.json")
	v.Set(rpcAddrKey, "127.0.0.1:9650")
	p, err = parseParams(v)
	require.NoError(err)
	require.Equal(log.LvlDebug, p.logLevel)
	require.Equal("level.json", p.inboxFile)
	require.Equal("127.0.0.1:9650", p.rpcAddr)

	v = newTestViper()
	v.Set(logLevelKey, "loud")
	_, err = parseParams(v)
	require.Error(err)

	v = newTestViper()
	v.Set(l1ContractKey, "tz1XvkuUNDk8j2tG3RJaRUo4Xppcjc6FvK39")
	_, err = parseParams(v)
	require.Error(err)

	// nothing else is checked when printing the version
	v.Set(versionKey, true)
	p, err = parseParams(v)
	require.NoError(err)
	require.True(p.version)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printSummary(&buf, 3, tzwitter.Summary{
		Status:      tzwitter.Draining,
		Predecessor: "BKiiym5cWWUEL6xzjK7FtMdP3RzHXYvGYGqmRLj5KvfhsCcaAQb",
		Successes:   2,
		Failures:    1,
		Outputs:     1,
	})
	out := buf.String()
	require.Contains(t, out, "Level 3: Draining\n")
	require.Contains(t, out, "Successes: 2\n")
	require.Contains(t, out, "Failures: 1\n")
	require.Contains(t, out, "Outputs: 1\n")
}

func writeLevel(t *testing.T, dir string, level uint32, messages ...*tzwitter.Message) string {
	d := host.LevelDescription{
		Level:       level,
		Predecessor: "BKiiym5cWWUEL6xzjK7FtMdP3RzHXYvGYGqmRLj5KvfhsCcaAQb",
	}
	for _, msg := range messages {
		payload, err := client.PayloadHex(msg)
		require.NoError(t, err)
		d.Messages = append(d.Messages, payload)
	}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	path := filepath.Join(dir, "level.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

// Two invocations share the durable storage through the snapshot
func TestRun(t *testing.T) {
	require := require.New(t)
	color.NoColor = true
	dir := t.TempDir()

	sk, err := tezos.NewEd25519SecretKey(bytes.Repeat([]byte{0}, 32))
	require.NoError(err)
	alice := client.NewSigner(sk, 0)
	post := alice.Post("Hello world")

	p := &params{
		dbPath:    filepath.Join(dir, "tzwitter.db"),
		inboxFile: writeLevel(t, dir, 1, post),
		config:    tzwitter.DefaultConfig(),
	}
	var out bytes.Buffer
	require.NoError(run(p, &out))
	require.Contains(out.String(), "Level 1: Draining")
	require.Contains(out.String(), "Successes: 1")

	// the replay fails against the restored storage
	p.inboxFile = writeLevel(t, dir, 2, post, alice.Collect(0))
	out.Reset()
	require.NoError(run(p, &out))
	require.Contains(out.String(), "Successes: 1")
	require.Contains(out.String(), "Failures: 1")
	require.Contains(out.String(), "Outputs: 1")

	snapshot, err := host.OpenSnapshot(p.dbPath)
	require.NoError(err)
	defer snapshot.Close()
	db := memdb.New()
	require.NoError(snapshot.Restore(db))
	h := host.New(db, host.NewMemInbox(), nil)

	state := tzwitter.NewStateReader(h)
	account, err := state.Account(alice.Address())
	require.NoError(err)
	require.Equal(tzwitter.Nonce(2), account.Nonce)
	collected, err := state.IsCollected(0)
	require.NoError(err)
	require.True(collected)

	outbox, err := h.Outbox(2)
	require.NoError(err)
	require.Len(outbox, 1)
	require.True(strings.HasPrefix(hex.EncodeToString(outbox[0].Payload), "0000000070"))
}
