// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// load implements the load tests.
package load_test

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/inconshreveable/log15"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/ginkgo/v2/formatter"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/tzwitter/client"
	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
	"github.com/ava-labs/tzwitter/tzwitter"
)

func TestLoad(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "tzwitter load test suites")
}

var (
	accounts         int
	messagesPerLevel int
	terminalLevel    uint
)

func init() {
	flag.IntVar(
		&accounts,
		"accounts",
		8,
		"number of accounts signing messages concurrently",
	)
	flag.IntVar(
		&messagesPerLevel,
		"messages-per-level",
		16,
		"messages signed by each account per level",
	)
	flag.UintVar(
		&terminalLevel,
		"terminal-level",
		20,
		"level to quit at",
	)
}

const testPredecessor = "BKiiym5cWWUEL6xzjK7FtMdP3RzHXYvGYGqmRLj5KvfhsCcaAQb"

var (
	db      database.Database
	kernel  *tzwitter.Kernel
	signers []*client.Signer
	server  *httptest.Server
	cli     client.Client
	info    tezos.InfoPerLevel
)

var _ = ginkgo.BeforeSuite(func() {
	db = memdb.New()

	var err error
	kernel, err = tzwitter.New(tzwitter.DefaultConfig(), prometheus.NewRegistry())
	gomega.Expect(err).Should(gomega.BeNil())

	predecessor, err := tezos.ParseBlockHash(testPredecessor)
	gomega.Expect(err).Should(gomega.BeNil())
	info = tezos.InfoPerLevel{Predecessor: predecessor}

	signers = make([]*client.Signer, accounts)
	for i := range signers {
		sk, err := tezos.NewEd25519SecretKey(bytes.Repeat([]byte{byte(i)}, 32))
		gomega.Expect(err).Should(gomega.BeNil())
		signers[i] = client.NewSigner(sk, 0)
	}

	service, err := tzwitter.NewService(host.New(db, host.NewMemInbox(), nil), prometheus.NewRegistry())
	gomega.Expect(err).Should(gomega.BeNil())
	handler, err := tzwitter.NewHandler(service)
	gomega.Expect(err).Should(gomega.BeNil())
	server = httptest.NewServer(handler)
	cli = client.New(server.URL)
	outf("{{blue}}tzwitter RPC:{{/}} %q\n", server.URL)
})

var _ = ginkgo.AfterSuite(func() {
	outf("{{red}}shutting down server{{/}}\n")
	server.Close()
})

var _ = ginkgo.Describe("[PostTweet]", func() {
	ginkgo.It("get empty state", func() {
		count, err := cli.GetTweetCount(context.Background())
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(count).Should(gomega.Equal(uint64(0)))
	})

	ginkgo.It("process levels", func() {
		ctx := context.Background()
		start := time.Now()
		messages, tweets := 0, uint64(0)
		// next tweet liked by each account
		likes := make([]uint64, len(signers))
		for level := uint32(1); level <= uint32(terminalLevel); level++ {
			payloads := make([][][]byte, len(signers))
			posts := make([]uint64, len(signers))
			g, _ := errgroup.WithContext(ctx)
			for i := range signers {
				i := i
				g.Go(func() error {
					defer ginkgo.GinkgoRecover()

					signer := signers[i]
					for j := 0; j < messagesPerLevel; j++ {
						var msg *tzwitter.Message
						if level == 1 || j%2 == 0 || likes[i] >= tweets {
							msg = signer.Post(fmt.Sprintf("tweet %d of level %d", j, level))
							posts[i]++
						} else {
							msg = signer.Like(likes[i])
							likes[i]++
						}
						payload, err := msg.Payload()
						if err != nil {
							return err
						}
						payloads[i] = append(payloads[i], payload)
					}
					return nil
				})
			}
			gomega.Ω(g.Wait()).Should(gomega.BeNil())

			externals := [][]byte{}
			for i := range payloads {
				externals = append(externals, payloads[i]...)
				tweets += posts[i]
			}
			inbox, err := host.NewLevelInbox(level, info, externals...)
			gomega.Ω(err).Should(gomega.BeNil())
			summary, err := kernel.Run(host.New(db, inbox, nil))
			gomega.Ω(err).Should(gomega.BeNil())
			gomega.Ω(summary.Status).Should(gomega.Equal(tzwitter.Draining))
			gomega.Ω(summary.Failures).Should(gomega.Equal(0))
			gomega.Ω(summary.Successes).Should(gomega.Equal(len(externals)))
			messages += len(externals)

			count, err := cli.GetTweetCount(ctx)
			gomega.Ω(err).Should(gomega.BeNil())
			gomega.Ω(count).Should(gomega.Equal(tweets))
			log.Info("performance", "level", level,
				"messages", messages,
				"avg mps", float64(messages)/time.Since(start).Seconds(),
			)
		}

		for _, signer := range signers {
			nonce, err := cli.GetNonce(ctx, signer.Address())
			gomega.Ω(err).Should(gomega.BeNil())
			gomega.Ω(nonce).Should(gomega.Equal(signer.Nonce()))
		}
		outf("{{green}}processed %d messages in %d levels{{/}}\n", messages, terminalLevel)
	})
})

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

