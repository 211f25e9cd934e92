// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

type metrics struct {
	skipped           prometheus.Counter
	invalidSignatures prometheus.Counter
	successes         prometheus.Counter
	failures          prometheus.Counter
	outbox            prometheus.Counter
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_messages",
			Help:      "Number of inbox messages that could not be decoded",
		}),
		invalidSignatures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_signatures",
			Help:      "Number of messages rejected because of their signature",
		}),
		successes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "successful_messages",
			Help:      "Number of messages applied successfully",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_messages",
			Help:      "Number of signed messages that failed",
		}),
		outbox: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_messages",
			Help:      "Number of messages written to the outbox",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.skipped),
		registerer.Register(m.invalidSignatures),
		registerer.Register(m.successes),
		registerer.Register(m.failures),
		registerer.Register(m.outbox),
	)
	return m, errs.Err
}
