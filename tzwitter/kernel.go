// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

// Status is the state of a kernel invocation
type Status uint8

const (
	Bootstrapping Status = iota
	Running
	// Draining means the whole inbox was processed
	Draining
	// Halted means the invocation stopped on a failure of the host
	Halted
)

func (s Status) String() string {
	switch s {
	case Bootstrapping:
		return "Bootstrapping"
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// Summary describes what an invocation did
type Summary struct {
	Status Status
	// base58 hash of the predecessor block read during bootstrap
	Predecessor string
	// messages carrying the magic byte that could not be decoded
	Skipped int
	// messages ignored because of an invalid signature
	InvalidSignatures int
	// messages that got a receipt
	Successes int
	Failures  int
	// messages written to the outbox
	Outputs int
}

// Kernel processes the inbox of the tzwitter rollup
type Kernel struct {
	config  Config
	metrics *metrics
}

// New returns a kernel reporting its metrics to [registerer]
func New(config Config, registerer prometheus.Registerer) (*Kernel, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(Name, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return &Kernel{config: config, metrics: m}, nil
}

// Run processes the inbox of [rt] one message at a time until it is empty.
//
// The first two messages of the inbox must be StartOfLevel and
// InfoPerLevel. Messages that cannot be decoded or are not signed by their
// public key are skipped. Every other message gets a receipt. Run only
// returns an error when the host fails or the InfoPerLevel message is
// missing, the returned summary then has the Halted status.
func (k *Kernel) Run(rt host.Runtime) (Summary, error) {
	rt.WriteDebug("Hello kernel")

	summary := Summary{Status: Bootstrapping}
	predecessor, err := bootstrap(rt)
	switch {
	case errors.Is(err, ErrEndOfInbox):
		summary.Status = Draining
		return summary, nil
	case err != nil:
		rt.WriteDebug(err.Error())
		summary.Status = Halted
		return summary, err
	}
	summary.Predecessor = predecessor
	summary.Status = Running

	state := NewState(rt)
	var pending outcome
	for summary.Status == Running {
		msg, err := ReadInput(rt)
		// the previous message is only counted once the host committed it
		if !errors.Is(err, ErrCommit) {
			k.record(&summary, pending)
		}
		pending = outcome{}

		switch {
		case errors.Is(err, ErrEndOfInbox):
			summary.Status = Draining
		case errors.Is(err, ErrNotATzwitterMessage):
			// internal messages and messages of other kernels
		case !IsRecoverable(err):
			rt.WriteDebug(err.Error())
			summary.Status = Halted
			return summary, err
		case err != nil:
			rt.WriteDebug(err.Error())
			summary.Skipped++
			k.metrics.skipped.Inc()
		default:
			pending, err = k.process(rt, state, predecessor, msg, &summary)
			if err != nil {
				rt.WriteDebug(err.Error())
				summary.Status = Halted
				return summary, err
			}
		}
	}
	return summary, nil
}

// bootstrap discards the StartOfLevel message and returns the predecessor
// block hash read from the InfoPerLevel message.
func bootstrap(rt host.Runtime) (string, error) {
	first, err := rt.ReadInput()
	switch {
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrRuntime, err)
	case first == nil:
		return "", ErrEndOfInbox
	case !tezos.IsStartOfLevel(first.Payload):
		rt.WriteDebug("First message is not StartOfLevel")
	}

	second, err := rt.ReadInput()
	switch {
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrRuntime, err)
	case second == nil:
		return "", ErrNotInfoPerLevel
	}
	info, err := tezos.ParseInfoPerLevel(second.Payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInfoPerLevel, err)
	}
	return info.Predecessor.String(), nil
}

// outcome is what processing a message added to the state
type outcome struct {
	successes int
	failures  int
	outputs   int
}

func (k *Kernel) record(summary *Summary, o outcome) {
	summary.Successes += o.successes
	summary.Failures += o.failures
	summary.Outputs += o.outputs
	k.metrics.successes.Add(float64(o.successes))
	k.metrics.failures.Add(float64(o.failures))
	k.metrics.outbox.Add(float64(o.outputs))
}

// process applies a decoded message and stores its receipt. It only returns
// the errors that must stop the kernel.
func (k *Kernel) process(rt host.Runtime, state *State, predecessor string, msg *Message, summary *Summary) (outcome, error) {
	if err := VerifySignature(msg); err != nil {
		rt.WriteDebug(err.Error())
		summary.InvalidSignatures++
		k.metrics.invalidSignatures.Inc()
		return outcome{}, nil
	}

	outputs, err := k.apply(rt, state, predecessor, msg)
	if !IsRecoverable(err) {
		return outcome{}, err
	}
	receipt := NewReceipt(msg.Hash(), err)
	if err != nil {
		rt.WriteDebug(err.Error())
	}
	if err := state.StoreReceipt(receipt); err != nil {
		return outcome{}, err
	}

	o := outcome{outputs: outputs}
	if receipt.Success {
		o.successes = 1
	} else {
		o.failures = 1
	}
	return o, nil
}

// apply consumes the nonce of the sender then dispatches the content of
// [msg]. The nonce stays consumed when the content fails.
func (k *Kernel) apply(rt host.Runtime, state *State, predecessor string, msg *Message) (int, error) {
	account, err := VerifyNonce(state.StateReader, msg)
	if err != nil {
		return 0, err
	}
	if err := state.StoreAccount(account); err != nil {
		return 0, err
	}

	d := &dispatcher{
		rt:          rt,
		state:       state,
		config:      k.config,
		sender:      account.PublicKeyHash,
		predecessor: predecessor,
	}
	err = msg.Inner.Content.Handle(d)
	return d.outputs, err
}
