// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"fmt"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

var _ ContentHandler = (*dispatcher)(nil)

// dispatcher applies the content of one message signed by [sender]
type dispatcher struct {
	rt     host.Runtime
	state  *State
	config Config

	sender tezos.PublicKeyHash
	// base58 hash of the predecessor block of the current level
	predecessor string

	// number of outbox messages written
	outputs int
}

// PostTweet stores a new tweet under the next id, owned and written by the
// sender.
func (d *dispatcher) PostTweet(post *PostTweet) error {
	d.rt.WriteDebug("Post tweet")

	id, err := d.state.IncrementTweetCounter()
	if err != nil {
		return err
	}
	if err := d.state.StoreTweet(NewTweet(id, post)); err != nil {
		return err
	}
	if err := d.state.AddWrittenTweet(d.sender, id); err != nil {
		return err
	}
	return d.state.AddOwnedTweet(d.sender, id)
}

// LikeTweet adds the like of the sender to a tweet, once
func (d *dispatcher) LikeTweet(like *LikeTweet) error {
	d.rt.WriteDebug("Like tweet")

	liked, err := d.state.IsLiked(d.sender, like.TweetID)
	if err != nil {
		return err
	}
	if liked {
		return fmt.Errorf("%w: %d", ErrTweetAlreadyLiked, like.TweetID)
	}
	tweet, err := d.state.Tweet(like.TweetID)
	if err != nil {
		return err
	}
	updated := tweet.Like()
	if err := d.state.StoreLikes(&updated); err != nil {
		return err
	}
	return d.state.SetLiked(d.sender, like.TweetID)
}

// Transfer moves the ownership of a tweet of the sender to the destination
func (d *dispatcher) Transfer(transfer *Transfer) error {
	d.rt.WriteDebug("Transfer tweet")

	if err := d.checkOwner(transfer.TweetID); err != nil {
		return err
	}
	return d.state.TransferOwnership(d.sender, transfer.Destination, transfer.TweetID)
}

// Collect withdraws a tweet of the sender to the base layer. A tweet can only
// be collected once.
func (d *dispatcher) Collect(collect *Collect) error {
	d.rt.WriteDebug("Collect tweet")

	if err := d.checkOwner(collect.TweetID); err != nil {
		return err
	}
	collected, err := d.state.IsCollected(collect.TweetID)
	if err != nil {
		return err
	}
	if collected {
		return fmt.Errorf("%w: %d", ErrTweetAlreadyCollected, collect.TweetID)
	}
	tweet, err := d.state.Tweet(collect.TweetID)
	if err != nil {
		return err
	}

	output, err := CollectMessage(d.config, tweet, d.sender)
	if err != nil {
		return err
	}
	if err := d.rt.WriteOutput(output); err != nil {
		return fmt.Errorf("%w: write output: %v", ErrRuntime, err)
	}
	d.outputs++

	if err := d.state.SetCollected(collect.TweetID, d.predecessor); err != nil {
		return err
	}
	return d.state.AddCollectingTweet(d.sender, collect.TweetID)
}

func (d *dispatcher) checkOwner(id uint64) error {
	owner, err := d.state.IsOwner(d.sender, id)
	if err != nil {
		return err
	}
	if !owner {
		return fmt.Errorf("%w: %d", ErrNotOwner, id)
	}
	return nil
}
