// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import "github.com/ava-labs/tzwitter/tezos"

// Tweet is a post of the ledger. Its author and content never change.
type Tweet struct {
	ID      uint64              `json:"id"`
	Author  tezos.PublicKeyHash `json:"author"`
	Content string              `json:"content"`
	Likes   uint64              `json:"likes"`
}

// NewTweet returns the tweet created by [post] under [id]
func NewTweet(id uint64, post *PostTweet) *Tweet {
	return &Tweet{
		ID:      id,
		Author:  post.Author,
		Content: post.Content,
	}
}

// Like returns the tweet with one more like
func (t Tweet) Like() Tweet {
	t.Likes++
	return t
}
