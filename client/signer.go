// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"encoding/hex"

	"github.com/ava-labs/tzwitter/tezos"
	"github.com/ava-labs/tzwitter/tzwitter"
)

// Signer builds the messages of one account, numbering them from the last
// nonce it was given.
type Signer struct {
	sk    tezos.SecretKey
	nonce tzwitter.Nonce
}

// NewSigner returns a signer for [sk] whose last message used [nonce]
func NewSigner(sk tezos.SecretKey, nonce tzwitter.Nonce) *Signer {
	return &Signer{sk: sk, nonce: nonce}
}

// Address returns the tz1 address of the account
func (s *Signer) Address() tezos.PublicKeyHash { return s.sk.PublicKey().Hash() }

// Nonce returns the nonce of the last message signed
func (s *Signer) Nonce() tzwitter.Nonce { return s.nonce }

// Sign returns the next message of the account carrying [content]
func (s *Signer) Sign(content tzwitter.Content) *tzwitter.Message {
	s.nonce = s.nonce.Next()
	return tzwitter.SignMessage(s.sk, tzwitter.Inner{Nonce: s.nonce, Content: content})
}

// Post signs a new tweet written by the account
func (s *Signer) Post(content string) *tzwitter.Message {
	return s.Sign(&tzwitter.PostTweet{Author: s.Address(), Content: content})
}

// Like signs a like of the tweet [id]
func (s *Signer) Like(id uint64) *tzwitter.Message {
	return s.Sign(&tzwitter.LikeTweet{TweetID: id})
}

// Transfer signs the transfer of the tweet [id] to [destination]
func (s *Signer) Transfer(id uint64, destination tezos.PublicKeyHash) *tzwitter.Message {
	return s.Sign(&tzwitter.Transfer{TweetID: id, Destination: destination})
}

// Collect signs the collect of the tweet [id]
func (s *Signer) Collect(id uint64) *tzwitter.Message {
	return s.Sign(&tzwitter.Collect{TweetID: id})
}

// PayloadHex returns the hex encoded external message payload of [msg], as
// posted to the rollup inbox.
func PayloadHex(msg *tzwitter.Message) (string, error) {
	payload, err := msg.Payload()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(payload), nil
}
