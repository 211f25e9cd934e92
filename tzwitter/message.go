// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/tzwitter/tezos"
)

var (
	errUnknownContent = errors.New("unknown content")
	errBadContent     = errors.New("content must have exactly one variant")

	_ Content = (*PostTweet)(nil)
	_ Content = (*LikeTweet)(nil)
	_ Content = (*Transfer)(nil)
	_ Content = (*Collect)(nil)
)

// Message is an external message signed by a tzwitter user
type Message struct {
	PublicKey tezos.PublicKey `json:"pkey"`
	Signature tezos.Signature `json:"signature"`
	Inner     Inner           `json:"inner"`
}

// Inner is the signed part of a message
type Inner struct {
	Nonce   Nonce
	Content Content
}

// Content is the action requested by a message
type Content interface {
	// Handle calls the method of [h] matching the content
	Handle(h ContentHandler) error

	// tag is the name of the variant in the JSON encoding
	tag() string
	// canonical is the text signed after the nonce
	canonical() string
}

// ContentHandler has one method per kind of content
type ContentHandler interface {
	PostTweet(*PostTweet) error
	LikeTweet(*LikeTweet) error
	Transfer(*Transfer) error
	Collect(*Collect) error
}

// PostTweet creates a new tweet
type PostTweet struct {
	Author  tezos.PublicKeyHash `json:"author"`
	Content string              `json:"content"`
}

func (c *PostTweet) Handle(h ContentHandler) error { return h.PostTweet(c) }
func (*PostTweet) tag() string                     { return "PostTweet" }
func (c *PostTweet) canonical() string             { return c.Author.String() + c.Content }

func (c *PostTweet) UnmarshalJSON(b []byte) error {
	members, err := tezos.DecodeObject(b)
	if err != nil {
		return err
	}
	if err := tezos.DecodeMember(members, "author", &c.Author); err != nil {
		return err
	}
	return tezos.DecodeMember(members, "content", &c.Content)
}

// LikeTweet adds a like to a tweet
type LikeTweet struct {
	TweetID uint64
}

func (c *LikeTweet) Handle(h ContentHandler) error { return h.LikeTweet(c) }
func (*LikeTweet) tag() string                     { return "LikeTweet" }
func (c *LikeTweet) canonical() string             { return strconv.FormatUint(c.TweetID, 10) }

func (c *LikeTweet) MarshalJSON() ([]byte, error) { return json.Marshal(c.TweetID) }
func (c *LikeTweet) UnmarshalJSON(b []byte) error { return tezos.DecodeValue(b, &c.TweetID) }

// Transfer gives the ownership of a tweet to another account
type Transfer struct {
	TweetID     uint64              `json:"tweet_id"`
	Destination tezos.PublicKeyHash `json:"destination"`
}

func (c *Transfer) Handle(h ContentHandler) error { return h.Transfer(c) }
func (*Transfer) tag() string                     { return "Transfer" }
func (c *Transfer) canonical() string {
	return c.Destination.String() + strconv.FormatUint(c.TweetID, 10)
}

func (c *Transfer) UnmarshalJSON(b []byte) error {
	members, err := tezos.DecodeObject(b)
	if err != nil {
		return err
	}
	if err := tezos.DecodeMember(members, "tweet_id", &c.TweetID); err != nil {
		return err
	}
	return tezos.DecodeMember(members, "destination", &c.Destination)
}

// Collect withdraws a tweet to the base layer
type Collect struct {
	TweetID uint64
}

func (c *Collect) Handle(h ContentHandler) error { return h.Collect(c) }
func (*Collect) tag() string                     { return "Collect" }
func (c *Collect) canonical() string             { return strconv.FormatUint(c.TweetID, 10) }

func (c *Collect) MarshalJSON() ([]byte, error) { return json.Marshal(c.TweetID) }
func (c *Collect) UnmarshalJSON(b []byte) error { return tezos.DecodeValue(b, &c.TweetID) }

// contents maps the JSON tag of every variant to a constructor
var contents = map[string]func() Content{
	(*PostTweet)(nil).tag(): func() Content { return &PostTweet{} },
	(*LikeTweet)(nil).tag(): func() Content { return &LikeTweet{} },
	(*Transfer)(nil).tag():  func() Content { return &Transfer{} },
	(*Collect)(nil).tag():   func() Content { return &Collect{} },
}

type innerJSON struct {
	Nonce   Nonce                      `json:"nonce"`
	Content map[string]json.RawMessage `json:"content"`
}

func (i Inner) MarshalJSON() ([]byte, error) {
	if i.Content == nil {
		return nil, fmt.Errorf("%w: content", tezos.ErrMissingField)
	}
	content, err := json.Marshal(i.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(innerJSON{
		Nonce:   i.Nonce,
		Content: map[string]json.RawMessage{i.Content.tag(): content},
	})
}

// UnmarshalJSON decodes the signed part of a message. Keys are matched
// exactly and content must hold exactly one known variant.
func (i *Inner) UnmarshalJSON(b []byte) error {
	members, err := tezos.DecodeObject(b)
	if err != nil {
		return err
	}
	var nonce Nonce
	if err := tezos.DecodeMember(members, "nonce", &nonce); err != nil {
		return err
	}
	raw, ok := members["content"]
	if !ok {
		return fmt.Errorf("%w: content", tezos.ErrMissingField)
	}
	variants, err := tezos.DecodeObject(raw)
	if err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}
	if len(variants) != 1 {
		return errBadContent
	}
	for tag, value := range variants {
		newContent, ok := contents[tag]
		if !ok {
			return fmt.Errorf("%w: %q", errUnknownContent, tag)
		}
		content := newContent()
		if err := json.Unmarshal(value, content); err != nil {
			return fmt.Errorf("invalid %s: %w", tag, err)
		}
		i.Nonce = nonce
		i.Content = content
	}
	return nil
}

// ParseMessage decodes the JSON encoding of a message
func ParseMessage(b []byte) (*Message, error) {
	members, err := tezos.DecodeObject(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	msg := &Message{}
	if err := tezos.DecodeMember(members, "pkey", &msg.PublicKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if err := tezos.DecodeMember(members, "signature", &msg.Signature); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if err := tezos.DecodeMember(members, "inner", &msg.Inner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return msg, nil
}

// Bytes returns the JSON encoding of the message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// Hash returns the hash signed by the sender of the message
func (m *Message) Hash() ids.ID {
	return m.Inner.Hash()
}

// SignMessage returns the message carrying [inner] signed with [sk]
func SignMessage(sk tezos.SecretKey, inner Inner) *Message {
	hash := inner.Hash()
	return &Message{
		PublicKey: sk.PublicKey(),
		Signature: sk.Sign(hash[:]),
		Inner:     inner,
	}
}

// Payload returns the external message payload carrying [m]: the magic byte
// followed by the JSON encoding of the message.
func (m *Message) Payload() ([]byte, error) {
	b, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	return append([]byte{MagicByte}, b...), nil
}
