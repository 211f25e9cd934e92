// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/tzwitter/tezos"
	"github.com/ava-labs/tzwitter/tzwitter"
)

// Client defines tzwitter client operations.
type Client interface {
	// GetTweet fetches a tweet
	GetTweet(ctx context.Context, id uint64) (*tzwitter.TweetReply, error)

	// GetTweetCount fetches the number of tweets posted
	GetTweetCount(ctx context.Context) (uint64, error)

	// GetNonce fetches the nonce of the last message of an account
	GetNonce(ctx context.Context, address tezos.PublicKeyHash) (tzwitter.Nonce, error)

	// GetOwnedTweets fetches the ids of the tweets owned by an account
	GetOwnedTweets(ctx context.Context, address tezos.PublicKeyHash) ([]uint64, error)

	// GetWrittenTweets fetches the ids of the tweets written by an account
	GetWrittenTweets(ctx context.Context, address tezos.PublicKeyHash) ([]uint64, error)

	// GetReceipt fetches whether a message succeeded
	GetReceipt(ctx context.Context, hash ids.ID) (bool, error)

	// GetOutbox fetches the outbox messages of a level
	GetOutbox(ctx context.Context, level uint32) ([][]byte, error)
}

// New creates a new client object.
func New(uri string) Client {
	return &client{uri: uri, http: http.DefaultClient}
}

type client struct {
	uri  string
	http *http.Client
}

func (cli *client) sendRequest(ctx context.Context, method string, args interface{}, reply interface{}) error {
	body, err := json2.EncodeClientRequest(tzwitter.Name+"."+method, args)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cli.uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cli.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to issue %s: %w", method, err)
	}
	defer resp.Body.Close()
	return json2.DecodeClientResponse(resp.Body, reply)
}

func (cli *client) GetTweet(ctx context.Context, id uint64) (*tzwitter.TweetReply, error) {
	resp := new(tzwitter.TweetReply)
	err := cli.sendRequest(ctx,
		"getTweet",
		&tzwitter.TweetArgs{ID: json.Uint64(id)},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetTweetCount(ctx context.Context) (uint64, error) {
	resp := new(tzwitter.CountReply)
	err := cli.sendRequest(ctx, "getTweetCount", &struct{}{}, resp)
	return uint64(resp.Count), err
}

func (cli *client) GetNonce(ctx context.Context, address tezos.PublicKeyHash) (tzwitter.Nonce, error) {
	resp := new(tzwitter.NonceReply)
	err := cli.sendRequest(ctx,
		"getNonce",
		&tzwitter.AddressArgs{Address: address.String()},
		resp,
	)
	return tzwitter.Nonce(resp.Nonce), err
}

func (cli *client) GetOwnedTweets(ctx context.Context, address tezos.PublicKeyHash) ([]uint64, error) {
	return cli.listTweets(ctx, "getOwnedTweets", address)
}

func (cli *client) GetWrittenTweets(ctx context.Context, address tezos.PublicKeyHash) ([]uint64, error) {
	return cli.listTweets(ctx, "getWrittenTweets", address)
}

func (cli *client) listTweets(ctx context.Context, method string, address tezos.PublicKeyHash) ([]uint64, error) {
	resp := new(tzwitter.TweetsReply)
	err := cli.sendRequest(ctx,
		method,
		&tzwitter.AddressArgs{Address: address.String()},
		resp,
	)
	if err != nil {
		return nil, err
	}
	tweetIDs := make([]uint64, len(resp.TweetIDs))
	for i, id := range resp.TweetIDs {
		tweetIDs[i] = uint64(id)
	}
	return tweetIDs, nil
}

func (cli *client) GetReceipt(ctx context.Context, hash ids.ID) (bool, error) {
	resp := new(tzwitter.ReceiptReply)
	err := cli.sendRequest(ctx,
		"getReceipt",
		&tzwitter.ReceiptArgs{Hash: tzwitter.HashHex(hash)},
		resp,
	)
	return resp.Success, err
}

func (cli *client) GetOutbox(ctx context.Context, level uint32) ([][]byte, error) {
	resp := new(tzwitter.OutboxReply)
	err := cli.sendRequest(ctx,
		"getOutbox",
		&tzwitter.OutboxArgs{Level: json.Uint32(level)},
		resp,
	)
	if err != nil {
		return nil, err
	}
	messages := make([][]byte, len(resp.Messages))
	for i, message := range resp.Messages {
		messages[i], err = hex.DecodeString(message)
		if err != nil {
			return nil, err
		}
	}
	return messages, nil
}
