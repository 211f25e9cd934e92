// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/cache/metercacher"
	"github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

const tweetCacheSize = 1024

var errBadAddress = errors.New("invalid address")

// Backend is the storage read by the query service
type Backend interface {
	host.StoreReader
	host.StoreLister

	Outbox(level uint32) ([]host.OutboxRecord, error)
}

// Service is the API service reading the state of the rollup.
// Tweets are cached, Flush must be called after running the kernel on the
// backend.
type Service struct {
	backend Backend
	state   *StateReader
	tweets  cache.Cacher
}

// NewService returns a service reading [backend]
func NewService(backend Backend, registerer prometheus.Registerer) (*Service, error) {
	tweets, err := metercacher.New(
		"tweet_cache",
		registerer,
		&cache.LRU{Size: tweetCacheSize},
	)
	if err != nil {
		return nil, err
	}
	return &Service{
		backend: backend,
		state:   NewStateReader(backend),
		tweets:  tweets,
	}, nil
}

// NewHandler returns the JSON-RPC handler serving [service] under [Name]
func NewHandler(service *Service) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(service, Name); err != nil {
		return nil, err
	}
	return server, nil
}

// Flush drops the cached tweets
func (s *Service) Flush() { s.tweets.Flush() }

func (s *Service) tweet(id uint64) (*Tweet, error) {
	if tweet, ok := s.tweets.Get(id); ok {
		return tweet.(*Tweet), nil
	}
	tweet, err := s.state.Tweet(id)
	if err != nil {
		return nil, err
	}
	s.tweets.Put(id, tweet)
	return tweet, nil
}

// TweetArgs are the arguments of GetTweet
type TweetArgs struct {
	ID json.Uint64 `json:"id"`
}

// TweetReply is a tweet
type TweetReply struct {
	ID      json.Uint64 `json:"id"`
	Author  string      `json:"author"`
	Content string      `json:"content"`
	Likes   json.Uint64 `json:"likes"`
	// hash of the predecessor block when the tweet was collected, empty if
	// it was not collected
	Collected string `json:"collected"`
}

// GetTweet returns the tweet [args.ID]
func (s *Service) GetTweet(_ *http.Request, args *TweetArgs, reply *TweetReply) error {
	tweet, err := s.tweet(uint64(args.ID))
	if err != nil {
		return err
	}
	collected, err := s.state.CollectedHash(tweet.ID)
	if err != nil {
		return err
	}
	reply.ID = json.Uint64(tweet.ID)
	reply.Author = tweet.Author.String()
	reply.Content = tweet.Content
	reply.Likes = json.Uint64(tweet.Likes)
	reply.Collected = collected
	return nil
}

// CountReply is the reply of GetTweetCount
type CountReply struct {
	Count json.Uint64 `json:"count"`
}

// GetTweetCount returns the number of tweets posted
func (s *Service) GetTweetCount(_ *http.Request, _ *struct{}, reply *CountReply) error {
	count, err := s.state.TweetCount()
	reply.Count = json.Uint64(count)
	return err
}

// AddressArgs are the arguments of the methods reading an account
type AddressArgs struct {
	// tz1 address of the account
	Address string `json:"address"`
}

func (a *AddressArgs) parse() (tezos.PublicKeyHash, error) {
	pkh, err := tezos.ParsePublicKeyHash(a.Address)
	if err != nil {
		return tezos.PublicKeyHash{}, fmt.Errorf("%w: %v", errBadAddress, err)
	}
	return pkh, nil
}

// NonceReply is the reply of GetNonce
type NonceReply struct {
	// Nonce of the last message of the account
	Nonce json.Uint64 `json:"nonce"`
}

// GetNonce returns the nonce of the account [args.Address]
func (s *Service) GetNonce(_ *http.Request, args *AddressArgs, reply *NonceReply) error {
	pkh, err := args.parse()
	if err != nil {
		return err
	}
	account, err := s.state.Account(pkh)
	reply.Nonce = json.Uint64(account.Nonce)
	return err
}

// TweetsReply is a list of tweet ids
type TweetsReply struct {
	TweetIDs []json.Uint64 `json:"tweetIDs"`
}

// GetOwnedTweets returns the ids of the tweets owned by [args.Address]
func (s *Service) GetOwnedTweets(_ *http.Request, args *AddressArgs, reply *TweetsReply) error {
	return s.listTweets(args, "owned", reply)
}

// GetWrittenTweets returns the ids of the tweets written by [args.Address]
func (s *Service) GetWrittenTweets(_ *http.Request, args *AddressArgs, reply *TweetsReply) error {
	return s.listTweets(args, "written", reply)
}

func (s *Service) listTweets(args *AddressArgs, set string, reply *TweetsReply) error {
	pkh, err := args.parse()
	if err != nil {
		return err
	}
	path, err := accountFieldPath(pkh, "tweets", set)
	if err != nil {
		return err
	}
	steps, err := s.backend.StoreList(path)
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, len(steps))
	for _, step := range steps {
		id, err := strconv.ParseUint(step, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s/%s", ErrStateDeserialization, path, step)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	reply.TweetIDs = make([]json.Uint64, len(ids))
	for i, id := range ids {
		reply.TweetIDs[i] = json.Uint64(id)
	}
	return nil
}

// ReceiptArgs are the arguments of GetReceipt
type ReceiptArgs struct {
	// Hex encoded hash of the message
	Hash string `json:"hash"`
}

// ReceiptReply is the reply of GetReceipt
type ReceiptReply struct {
	Hash    string `json:"hash"`
	Success bool   `json:"success"`
}

// GetReceipt returns the receipt of the message [args.Hash]
func (s *Service) GetReceipt(_ *http.Request, args *ReceiptArgs, reply *ReceiptReply) error {
	hash, err := ParseHashHex(args.Hash)
	if err != nil {
		return err
	}
	receipt, err := s.state.Receipt(hash)
	if err != nil {
		return err
	}
	reply.Hash = HashHex(receipt.Hash)
	reply.Success = receipt.Success
	return nil
}

// OutboxArgs are the arguments of GetOutbox
type OutboxArgs struct {
	Level json.Uint32 `json:"level"`
}

// OutboxReply lists outbox messages
type OutboxReply struct {
	// Hex encoded outbox messages, in order
	Messages []string `json:"messages"`
}

// GetOutbox returns the outbox messages written at [args.Level]
func (s *Service) GetOutbox(_ *http.Request, args *OutboxArgs, reply *OutboxReply) error {
	records, err := s.backend.Outbox(uint32(args.Level))
	if err != nil {
		return err
	}
	reply.Messages = make([]string, len(records))
	for i, record := range records {
		reply.Messages[i] = hex.EncodeToString(record.Payload)
	}
	return nil
}
