// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/tzwitter/host"
	"github.com/ava-labs/tzwitter/tezos"
)

var (
	accountsPath     = host.MustNewPath("/accounts")
	tweetsPath       = host.MustNewPath("/tweets")
	tweetCounterPath = host.MustNewPath("/constants/tweet-counter")
	receiptsPath     = host.MustNewPath("/receipts")

	// value of presence flags
	flag = []byte{0x00}

	receiptFailure = []byte{0x00}
	receiptSuccess = []byte{0x01}

	ErrReceiptNotFound = errors.New("receipt not found")
)

func tweetFieldPath(id uint64, field string) (host.Path, error) {
	return tweetsPath.Join(strconv.FormatUint(id, 10), field)
}

// accountFieldPath returns /accounts/<tz1...>/<steps...>
func accountFieldPath(pkh tezos.PublicKeyHash, steps ...string) (host.Path, error) {
	return accountsPath.Join(append([]string{pkh.String()}, steps...)...)
}

func accountTweetPath(pkh tezos.PublicKeyHash, set string, id uint64) (host.Path, error) {
	return accountFieldPath(pkh, "tweets", set, strconv.FormatUint(id, 10))
}

func receiptSuccessPath(hash ids.ID) (host.Path, error) {
	return receiptsPath.Join(HashHex(hash), "success")
}

// runtimeError marks a failure of the host store
func runtimeError(op string, path host.Path, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrRuntime, op, path, err)
}

// StateReader reads the tzwitter state from the durable store
type StateReader struct {
	store host.StoreReader
}

func NewStateReader(store host.StoreReader) *StateReader {
	return &StateReader{store: store}
}

func (s *StateReader) exists(path host.Path) (bool, error) {
	has, err := s.store.StoreHas(path)
	if err != nil {
		return false, runtimeError("has", path, err)
	}
	return has, nil
}

// read returns the value at [path], or nil if there is none
func (s *StateReader) read(path host.Path) ([]byte, error) {
	value, err := s.store.StoreRead(path)
	switch {
	case err == database.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, runtimeError("read", path, err)
	default:
		return value, nil
	}
}

// readUint64 returns the big endian integer at [path] and whether it exists
func (s *StateReader) readUint64(path host.Path) (uint64, bool, error) {
	value, err := s.read(path)
	if err != nil || value == nil {
		return 0, false, err
	}
	if len(value) != wrappers.LongLen {
		return 0, false, fmt.Errorf("%w: %s holds %d bytes", ErrStateDeserialization, path, len(value))
	}
	return binary.BigEndian.Uint64(value), true, nil
}

// Account returns the account of [pkh], with a zero nonce if it was never used
func (s *StateReader) Account(pkh tezos.PublicKeyHash) (Account, error) {
	path, err := accountFieldPath(pkh, "nonce")
	if err != nil {
		return Account{}, err
	}
	nonce, _, err := s.readUint64(path)
	if err != nil {
		return Account{}, err
	}
	return Account{PublicKeyHash: pkh, Nonce: Nonce(nonce)}, nil
}

// TweetCount returns the number of tweets ever posted, which is also the id
// of the next tweet.
func (s *StateReader) TweetCount() (uint64, error) {
	count, _, err := s.readUint64(tweetCounterPath)
	return count, err
}

// Tweet returns the tweet [id], or ErrTweetNotFound
func (s *StateReader) Tweet(id uint64) (*Tweet, error) {
	authorPath, err := tweetFieldPath(id, "author")
	if err != nil {
		return nil, err
	}
	contentPath, err := tweetFieldPath(id, "content")
	if err != nil {
		return nil, err
	}
	likesPath, err := tweetFieldPath(id, "likes")
	if err != nil {
		return nil, err
	}

	author, err := s.read(authorPath)
	if err != nil {
		return nil, err
	}
	content, err := s.read(contentPath)
	if err != nil {
		return nil, err
	}
	likes, hasLikes, err := s.readUint64(likesPath)
	if err != nil {
		return nil, err
	}
	if author == nil || content == nil || !hasLikes {
		return nil, fmt.Errorf("%w: %d", ErrTweetNotFound, id)
	}

	pkh, err := tezos.ParsePublicKeyHash(string(author))
	if err != nil {
		return nil, fmt.Errorf("%w: author of tweet %d: %v", ErrStateDeserialization, id, err)
	}
	return &Tweet{
		ID:      id,
		Author:  pkh,
		Content: string(content),
		Likes:   likes,
	}, nil
}

// IsLiked reports whether [pkh] liked the tweet [id]
func (s *StateReader) IsLiked(pkh tezos.PublicKeyHash, id uint64) (bool, error) {
	path, err := accountFieldPath(pkh, "likes", strconv.FormatUint(id, 10))
	if err != nil {
		return false, err
	}
	return s.exists(path)
}

// IsOwner reports whether [pkh] owns the tweet [id]
func (s *StateReader) IsOwner(pkh tezos.PublicKeyHash, id uint64) (bool, error) {
	path, err := accountTweetPath(pkh, "owned", id)
	if err != nil {
		return false, err
	}
	return s.exists(path)
}

// IsAuthor reports whether [pkh] wrote the tweet [id]
func (s *StateReader) IsAuthor(pkh tezos.PublicKeyHash, id uint64) (bool, error) {
	path, err := accountTweetPath(pkh, "written", id)
	if err != nil {
		return false, err
	}
	return s.exists(path)
}

// IsCollecting reports whether [pkh] collected the tweet [id]
func (s *StateReader) IsCollecting(pkh tezos.PublicKeyHash, id uint64) (bool, error) {
	path, err := accountFieldPath(pkh, "collecting", strconv.FormatUint(id, 10))
	if err != nil {
		return false, err
	}
	return s.exists(path)
}

// CollectedHash returns the predecessor block hash stored when the tweet [id]
// was collected, or "" if it was not collected.
func (s *StateReader) CollectedHash(id uint64) (string, error) {
	path, err := tweetFieldPath(id, "collected_hash")
	if err != nil {
		return "", err
	}
	value, err := s.read(path)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// IsCollected reports whether the tweet [id] was collected
func (s *StateReader) IsCollected(id uint64) (bool, error) {
	path, err := tweetFieldPath(id, "collected_hash")
	if err != nil {
		return false, err
	}
	return s.exists(path)
}

// Receipt returns the receipt of the message [hash], or ErrReceiptNotFound
func (s *StateReader) Receipt(hash ids.ID) (Receipt, error) {
	path, err := receiptSuccessPath(hash)
	if err != nil {
		return Receipt{}, err
	}
	value, err := s.read(path)
	switch {
	case err != nil:
		return Receipt{}, err
	case value == nil:
		return Receipt{}, fmt.Errorf("%w: %s", ErrReceiptNotFound, HashHex(hash))
	case len(value) != 1:
		return Receipt{}, fmt.Errorf("%w: %s holds %d bytes", ErrStateDeserialization, path, len(value))
	}
	return Receipt{Hash: hash, Success: value[0] == receiptSuccess[0]}, nil
}

// State reads and writes the tzwitter state.
// Every write goes straight to the store: a sequence of writes interrupted by
// an error is not rolled back.
type State struct {
	*StateReader

	store host.Runtime
}

func NewState(store host.Runtime) *State {
	return &State{
		StateReader: NewStateReader(store),
		store:       store,
	}
}

func (s *State) write(path host.Path, value []byte) error {
	if err := s.store.StoreWrite(path, value); err != nil {
		return runtimeError("write", path, err)
	}
	return nil
}

func (s *State) writeUint64(path host.Path, value uint64) error {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, value)
	return s.write(path, b)
}

// StoreAccount stores the nonce of [account]
func (s *State) StoreAccount(account Account) error {
	path, err := accountFieldPath(account.PublicKeyHash, "nonce")
	if err != nil {
		return err
	}
	return s.writeUint64(path, uint64(account.Nonce))
}

// IncrementTweetCounter increments the tweet counter and returns its previous
// value.
func (s *State) IncrementTweetCounter() (uint64, error) {
	count, err := s.TweetCount()
	if err != nil {
		return 0, err
	}
	if err := s.writeUint64(tweetCounterPath, count+1); err != nil {
		return 0, err
	}
	return count, nil
}

// StoreTweet stores the author, content and likes of [tweet]
func (s *State) StoreTweet(tweet *Tweet) error {
	authorPath, err := tweetFieldPath(tweet.ID, "author")
	if err != nil {
		return err
	}
	contentPath, err := tweetFieldPath(tweet.ID, "content")
	if err != nil {
		return err
	}
	likesPath, err := tweetFieldPath(tweet.ID, "likes")
	if err != nil {
		return err
	}

	if err := s.write(authorPath, []byte(tweet.Author.String())); err != nil {
		return err
	}
	if err := s.write(contentPath, []byte(tweet.Content)); err != nil {
		return err
	}
	return s.writeUint64(likesPath, tweet.Likes)
}

// StoreLikes stores the likes of [tweet]
func (s *State) StoreLikes(tweet *Tweet) error {
	path, err := tweetFieldPath(tweet.ID, "likes")
	if err != nil {
		return err
	}
	return s.writeUint64(path, tweet.Likes)
}

func (s *State) setFlag(path host.Path, err error) error {
	if err != nil {
		return err
	}
	return s.write(path, flag)
}

// SetLiked records that [pkh] liked the tweet [id]
func (s *State) SetLiked(pkh tezos.PublicKeyHash, id uint64) error {
	return s.setFlag(accountFieldPath(pkh, "likes", strconv.FormatUint(id, 10)))
}

// AddWrittenTweet records that [pkh] wrote the tweet [id]
func (s *State) AddWrittenTweet(pkh tezos.PublicKeyHash, id uint64) error {
	return s.setFlag(accountTweetPath(pkh, "written", id))
}

// AddOwnedTweet records that [pkh] owns the tweet [id]
func (s *State) AddOwnedTweet(pkh tezos.PublicKeyHash, id uint64) error {
	return s.setFlag(accountTweetPath(pkh, "owned", id))
}

// AddCollectingTweet records that [pkh] is collecting the tweet [id]
func (s *State) AddCollectingTweet(pkh tezos.PublicKeyHash, id uint64) error {
	return s.setFlag(accountFieldPath(pkh, "collecting", strconv.FormatUint(id, 10)))
}

// TransferOwnership moves the ownership record of the tweet [id] from [from]
// to [to] in a single store operation. It does not check [from] owns it.
func (s *State) TransferOwnership(from, to tezos.PublicKeyHash, id uint64) error {
	fromPath, err := accountTweetPath(from, "owned", id)
	if err != nil {
		return err
	}
	toPath, err := accountTweetPath(to, "owned", id)
	if err != nil {
		return err
	}
	if err := s.store.StoreMove(fromPath, toPath); err != nil {
		return runtimeError("move", fromPath, err)
	}
	return nil
}

// SetCollected marks the tweet [id] as collected, storing the hash of the
// predecessor block.
func (s *State) SetCollected(id uint64, predecessor string) error {
	path, err := tweetFieldPath(id, "collected_hash")
	if err != nil {
		return err
	}
	return s.write(path, []byte(predecessor))
}

// StoreReceipt stores the outcome of [receipt]. A later receipt with the
// same hash replaces the earlier one.
func (s *State) StoreReceipt(receipt Receipt) error {
	path, err := receiptSuccessPath(receipt.Hash)
	if err != nil {
		return err
	}
	value := receiptFailure
	if receipt.Success {
		value = receiptSuccess
	}
	return s.write(path, value)
}
