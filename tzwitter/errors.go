// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tzwitter

import (
	"errors"
	"fmt"
)

// Errors raised while reading the inbox
var (
	ErrNotATzwitterMessage = errors.New("not a tzwitter message")
	ErrEndOfInbox          = errors.New("end of inbox")
	ErrInvalidUTF8         = errors.New("cannot convert bytes to string")
	ErrDeserialization     = errors.New("cannot deserialize message")
	ErrRuntime             = errors.New("runtime error, caused by host function")
	ErrNotInfoPerLevel     = errors.New("was waiting for the InfoPerLevel message")
	// ErrCommit means the writes of the previous message were lost
	ErrCommit = fmt.Errorf("%w: commit failed", ErrRuntime)
)

// Errors raised while processing a message
var (
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrInvalidNonce          = errors.New("invalid nonce")
	ErrStateDeserialization  = errors.New("state deserialization")
	ErrTweetNotFound         = errors.New("tweet not found")
	ErrTweetAlreadyLiked     = errors.New("the tweet has already been liked by this account")
	ErrNotOwner              = errors.New("not the owner of the tweet")
	ErrTweetAlreadyCollected = errors.New("the tweet has already been collected")
)

// IsRecoverable reports whether the kernel can move on to the next inbox
// message after [err]. Only failures of the host itself stop the kernel.
func IsRecoverable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrRuntime), errors.Is(err, ErrNotInfoPerLevel):
		return false
	default:
		return true
	}
}
