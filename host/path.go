// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxPathLen is the longest path accepted by the durable store
	MaxPathLen = 250

	pathSeparator = "/"
)

var ErrPath = errors.New("invalid path")

// Path addresses a value of the durable store, e.g. "/tweets/0/author".
// A path is a '/' followed by non-empty steps of [A-Za-z0-9._-] separated
// by '/'.
type Path string

// NewPath validates [s] as a path
func NewPath(s string) (Path, error) {
	if len(s) > MaxPathLen {
		return "", fmt.Errorf("%w: %q is longer than %d bytes", ErrPath, s, MaxPathLen)
	}
	if !strings.HasPrefix(s, pathSeparator) {
		return "", fmt.Errorf("%w: %q does not start with %q", ErrPath, s, pathSeparator)
	}
	for _, step := range strings.Split(s[1:], pathSeparator) {
		if err := validateStep(step); err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrPath, s, err)
		}
	}
	return Path(s), nil
}

// MustNewPath is NewPath for constant paths, it panics on invalid input
func MustNewPath(s string) Path {
	p, err := NewPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Join appends [steps] to the path
func (p Path) Join(steps ...string) (Path, error) {
	var b strings.Builder
	b.WriteString(string(p))
	for _, step := range steps {
		b.WriteString(pathSeparator)
		b.WriteString(step)
	}
	return NewPath(b.String())
}

func (p Path) String() string { return string(p) }

// Bytes returns the key of the path in the underlying database
func (p Path) Bytes() []byte { return []byte(p) }

func validateStep(step string) error {
	if len(step) == 0 {
		return errors.New("empty step")
	}
	for _, c := range step {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return fmt.Errorf("step %q contains %q", step, c)
		}
	}
	return nil
}
