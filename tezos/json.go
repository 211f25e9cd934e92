// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tezos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrMissingField = errors.New("missing field")

	errNotAnObject  = errors.New("expected a JSON object")
	errDuplicateKey = errors.New("duplicate key")
	errTrailingData = errors.New("trailing data after JSON value")
	errNullValue    = errors.New("unexpected null")

	jsonNull = []byte("null")
)

// DecodeObject decodes the JSON object [b] into its members. Keys are case
// sensitive and unique, and nothing but whitespace may follow the object.
func DecodeObject(b []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotAnObject
	}

	members := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotAnObject
		}
		if _, ok := members[key]; ok {
			return nil, fmt.Errorf("%w: %q", errDuplicateKey, key)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members[key] = value
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return members, nil
}

// DecodeMember decodes the member [key] of [members] into [v]. The member
// must be present and not null.
func DecodeMember(members map[string]json.RawMessage, key string, v interface{}) error {
	raw, ok := members[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	if err := DecodeValue(raw, v); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// DecodeValue decodes the JSON value [b] into [v], rejecting null
func DecodeValue(b []byte, v interface{}) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return errNullValue
	}
	return json.Unmarshal(b, v)
}

// decodeTagged decodes an externally tagged string: an object with exactly
// one member whose value is a string.
func decodeTagged(b []byte) (string, string, error) {
	members, err := DecodeObject(b)
	if err != nil {
		return "", "", err
	}
	if len(members) != 1 {
		return "", "", errBadTaggedValue
	}
	for tag, raw := range members {
		var value string
		if err := DecodeValue(raw, &value); err != nil {
			return "", "", err
		}
		return tag, value, nil
	}
	return "", "", errBadTaggedValue
}
