// Package persist encodes values stored in durable storage as versioned records.
//
// A record is a JSON envelope {"v":<version>,"data":<payload>}. Payloads written before
// records were versioned are plain JSON; they decode as version 0.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the record version written by Encode.
const Version = 1

// ErrMalformed is returned when a stored value cannot be decoded or fails validation.
var ErrMalformed = errors.New("malformed record")

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// Encode wraps v in a record envelope.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	out, err := json.Marshal(envelope{Version: Version, Data: data})
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(out), nil
}

// Decode parses raw into a T. The optional check runs on the decoded value and any
// error it returns is reported as ErrMalformed.
func Decode[T any](raw string, check func(T) error) (T, error) {
	var zero T

	payload, err := unwrap([]byte(raw))
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if check != nil {
		if err := check(v); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	return v, nil
}

// unwrap returns the payload of an envelope, or raw itself for version 0 values.
func unwrap(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}

	if raw[0] != '{' {
		return raw, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rawVersion, versioned := probe["v"]
	data, hasData := probe["data"]
	if !versioned || !hasData || len(probe) != 2 {
		return raw, nil
	}

	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, fmt.Errorf("%w: bad version", ErrMalformed)
	}

	switch version {
	case Version:
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
}
