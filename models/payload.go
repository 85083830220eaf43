// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PayloadSchemaVersion is the current plaintext schema version.
const PayloadSchemaVersion = 1

// ErrUnsupportedPayloadSchema is returned by [DecodePayload] for a blob
// written by a newer (or corrupt) schema.
var ErrUnsupportedPayloadSchema = errors.New("unsupported payload schema version")

// Payload is the plaintext protected by a vault. Records are kept as raw
// JSON: the vault engine never interprets them, it only carries them.
type Payload struct {
	// SchemaVersion tags the structure for forward migration.
	SchemaVersion int `json:"schemaVersion"`

	// Credentials is an ordered list of credential records.
	Credentials []json.RawMessage `json:"credentials"`

	// Memory holds user preferences and remembered facts.
	Memory Memory `json:"memory"`

	// Conversations is the ordered conversation history.
	Conversations []json.RawMessage `json:"conversations"`

	// Files is an ordered list of file records.
	Files []json.RawMessage `json:"files"`
}

// Memory is the long-term memory section of a [Payload].
type Memory struct {
	Preferences map[string]json.RawMessage `json:"preferences"`
	Facts       []json.RawMessage          `json:"facts"`
}

// DefaultPayload returns the empty payload every new vault starts with.
func DefaultPayload() Payload {
	p := Payload{SchemaVersion: PayloadSchemaVersion}
	p.normalize()
	return p
}

// EncodePayload serializes p into the byte blob sealed by the vault engine.
// A zero SchemaVersion is stamped with the current version.
func EncodePayload(p Payload) ([]byte, error) {
	if p.SchemaVersion == 0 {
		p.SchemaVersion = PayloadSchemaVersion
	}
	if p.SchemaVersion != PayloadSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedPayloadSchema, p.SchemaVersion)
	}
	p.normalize()

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses a blob produced by [EncodePayload].
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.SchemaVersion != PayloadSchemaVersion {
		return Payload{}, fmt.Errorf("%w: %d", ErrUnsupportedPayloadSchema, p.SchemaVersion)
	}
	p.normalize()
	return p, nil
}

// normalize replaces nil collections with empty ones so that the encoded
// form never contains null where a list or object is expected.
func (p *Payload) normalize() {
	if p.Credentials == nil {
		p.Credentials = []json.RawMessage{}
	}
	if p.Conversations == nil {
		p.Conversations = []json.RawMessage{}
	}
	if p.Files == nil {
		p.Files = []json.RawMessage{}
	}
	if p.Memory.Preferences == nil {
		p.Memory.Preferences = map[string]json.RawMessage{}
	}
	if p.Memory.Facts == nil {
		p.Memory.Facts = []json.RawMessage{}
	}
}
