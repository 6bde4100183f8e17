// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides factview's standard CBOR encoding
// configuration.
//
// Report snapshots are exchanged in two formats: JSON for hand-edited
// and tool-produced files, and CBOR for compact machine-produced ones.
// Snapshot types carry only `json` struct tags; fxamacker/cbor reads
// them as a fallback when `cbor` tags are absent, so one tag controls
// field naming and omitempty for both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Two
// encodings of the same snapshot are byte-identical, which keeps
// snapshot fingerprints stable across re-exports.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
package codec
