// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/factview/lib/codec"
)

// maxSnapshotSize bounds the decoded payload so a decompression bomb
// cannot exhaust memory.
const maxSnapshotSize = 1 << 30

// zstdDecoder is reused across loads. zstd.Decoder is safe for
// concurrent use with DecodeAll.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		panic("report: zstd decoder initialization failed: " + err.Error())
	}
}

// LoadOptions configures [Load] and [Decode].
type LoadOptions struct {
	// Language selects label language; see [Options.Language].
	Language string

	// IdentityFile is an age identity file used to decrypt ".age"
	// snapshots. Required only for encrypted input.
	IdentityFile string
}

// Load reads and decodes a snapshot file. The file name selects the
// format: ".json", ".jsonc" or ".cbor", optionally followed by any
// combination of ".zst", ".lz4" and ".age", which are undone right to
// left (report.json.zst.age is decrypted, then decompressed, then
// parsed).
func Load(path string, options LoadOptions) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	report, err := Decode(filepath.Base(path), data, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// Decode decodes snapshot bytes whose format is given by name's
// extensions, as described for [Load].
func Decode(name string, data []byte, options LoadOptions) (*Report, error) {
	format, payload, err := unwrap(name, data, options)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	switch format {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(payload), &snapshot); err != nil {
			return nil, fmt.Errorf("parsing JSON snapshot: %w", err)
		}
	case ".cbor":
		if err := codec.Unmarshal(payload, &snapshot); err != nil {
			return nil, fmt.Errorf("parsing CBOR snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (want .json, .jsonc or .cbor)", format)
	}

	return Build(&snapshot, Options{
		Language:    options.Language,
		Fingerprint: Fingerprint(payload),
	})
}

// unwrap peels transport extensions off name, transforming data at
// each step, and returns the remaining format extension with the
// decoded payload.
func unwrap(name string, data []byte, options LoadOptions) (string, []byte, error) {
	for {
		extension := strings.ToLower(filepath.Ext(name))
		name = strings.TrimSuffix(name, filepath.Ext(name))

		var err error
		switch extension {
		case ".age":
			data, err = decrypt(data, options.IdentityFile)
		case ".zst":
			data, err = zstdDecoder.DecodeAll(data, nil)
			if err != nil {
				err = fmt.Errorf("zstd decompress: %w", err)
			}
		case ".lz4":
			data, err = readLimited(lz4.NewReader(bytes.NewReader(data)))
			if err != nil {
				err = fmt.Errorf("lz4 decompress: %w", err)
			}
		default:
			return extension, data, nil
		}
		if err != nil {
			return "", nil, err
		}
	}
}

func decrypt(data []byte, identityFile string) ([]byte, error) {
	if identityFile == "" {
		return nil, fmt.Errorf("encrypted snapshot requires an identity file")
	}
	file, err := os.Open(identityFile)
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file %s: %w", identityFile, err)
	}
	reader, err := age.Decrypt(bytes.NewReader(data), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", err)
	}
	return readLimited(reader)
}

func readLimited(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxSnapshotSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSnapshotSize {
		return nil, fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotSize)
	}
	return data, nil
}

// Fingerprint returns the hex BLAKE3-256 digest of a decoded snapshot
// payload.
func Fingerprint(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint returns the first 12 hex digits of a fingerprint for
// display.
func ShortFingerprint(fingerprint string) string {
	if len(fingerprint) <= 12 {
		return fingerprint
	}
	return fingerprint[:12]
}
