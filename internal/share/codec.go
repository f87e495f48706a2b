// Package share encodes a roster's lucky flags into a compact, checksummed
// link payload and reads such payloads back.
package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/tayloree/luckydex/internal/roster"
)

var (
	// ErrInvalidPayload means the payload is not decodable or too short.
	ErrInvalidPayload = errors.New("invalid lucky payload")
	// ErrChecksumMismatch means the payload does not match its checksum.
	ErrChecksumMismatch = errors.New("lucky payload checksum mismatch")
	// ErrCountMismatch means the decoded lucky count differs from the declared one.
	ErrCountMismatch = errors.New("lucky payload count mismatch")
)

// PayloadLen is the byte length of a payload covering 1..maxDex.
func PayloadLen(maxDex int) int {
	return (maxDex + 7) / 8
}

// Encode packs the lucky creatures of 1..maxDex into an unpadded base64url
// string. Bit (dex-1)%8 of byte (dex-1)/8 is set for each lucky creature.
func Encode(creatures []roster.Creature, maxDex int) string {
	return EncodeSet(roster.LuckyDexNumbers(creatures, maxDex), maxDex)
}

// EncodeSet packs a dex set the same way as Encode.
func EncodeSet(set roster.DexSet, maxDex int) string {
	bits := bitset.New(uint(maxDex))
	for dex := range set {
		if dex >= 1 && dex <= maxDex {
			bits.Set(uint(dex - 1))
		}
	}
	return base64.RawURLEncoding.EncodeToString(packBytes(bits, PayloadLen(maxDex)))
}

// packBytes lays the bitset words out little-endian, truncated to n bytes.
func packBytes(bits *bitset.BitSet, n int) []byte {
	out := make([]byte, n)
	for i, word := range bits.Bytes() {
		for b := 0; b < 8; b++ {
			idx := i*8 + b
			if idx >= n {
				return out
			}
			out[idx] = byte(word >> (8 * b))
		}
	}
	return out
}

func unpackBytes(raw []byte, n int) *bitset.BitSet {
	words := make([]uint64, (n+7)/8)
	for i := 0; i < n; i++ {
		words[i/8] |= uint64(raw[i]) << (8 * (i % 8))
	}
	return bitset.From(words)
}

// Decode reads a payload back into the set of lucky dex numbers. Padded and
// standard-alphabet input is accepted.
func Decode(payload string, maxDex int) (roster.DexSet, error) {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, err
	}
	n := PayloadLen(maxDex)
	if len(raw) < n {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidPayload, len(raw), n)
	}

	bits := unpackBytes(raw, n)
	set := roster.DexSet{}
	for i, ok := bits.NextSet(0); ok && i < uint(maxDex); i, ok = bits.NextSet(i + 1) {
		set.Add(int(i) + 1)
	}
	return set, nil
}

func decodeBase64(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return raw, nil
}

// Checksum is the FNV-1a 32-bit hash of the payload as 8 lowercase hex
// digits. It detects accidental corruption only; anyone can recompute it.
func Checksum(payload string) string {
	h := fnv.New32a()
	h.Write([]byte(payload))
	return fmt.Sprintf("%08x", h.Sum32())
}
