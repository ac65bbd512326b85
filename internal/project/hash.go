package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 sum (same as source.File.Hash).
type Digest [32]byte

// Combine хеширует content || part1 || part2 ... Порядок частей значим.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DigestOf hashes a string, e.g. a style fingerprint or schema tag.
func DigestOf(s string) Digest {
	return sha256.Sum256([]byte(s))
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }
