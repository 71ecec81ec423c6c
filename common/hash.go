package common

import (
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	Blake2b = "blake2b"
	Keccak  = "keccak"
)

// ComputeHash computes the BLAKE2b hash of the given data
func ComputeHash(data []byte) []byte {
	hash := blake2b.Sum256(data)
	return hash[:]
}

func Blake2Hash(data []byte) Hash {
	return BytesToHash(ComputeHash(data))
}

func Keccak256(data []byte) Hash {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	h := hash.Sum(nil)
	return BytesToHash(h)
}

// NewHasher returns a fresh 256-bit hasher. Keccak is selected by passing
// Keccak, anything else yields Blake2b-256.
func NewHasher(hashType string) hash.Hash {
	if hashType == Keccak {
		return sha3.NewLegacyKeccak256()
	}
	h, _ := blake2b.New256(nil)
	return h
}

// HashParts hashes the concatenation of parts with the selected hasher.
func HashParts(hashType string, parts ...[]byte) Hash {
	h := NewHasher(hashType)
	for _, p := range parts {
		h.Write(p)
	}
	return BytesToHash(h.Sum(nil))
}

// ValidHashType reports whether hashType names a supported hasher.
func ValidHashType(hashType string) bool {
	return hashType == Blake2b || hashType == Keccak
}
