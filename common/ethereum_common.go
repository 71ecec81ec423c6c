package common

import (
	"encoding/json"
	"fmt"

	ethereumCommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// HashLength is the width of a storage word and of a storage address.
const HashLength = ethereumCommon.HashLength

// Hash is a custom type based on Ethereum's common.Hash. It doubles as the
// storage address type and the storage word type.
type Hash ethereumCommon.Hash

// Bytes returns the byte representation of the hash.
func (h Hash) Bytes() []byte {
	return ethereumCommon.Hash(h).Bytes()
}

// String returns the string representation of the hash.
func (h Hash) String() string {
	return ethereumCommon.Hash(h).String()
}

func (h Hash) String_short() string {
	return fmt.Sprintf("%s..%s", h.Hex()[2:6], h.Hex()[62:66])
}

// Hex returns the hexadecimal string representation of the hash.
func (h Hash) Hex() string {
	return ethereumCommon.Hash(h).Hex()
}

// BytesToHash converts a byte slice to a Hash.
func BytesToHash(b []byte) Hash {
	return Hash(ethereumCommon.BytesToHash(b))
}

// HexToHash converts a hexadecimal string to a Hash.
func HexToHash(s string) Hash {
	return Hash(ethereumCommon.HexToHash(s))
}

func FromHex(b string) []byte {
	return ethereumCommon.FromHex(b)
}

func IsNilHash(h Hash) bool {
	return h == Hash{}
}

// Uint256ToHash stores x big-endian in a 32-byte word.
func Uint256ToHash(x *uint256.Int) Hash {
	return Hash(x.Bytes32())
}

// HashToUint256 reads a 32-byte word as a big-endian integer.
func HashToUint256(h Hash) *uint256.Int {
	return new(uint256.Int).SetBytes32(h[:])
}

// MarshalJSON custom marshaler to convert Hash to hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON custom unmarshaler to handle hex strings for Hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	*h = HexToHash(hexStr)
	return nil
}
