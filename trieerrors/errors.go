package trieerrors

import (
	"errors"
	"strings"
)

// Range (R) Errors
var (
	ErrOutOfRange  = errors.New("R1|OutOfRange: Value magnitude exceeds the 232-bit domain maximum.")
	ErrWrongOffset = errors.New("R2|WrongOffset: Keys diverge before the claimed common prefix offset.")
	ErrCorruptNode = errors.New("R3|CorruptNode: Stored node record is inconsistent with its position in the trie.")
)

// Configuration (C) Errors
var (
	ErrCUnknownHashType = errors.New("C1|UnknownHashType: Hash type must be blake2b or keccak.")
	ErrCBadValue        = errors.New("C2|BadValue: Value is not a decimal or 0x-prefixed hex integer.")
)

// IsFatal reports whether err signals a broken trie invariant. Retrying an
// operation that failed this way hits the same record again.
func IsFatal(err error) bool {
	return errors.Is(err, ErrWrongOffset) || errors.Is(err, ErrCorruptNode)
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	if len(parts) < 2 {
		return errStr
	}
	nameDesc := parts[1]
	// Split on ':' to separate the error name from its description.
	nameParts := strings.SplitN(nameDesc, ":", 2)
	return strings.TrimSpace(nameParts[0])
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	// Wrapped errors carry a "context: " prefix ahead of the code.
	code := parts[0]
	if i := strings.LastIndex(code, ": "); i >= 0 {
		code = code[i+2:]
	}
	return strings.TrimSpace(code)
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}
