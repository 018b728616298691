package common

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ParseBlockNumber parses a block number written in decimal or as 0x-prefixed hex,
// the two forms RPC providers use in error messages.
func ParseBlockNumber(s string) (uint64, error) {
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseUint(hex, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseBigInt parses a base-10 integer string as stored in the projection tables.
// An empty string is treated as zero.
func ParseBigInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}

	return v, nil
}

// BytesToMB converts a byte count to whole megabytes.
func BytesToMB(bytes uint64) uint64 {
	return bytes >> 20
}

// ToLowerWithTrim normalizes config keys such as log levels and component names.
func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
