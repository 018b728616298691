package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/common"
)

var (
	tooManyResultsRe = regexp.MustCompile(`Query returned more than \d+ results`)
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// ConnectivityError reports that the endpoint stayed unreachable for every retry.
// The event pipeline treats it as "try again later", never as a bad event.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("rpc %s: endpoint unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivityError reports whether err is or wraps a ConnectivityError.
func IsConnectivityError(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// IsTooManyResultsError reports whether an eth_getLogs failure was the provider refusing
// a block range with too many logs. The provider's message is returned alongside, since
// it may carry a suggested narrower range.
func IsTooManyResultsError(err error) (bool, string) {
	var dataErr rpc.DataError
	if err == nil || !errors.As(err, &dataErr) {
		return false, ""
	}

	msg := fmt.Sprint(dataErr.ErrorData())
	return tooManyResultsRe.MatchString(msg), msg
}

// ParseSuggestedBlockRange extracts the first "[0xfrom, 0xto]" pair from a provider message,
// e.g. "Try with this block range [0x7dfd25, 0x7e0fcc].".
func ParseSuggestedBlockRange(msg string) (fromBlock, toBlock uint64, ok bool) {
	m := blockRangeRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, false
	}

	from, err := common.ParseBlockNumber(m[1])
	if err != nil {
		return 0, 0, false
	}
	to, err := common.ParseBlockNumber(m[2])
	if err != nil {
		return 0, 0, false
	}

	return from, to, true
}
