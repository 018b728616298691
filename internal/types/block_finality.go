package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// BlockFinality selects which chain head subscriptions follow.
type BlockFinality string

const (
	FinalityFinalized BlockFinality = "finalized"
	FinalitySafe      BlockFinality = "safe"
	// FinalityLatest follows the tip and may see reorged blocks.
	FinalityLatest BlockFinality = "latest"
)

var finalityTags = map[BlockFinality]rpc.BlockNumber{
	FinalityFinalized: rpc.FinalizedBlockNumber,
	FinalitySafe:      rpc.SafeBlockNumber,
	FinalityLatest:    rpc.LatestBlockNumber,
}

func (f BlockFinality) String() string {
	return string(f)
}

func (f BlockFinality) IsValid() bool {
	_, ok := finalityTags[f]
	return ok
}

// ParseBlockFinality accepts a finality name in any case, e.g. "Finalized".
func ParseBlockFinality(s string) (BlockFinality, error) {
	f := BlockFinality(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid block finality %q: must be one of finalized, safe, latest", s)
	}
	return f, nil
}

// BlockNumber returns the JSON-RPC block tag for f. Unknown values map to latest.
func (f BlockFinality) BlockNumber() rpc.BlockNumber {
	if tag, ok := finalityTags[f]; ok {
		return tag
	}
	return rpc.LatestBlockNumber
}
