package config

import (
	"errors"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/types"
)

// ChainConfig describes the RPC endpoint, the deal vault contract and how its
// events are polled.
type ChainConfig struct {
	RPCURL          string `yaml:"rpc_url" json:"rpc_url" toml:"rpc_url" jsonschema:"required"`
	ContractAddress string `yaml:"contract_address" json:"contract_address" toml:"contract_address" jsonschema:"required,pattern=^0x[0-9a-fA-F]{40}$"` //nolint:lll

	// ABIPath replaces the embedded deal vault ABI
	ABIPath string `yaml:"abi_path,omitempty" json:"abi_path,omitempty" toml:"abi_path,omitempty"`

	// Events to subscribe to. Empty subscribes to every event with a handler.
	Events []string `yaml:"events,omitempty" json:"events,omitempty" toml:"events,omitempty"`

	Finality string `yaml:"finality" json:"finality" toml:"finality" jsonschema:"enum=finalized,enum=safe,enum=latest,default=finalized"` //nolint:lll

	// ConfirmationLag keeps subscriptions this many blocks behind the tip.
	// Only meaningful with finality "latest".
	ConfirmationLag uint64 `yaml:"confirmation_lag" json:"confirmation_lag" toml:"confirmation_lag"`

	PollInterval    common.Duration `yaml:"poll_interval" json:"poll_interval" toml:"poll_interval"`
	ChunkSize       uint64          `yaml:"chunk_size" json:"chunk_size" toml:"chunk_size" jsonschema:"default=2000"`
	HeaderCacheSize int             `yaml:"header_cache_size" json:"header_cache_size" toml:"header_cache_size" jsonschema:"default=1024"` //nolint:lll

	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

func (c *ChainConfig) ApplyDefaults() {
	if c.Finality == "" {
		c.Finality = types.FinalityFinalized.String()
	}
	if c.PollInterval.Duration == 0 {
		c.PollInterval = common.NewDuration(2 * time.Second) //nolint:mnd
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 2000
	}
	if c.HeaderCacheSize == 0 {
		c.HeaderCacheSize = 1024
	}
	if c.Retry == nil {
		c.Retry = &RetryConfig{}
	}
	c.Retry.ApplyDefaults()
}

func (c *ChainConfig) Validate() error {
	var errs []error

	if c.RPCURL == "" {
		errs = append(errs, errors.New("chain.rpc_url is required"))
	}
	if !ethcommon.IsHexAddress(c.ContractAddress) {
		errs = append(errs, fmt.Errorf("chain.contract_address: %q is not a valid address", c.ContractAddress))
	}

	finality, err := types.ParseBlockFinality(c.Finality)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("chain.finality: %w", err))
	case c.ConfirmationLag > 0 && finality != types.FinalityLatest:
		errs = append(errs, fmt.Errorf("chain.confirmation_lag requires finality %q, got %q", types.FinalityLatest, finality))
	}

	seen := make(map[string]int, len(c.Events))
	for i, name := range c.Events {
		if name == "" {
			errs = append(errs, fmt.Errorf("chain.events[%d]: event name is empty", i))
			continue
		}
		if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("chain.events[%d]: duplicate event %q (first at %d)", i, name, first))
			continue
		}
		seen[name] = i
	}

	if c.Retry != nil {
		errs = append(errs, c.Retry.Validate())
	}

	return errors.Join(errs...)
}

// Contract returns the parsed contract address.
func (c *ChainConfig) Contract() ethcommon.Address {
	return ethcommon.HexToAddress(c.ContractAddress)
}

// RetryConfig bounds the exponential backoff applied to failing RPC calls.
// MaxAttempts counts the first call.
type RetryConfig struct {
	MaxAttempts       int             `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts" jsonschema:"default=5"`
	InitialBackoff    common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`
	MaxBackoff        common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`
	BackoffMultiplier float64         `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier" jsonschema:"default=2"` //nolint:lll
}

func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

func (r *RetryConfig) Validate() error {
	switch {
	case r.MaxAttempts < 0:
		return errors.New("chain.retry.max_attempts must not be negative")
	case r.BackoffMultiplier != 0 && r.BackoffMultiplier < 1:
		return errors.New("chain.retry.backoff_multiplier must be at least 1")
	case r.MaxBackoff.Duration > 0 && r.MaxBackoff.Duration < r.InitialBackoff.Duration:
		return errors.New("chain.retry.max_backoff must not be below initial_backoff")
	}
	return nil
}
