package db

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("address", AddressMeddler{})
	meddler.Register("hash", HashMeddler{})
	meddler.Register("bigint", BigIntMeddler{})
}

// AddressMeddler stores common.Address as its checksummed hex string.
type AddressMeddler struct{}

func (AddressMeddler) PreRead(fieldAddr any) (any, error) {
	return new(sql.NullString), nil
}

func (AddressMeddler) PostRead(fieldAddr, scanTarget any) error {
	ns, err := nullString(scanTarget)
	if err != nil {
		return err
	}

	switch ptr := fieldAddr.(type) {
	case **common.Address:
		if !ns.Valid {
			*ptr = nil
			return nil
		}
		address := common.HexToAddress(ns.String)
		*ptr = &address
	case *common.Address:
		*ptr = common.Address{}
		if ns.Valid {
			*ptr = common.HexToAddress(ns.String)
		}
	default:
		return fmt.Errorf("expected *common.Address or **common.Address, got %T", fieldAddr)
	}

	return nil
}

func (AddressMeddler) PreWrite(field any) (any, error) {
	switch v := field.(type) {
	case *common.Address:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	case common.Address:
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("expected common.Address or *common.Address, got %T", field)
	}
}

// HashMeddler stores common.Hash as its 0x-prefixed hex string.
type HashMeddler struct{}

func (HashMeddler) PreRead(fieldAddr any) (any, error) {
	return new(sql.NullString), nil
}

func (HashMeddler) PostRead(fieldAddr, scanTarget any) error {
	ns, err := nullString(scanTarget)
	if err != nil {
		return err
	}

	switch ptr := fieldAddr.(type) {
	case **common.Hash:
		if !ns.Valid {
			*ptr = nil
			return nil
		}
		hash := common.HexToHash(ns.String)
		*ptr = &hash
	case *common.Hash:
		*ptr = common.Hash{}
		if ns.Valid {
			*ptr = common.HexToHash(ns.String)
		}
	default:
		return fmt.Errorf("expected *common.Hash or **common.Hash, got %T", fieldAddr)
	}

	return nil
}

func (HashMeddler) PreWrite(field any) (any, error) {
	switch v := field.(type) {
	case *common.Hash:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	case common.Hash:
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("expected common.Hash or *common.Hash, got %T", field)
	}
}

// BigIntMeddler stores *big.Int as a base-10 TEXT column so amounts keep full precision.
// NULL reads back as nil.
type BigIntMeddler struct{}

func (BigIntMeddler) PreRead(fieldAddr any) (any, error) {
	return new(sql.NullString), nil
}

func (BigIntMeddler) PostRead(fieldAddr, scanTarget any) error {
	ns, err := nullString(scanTarget)
	if err != nil {
		return err
	}

	ptr, ok := fieldAddr.(**big.Int)
	if !ok {
		return fmt.Errorf("expected **big.Int, got %T", fieldAddr)
	}

	if !ns.Valid {
		*ptr = nil
		return nil
	}

	n, err := internalcommon.ParseBigInt(ns.String)
	if err != nil {
		return err
	}
	*ptr = n

	return nil
}

func (BigIntMeddler) PreWrite(field any) (any, error) {
	n, ok := field.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected *big.Int, got %T", field)
	}
	if n == nil {
		return nil, nil
	}

	return n.String(), nil
}

func nullString(scanTarget any) (*sql.NullString, error) {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return nil, fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	return ns, nil
}
