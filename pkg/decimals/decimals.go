// Package decimals converts between shopspring decimals and postgres
// numeric values.
package decimals

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// FromNumeric converts a postgres numeric to a decimal.Decimal.
func FromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, errors.New("numeric is null")
	}
	if n.NaN {
		return decimal.Zero, errors.New("numeric is NaN")
	}
	if n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, errors.New("numeric is not finite")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

// ToNumeric converts a decimal.Decimal to a postgres numeric.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
