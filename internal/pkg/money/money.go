package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are carried as int64 minor units (centimes). Two decimal places.
const Scale = 2

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount has more than two decimal places")
)

var maxAmount = decimal.New(1, 15)

// MaxMinor is the largest amount, in minor units, that Parse accepts.
const MaxMinor int64 = 1e17 - 1

// InRange reports whether minor is a positive amount no larger than MaxMinor.
func InRange(minor int64) bool {
	return minor > 0 && minor <= MaxMinor
}

// Parse converts a decimal string such as "200.00" or "12.5" into minor units.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(Scale)) {
		return 0, ErrTooPrecise
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return 0, ErrInvalidAmount
	}

	return d.Shift(Scale).IntPart(), nil
}

// ParsePositive is Parse with a strictly positive result.
func ParsePositive(s string) (int64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Format renders minor units as a fixed two-decimal string.
func Format(minor int64) string {
	return decimal.New(minor, -Scale).StringFixed(Scale)
}

// FromUnits converts whole currency units into minor units.
func FromUnits(units int64) int64 {
	return units * 100
}

// ApplyBasisPoints returns amount*bp/10000 rounded half away from zero.
func ApplyBasisPoints(amount, bp int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(bp)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// Split divides amount into a share of num/den (rounded) and the remainder.
func Split(amount, num, den int64) (share, rest int64) {
	share = decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(num)).
		Div(decimal.NewFromInt(den)).
		Round(0).
		IntPart()
	return share, amount - share
}
